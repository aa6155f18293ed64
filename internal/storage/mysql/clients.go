package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tubeworks/internal/storage"
)

// GetClients lists clients, newest first. A non-empty search matches the
// client or contact name.
func (s *Storage) GetClients(ctx context.Context, search string) ([]*storage.Client, error) {
	const op = "storage.clients.GetClients.sql"

	stmt := `
		SELECT id, name, contact, email, phone, address, is_active
		FROM tube_clients
	`
	var args []interface{}

	if search != "" {
		stmt += ` WHERE name LIKE ? OR contact LIKE ?`
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	stmt += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query clients: %w", op, err)
	}
	defer rows.Close()

	var clients []*storage.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan client row: %w", op, err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return clients, nil
}

// GetClient returns one client by id.
func (s *Storage) GetClient(ctx context.Context, id int64) (*storage.Client, error) {
	const op = "storage.clients.GetClient.sql"

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, contact, email, phone, address, is_active
		FROM tube_clients
		WHERE id = ?
	`, id)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: client %d: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: query client: %w", op, err)
	}

	return client, nil
}

// SaveClient inserts a new client and returns its id.
func (s *Storage) SaveClient(ctx context.Context, req storage.SaveClient) (int64, error) {
	const op = "storage.clients.SaveClient.sql"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tube_clients (name, contact, email, phone, address, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, req.Name, nullable(req.Contact), nullable(req.Email), nullable(req.Phone),
		nullable(req.Address), req.Active)
	if err != nil {
		return 0, fmt.Errorf("%s: insert client %s: %w", op, req.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	return id, nil
}

// UpdateClient rewrites a client row in full.
func (s *Storage) UpdateClient(ctx context.Context, id int64, req storage.SaveClient) error {
	const op = "storage.clients.UpdateClient.sql"

	_, err := s.db.ExecContext(ctx, `
		UPDATE tube_clients
		SET name = ?, contact = ?, email = ?, phone = ?, address = ?, is_active = ?
		WHERE id = ?
	`, req.Name, nullable(req.Contact), nullable(req.Email), nullable(req.Phone),
		nullable(req.Address), req.Active, id)
	if err != nil {
		return fmt.Errorf("%s: update client %d: %w", op, id, err)
	}

	exists, err := s.clientExists(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: check client %d: %w", op, id, err)
	}
	if !exists {
		return fmt.Errorf("%s: client %d: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) clientExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tube_clients WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*storage.Client, error) {
	var client storage.Client
	var contact, email, phone, address sql.NullString

	err := row.Scan(&client.ID, &client.Name, &contact, &email, &phone, &address, &client.Active)
	if err != nil {
		return nil, err
	}

	if contact.Valid {
		client.Contact = &contact.String
	}
	if email.Valid {
		client.Email = &email.String
	}
	if phone.Valid {
		client.Phone = &phone.String
	}
	if address.Valid {
		client.Address = &address.String
	}

	return &client, nil
}
