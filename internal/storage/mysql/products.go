package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tubeworks/internal/storage"
)

const productColumns = `
	id, code, name, core_width_mm, makeready_percent, waste_percent, setup_minutes,
	tubes_per_carton, cartons_per_pallet, tolerance_id_mm, tolerance_od_mm,
	tolerance_wall_mm, inspection_every_minutes, is_active
`

// GetProducts lists catalogue entries. A non-empty search matches code or
// name; activeOnly hides discontinued products.
func (s *Storage) GetProducts(ctx context.Context, search string, activeOnly bool) ([]*storage.ProductSpec, error) {
	const op = "storage.products.GetProducts.sql"

	stmt := `SELECT ` + productColumns + ` FROM tube_products`
	var conditions []string
	var args []interface{}

	if search != "" {
		conditions = append(conditions, `(code LIKE ? OR name LIKE ?)`)
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	if activeOnly {
		conditions = append(conditions, `is_active = TRUE`)
	}
	for i, cond := range conditions {
		if i == 0 {
			stmt += ` WHERE ` + cond
		} else {
			stmt += ` AND ` + cond
		}
	}

	stmt += ` ORDER BY code ASC`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query products: %w", op, err)
	}
	defer rows.Close()

	var products []*storage.ProductSpec
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan product row: %w", op, err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return products, nil
}

// GetProductByCode returns one catalogue entry.
func (s *Storage) GetProductByCode(ctx context.Context, code string) (*storage.ProductSpec, error) {
	const op = "storage.products.GetProductByCode.sql"

	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM tube_products WHERE code = ?`, code)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: product %s: %w", op, code, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: query product: %w", op, err)
	}

	return product, nil
}

// SaveProduct inserts a catalogue entry and returns its id. Nil pointer
// fields store NULL, which the calculator later reads as "use the default".
func (s *Storage) SaveProduct(ctx context.Context, req storage.SaveProductSpec) (int64, error) {
	const op = "storage.products.SaveProduct.sql"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tube_products
			(code, name, core_width_mm, makeready_percent, waste_percent, setup_minutes,
			 tubes_per_carton, cartons_per_pallet, tolerance_id_mm, tolerance_od_mm,
			 tolerance_wall_mm, inspection_every_minutes, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Code, req.Name, req.CoreWidthMM, req.MakereadyPercent, req.WastePercent,
		req.SetupMinutes, req.TubesPerCarton, req.CartonsPerPallet, req.ToleranceIDMM,
		req.ToleranceODMM, req.ToleranceWallMM, req.InspectionEveryMinutes, req.Active)
	if err != nil {
		return 0, fmt.Errorf("%s: insert product %s: %w", op, req.Code, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	return id, nil
}

// UpdateProduct rewrites a catalogue entry in full, keyed by product code.
func (s *Storage) UpdateProduct(ctx context.Context, code string, req storage.SaveProductSpec) error {
	const op = "storage.products.UpdateProduct.sql"

	_, err := s.db.ExecContext(ctx, `
		UPDATE tube_products
		SET name = ?, core_width_mm = ?, makeready_percent = ?, waste_percent = ?,
		    setup_minutes = ?, tubes_per_carton = ?, cartons_per_pallet = ?,
		    tolerance_id_mm = ?, tolerance_od_mm = ?, tolerance_wall_mm = ?,
		    inspection_every_minutes = ?, is_active = ?
		WHERE code = ?
	`, req.Name, req.CoreWidthMM, req.MakereadyPercent, req.WastePercent,
		req.SetupMinutes, req.TubesPerCarton, req.CartonsPerPallet, req.ToleranceIDMM,
		req.ToleranceODMM, req.ToleranceWallMM, req.InspectionEveryMinutes, req.Active, code)
	if err != nil {
		return fmt.Errorf("%s: update product %s: %w", op, code, err)
	}

	exists, err := s.productExists(ctx, code)
	if err != nil {
		return fmt.Errorf("%s: check product %s: %w", op, code, err)
	}
	if !exists {
		return fmt.Errorf("%s: product %s: %w", op, code, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) productExists(ctx context.Context, code string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tube_products WHERE code = ?`, code).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanProduct(row rowScanner) (*storage.ProductSpec, error) {
	var p storage.ProductSpec
	var coreWidth, makeready, waste, setup, tolID, tolOD, tolWall sql.NullFloat64
	var perCarton, perPallet, inspection sql.NullInt64

	err := row.Scan(&p.ID, &p.Code, &p.Name, &coreWidth, &makeready, &waste, &setup,
		&perCarton, &perPallet, &tolID, &tolOD, &tolWall, &inspection, &p.Active)
	if err != nil {
		return nil, err
	}

	if coreWidth.Valid {
		p.CoreWidthMM = &coreWidth.Float64
	}
	if makeready.Valid {
		p.MakereadyPercent = &makeready.Float64
	}
	if waste.Valid {
		p.WastePercent = &waste.Float64
	}
	if setup.Valid {
		p.SetupMinutes = &setup.Float64
	}
	if perCarton.Valid {
		v := int(perCarton.Int64)
		p.TubesPerCarton = &v
	}
	if perPallet.Valid {
		v := int(perPallet.Int64)
		p.CartonsPerPallet = &v
	}
	if tolID.Valid {
		p.ToleranceIDMM = &tolID.Float64
	}
	if tolOD.Valid {
		p.ToleranceODMM = &tolOD.Float64
	}
	if tolWall.Valid {
		p.ToleranceWallMM = &tolWall.Float64
	}
	if inspection.Valid {
		v := int(inspection.Int64)
		p.InspectionEveryMinutes = &v
	}

	return &p, nil
}
