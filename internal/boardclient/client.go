// Package boardclient is the Go client for the tubeworks HTTP API. Office
// tools use it to read the production board and move jobs between stages
// without re-implementing any board rules: the server decides, the client
// surfaces the decision.
package boardclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tubeworks/internal/pipeline"
	"tubeworks/internal/service/estimate"
	"tubeworks/internal/storage"
)

const defaultTimeout = 10 * time.Second

// ErrNotFound is returned when the server reports 404 for the requested
// order, job or product.
var ErrNotFound = errors.New("not found")

// Rejection is a move the server refused. Reason carries the server's
// explanation word for word; callers show it, they never interpret it.
type Rejection struct {
	Reason string
}

func (e *Rejection) Error() string {
	return e.Reason
}

// Config carries everything the client needs. Username and Password are only
// required for the admin endpoints; when set they are sent on every request.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

// Board fetches the complete board snapshot.
func (c *Client) Board(ctx context.Context) (*storage.BoardSnapshot, error) {
	var snap storage.BoardSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Job fetches one job by order number.
func (c *Client) Job(ctx context.Context, orderNum string) (*storage.Job, error) {
	var job storage.Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+orderNum, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// MoveStage asks the server to move a job one stage forward or backward.
// A *Rejection error means the rules said no; the job is unchanged.
func (c *Client) MoveStage(ctx context.Context, orderNum string, direction pipeline.Direction) (*storage.Job, error) {
	req := map[string]string{
		"order_num": orderNum,
		"direction": string(direction),
	}

	var job storage.Job
	if err := c.do(ctx, http.MethodPost, "/api/board/move", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// JumpStage places a job directly on a stage, admin credentials required.
func (c *Client) JumpStage(ctx context.Context, orderNum string, stage pipeline.Stage) (*storage.Job, error) {
	req := map[string]string{
		"order_num": orderNum,
		"stage":     string(stage),
	}

	var job storage.Job
	if err := c.do(ctx, http.MethodPost, "/api/admin/board/jump", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// SetMaterials flips the materials-ready flag on a job.
func (c *Client) SetMaterials(ctx context.Context, orderNum string, ready bool) (*storage.Job, error) {
	req := map[string]interface{}{
		"order_num": orderNum,
		"ready":     ready,
	}

	var job storage.Job
	if err := c.do(ctx, http.MethodPost, "/api/board/materials", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Order fetches one order with line items and money totals.
func (c *Client) Order(ctx context.Context, orderNum string) (*storage.Order, error) {
	var order storage.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+orderNum, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ProductSpec fetches one catalogue entry by product code.
func (c *Client) ProductSpec(ctx context.Context, code string) (*storage.ProductSpec, error) {
	var spec storage.ProductSpec
	if err := c.do(ctx, http.MethodGet, "/api/products/"+code, nil, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Estimate runs the server's costing calculator for one order line. An empty
// stage lets the server pick from the job's current position.
func (c *Client) Estimate(ctx context.Context, orderNum string, position int, stage pipeline.Stage) (*estimate.Estimate, error) {
	req := map[string]interface{}{
		"order_num": orderNum,
		"position":  position,
	}
	if stage != "" {
		req["stage"] = string(stage)
	}

	var est estimate.Estimate
	if err := c.do(ctx, http.MethodPost, "/api/estimate", req, &est); err != nil {
		return nil, err
	}
	return &est, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("boardclient: encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("boardclient: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("boardclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("boardclient: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("boardclient: decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusBadRequest:
		return rejectionFrom(raw)

	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("boardclient: %s %s: %w", method, path, ErrNotFound)

	default:
		return fmt.Errorf("boardclient: %s %s: unexpected status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
}

// rejectionFrom keeps the server's wording intact whether the refusal came
// as the JSON envelope or as plain text.
func rejectionFrom(raw []byte) *Rejection {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return &Rejection{Reason: payload.Error}
	}
	return &Rejection{Reason: strings.TrimSpace(string(raw))}
}
