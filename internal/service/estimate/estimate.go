// Package estimate assembles everything the costing calculator needs for one
// order line and runs it.
package estimate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tubeworks/internal/constants"
	"tubeworks/internal/costing"
	"tubeworks/internal/pipeline"
	"tubeworks/internal/storage"
)

type EstimateStorage interface {
	GetOrderItem(ctx context.Context, orderNum string, position int) (*storage.OrderItem, error)
	GetJob(ctx context.Context, orderNum string) (*storage.Job, error)
	GetProductByCode(ctx context.Context, code string) (*storage.ProductSpec, error)
}

type Service struct {
	storage EstimateStorage
}

func New(storage EstimateStorage) *Service {
	return &Service{storage: storage}
}

// Estimate is a calculator run bound to the order line it was made for.
type Estimate struct {
	OrderNum string              `json:"order_num"`
	Position int                 `json:"position"`
	Stage    pipeline.Stage      `json:"stage"`
	Line     storage.MachineLine `json:"machine_line"`
	Item     *storage.OrderItem  `json:"item"`
	Result   costing.Result      `json:"result"`
}

// ForOrderLine estimates one order line. The stage argument may be empty, in
// which case the job's current stage decides the machine line; stages without
// machines estimate on the winding line.
func (s *Service) ForOrderLine(ctx context.Context, orderNum string, position int, stage pipeline.Stage) (*Estimate, error) {
	const op = "service.estimate.ForOrderLine"

	var (
		item *storage.OrderItem
		job  *storage.Job
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		item, err = s.storage.GetOrderItem(gCtx, orderNum, position)
		if err != nil {
			return fmt.Errorf("order item: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		job, err = s.storage.GetJob(gCtx, orderNum)
		if err != nil {
			return fmt.Errorf("job: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	spec, err := s.storage.GetProductByCode(ctx, item.ProductCode)
	if err != nil {
		return nil, fmt.Errorf("%s: product %s: %w", op, item.ProductCode, err)
	}

	effective := stage
	if effective == "" {
		effective = job.Stage
	}
	line, ok := constants.LineFor(effective)
	if !ok {
		line = constants.MachineLines[pipeline.StageWinding]
	}

	return &Estimate{
		OrderNum: orderNum,
		Position: position,
		Stage:    effective,
		Line:     line,
		Item:     item,
		Result:   costing.Calculate(item.Quantity, spec, line),
	}, nil
}
