package analytics

import (
	"context"

	"transaction-dashboard/internal/models"

	"golang.org/x/sync/errgroup"
)

// Reader loads the full transaction set.
type Reader interface {
	All(ctx context.Context) ([]models.Transaction, error)
}

// Engine answers the month queries. Each call validates the month
// before reading from the store and keeps nothing between calls.
type Engine struct {
	store Reader
}

func NewEngine(store Reader) *Engine {
	return &Engine{store: store}
}

func (e *Engine) All(ctx context.Context) ([]models.Transaction, error) {
	items, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Transaction{}
	}
	return items, nil
}

func (e *Engine) monthItems(ctx context.Context, month string) ([]models.Transaction, error) {
	n, err := MonthNumber(month)
	if err != nil {
		return nil, err
	}
	items, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByMonth(items, n), nil
}

func (e *Engine) Statistics(ctx context.Context, month string) (Statistics, error) {
	items, err := e.monthItems(ctx, month)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(items), nil
}

func (e *Engine) PieChart(ctx context.Context, month string) (PieChart, error) {
	items, err := e.monthItems(ctx, month)
	if err != nil {
		return PieChart{}, err
	}
	return PieChart{ItemCountsByCategory: CategoryCounts(items)}, nil
}

func (e *Engine) BarChart(ctx context.Context, month string) (BarChart, error) {
	items, err := e.monthItems(ctx, month)
	if err != nil {
		return BarChart{}, err
	}
	return BarChart{ItemCounts: PriceRangeCounts(items)}, nil
}

func (e *Engine) ListTransactions(ctx context.Context, month string) ([]models.Transaction, error) {
	return e.monthItems(ctx, month)
}

// Combined runs the three chart queries concurrently. The month is checked
// once up front so an invalid name never reaches the store.
func (e *Engine) Combined(ctx context.Context, month string) (Combined, error) {
	if _, err := MonthNumber(month); err != nil {
		return Combined{}, err
	}

	var out Combined
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := e.Statistics(gctx, month)
		out.DataFromAPI1 = s
		return err
	})
	g.Go(func() error {
		p, err := e.PieChart(gctx, month)
		out.DataFromAPI2 = p
		return err
	})
	g.Go(func() error {
		b, err := e.BarChart(gctx, month)
		out.DataFromAPI3 = b
		return err
	})
	if err := g.Wait(); err != nil {
		return Combined{}, err
	}
	return out, nil
}
