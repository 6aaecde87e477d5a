// Package report aggregates filtered expenses into time- or entity-bucketed
// sums for chart consumption.
package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/halloway/centavo/internal/common"
	"github.com/halloway/centavo/internal/model"
	"github.com/halloway/centavo/internal/service"
)

// Reporter computes chart series over the expense log.
type Reporter struct {
	store service.Store
}

// New creates a reporter bound to the given store.
func New(store service.Store) *Reporter {
	return &Reporter{store: store}
}

// ChartData returns the ordered bucket sums for one polarity-agnostic
// invocation. An empty filtered input yields an empty slice, not an error.
func (r *Reporter) ChartData(ctx context.Context, profileID int64, groupBy model.GroupBy, filters model.ExpenseFilters) ([]service.ChartPoint, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("unknown group key %q", groupBy)
	}

	points, err := r.store.FilterExpensesChartData(ctx, profileID, groupBy, filters)
	if err != nil {
		return nil, common.StorageError(err)
	}
	return points, nil
}

// Series holds the two curves consumers always render separately.
type Series struct {
	Spend  []service.ChartPoint
	Income []service.ChartPoint
}

// SpendAndIncome computes spend and income as two independent invocations
// filtered by polarity, never combined into one signed series. The two
// queries run concurrently; WAL readers do not block each other.
func (r *Reporter) SpendAndIncome(ctx context.Context, profileID int64, groupBy model.GroupBy, filters model.ExpenseFilters) (*Series, error) {
	if !groupBy.Valid() {
		return nil, fmt.Errorf("unknown group key %q", groupBy)
	}

	var series Series
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		f := filters
		send := true
		f.IsSend = &send
		points, err := r.store.FilterExpensesChartData(ctx, profileID, groupBy, f)
		if err != nil {
			return common.StorageError(err)
		}
		series.Spend = points
		return nil
	})

	g.Go(func() error {
		f := filters
		receive := false
		f.IsSend = &receive
		points, err := r.store.FilterExpensesChartData(ctx, profileID, groupBy, f)
		if err != nil {
			return common.StorageError(err)
		}
		series.Income = points
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &series, nil
}
