package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

type TransactionLister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type CategoryLister interface {
	List(ctx context.Context, userID string) ([]*category.Category, error)
}

type Service struct {
	transactions TransactionLister
	categories   CategoryLister
}

func NewService(transactions TransactionLister, categories CategoryLister) *Service {
	return &Service{transactions: transactions, categories: categories}
}

// Summary loads the trend range and the category list concurrently and
// summarises the month containing month.
func (s *Service) Summary(ctx context.Context, userID string, month time.Time) (*Summary, error) {
	end := monthStart(month).AddDate(0, 1, 0)
	from := end.AddDate(0, -trendMonths, 0)

	var (
		txs  []*transaction.Transaction
		cats []*category.Category
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		txs, err = s.transactions.List(gctx, transaction.ListFilter{UserID: userID, StartDate: &from, EndDate: &end})
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		var err error

		cats, err = s.categories.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Summarize(month, txs, cats), nil
}
