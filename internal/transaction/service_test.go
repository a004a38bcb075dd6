package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

const caller = "user-a"

func newService(t *testing.T) (*transaction.Service, *transaction.MockRepository, *transaction.MockCategoryLookup, *transaction.MockImportTx) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)
	cats := transaction.NewMockCategoryLookup(ctrl)
	itx := transaction.NewMockImportTx(ctrl)

	return transaction.NewService(repo, cats), repo, cats, itx
}

func TestService_Create(t *testing.T) {
	catID := uuid.New()
	date := time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository, c *transaction.MockCategoryLookup)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: transaction.CreateParams{
				Amount:      decimal.RequireFromString("10.50"),
				Type:        transaction.TypeExpense,
				Description: "Test Transaction",
				Date:        date,
			},
			setupMock: func(m *transaction.MockRepository, _ *transaction.MockCategoryLookup) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, caller, tx.UserID)
						assert.Equal(t, []string{}, tx.Tags)
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "MatchingCategory",
			params: transaction.CreateParams{
				CategoryID:  &catID,
				Amount:      decimal.RequireFromString("2500"),
				Type:        transaction.TypeIncome,
				Description: "Salary",
				Date:        date,
			},
			setupMock: func(m *transaction.MockRepository, c *transaction.MockCategoryLookup) {
				c.EXPECT().Get(gomock.Any(), caller, catID).
					Return(&category.Category{ID: catID, UserID: caller, Type: category.TypeIncome}, nil)
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "CategoryTypeMismatch",
			params: transaction.CreateParams{
				CategoryID:  &catID,
				Amount:      decimal.RequireFromString("12"),
				Type:        transaction.TypeIncome,
				Description: "Refund",
				Date:        date,
			},
			setupMock: func(_ *transaction.MockRepository, c *transaction.MockCategoryLookup) {
				c.EXPECT().Get(gomock.Any(), caller, catID).
					Return(&category.Category{ID: catID, UserID: caller, Type: category.TypeExpense, Name: "Groceries"}, nil)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "ForeignCategory",
			params: transaction.CreateParams{
				CategoryID:  &catID,
				Amount:      decimal.RequireFromString("12"),
				Type:        transaction.TypeExpense,
				Description: "Snacks",
				Date:        date,
			},
			setupMock: func(_ *transaction.MockRepository, c *transaction.MockCategoryLookup) {
				c.EXPECT().Get(gomock.Any(), caller, catID).Return(nil, apperr.ErrForbidden)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "NegativeAmount",
			params: transaction.CreateParams{
				Amount:      decimal.RequireFromString("-1"),
				Type:        transaction.TypeExpense,
				Description: "Oops",
				Date:        date,
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "TooManyDecimals",
			params: transaction.CreateParams{
				Amount:      decimal.RequireFromString("1.005"),
				Type:        transaction.TypeExpense,
				Description: "Oops",
				Date:        date,
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "AmountAboveColumnLimit",
			params: transaction.CreateParams{
				Amount:      decimal.RequireFromString("10000000000"),
				Type:        transaction.TypeExpense,
				Description: "Oops",
				Date:        date,
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "RecurringWithoutFrequency",
			params: transaction.CreateParams{
				Amount:      decimal.RequireFromString("9.99"),
				Type:        transaction.TypeExpense,
				Description: "Streaming",
				Date:        date,
				IsRecurring: true,
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "RepoError",
			params: transaction.CreateParams{
				Amount:      decimal.RequireFromString("5"),
				Type:        transaction.TypeExpense,
				Description: "Coffee",
				Date:        date,
			},
			setupMock: func(m *transaction.MockRepository, _ *transaction.MockCategoryLookup) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cats, _ := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(repo, cats)
			}

			got, err := svc.Create(context.Background(), caller, tt.params)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, apperr.ErrValidation) {
					assert.ErrorIs(t, err, apperr.ErrValidation)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, caller, got.UserID)
		})
	}
}

func TestService_List(t *testing.T) {
	t.Run("ScopedToCaller", func(t *testing.T) {
		svc, repo, _, _ := newService(t)
		filter := transaction.ListFilter{UserID: caller}

		repo.EXPECT().
			ListTransactions(gomock.Any(), filter).
			Return([]*transaction.Transaction{{ID: uuid.New(), UserID: caller}, {ID: uuid.New(), UserID: caller}}, nil)

		got, err := svc.List(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("NoOwner", func(t *testing.T) {
		svc, _, _, _ := newService(t)

		_, err := svc.List(context.Background(), transaction.ListFilter{})
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestService_Update(t *testing.T) {
	id := uuid.New()
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	stored := func(owner string) *transaction.Transaction {
		catID := uuid.New()

		return &transaction.Transaction{
			ID:          id,
			UserID:      owner,
			CategoryID:  &catID,
			Amount:      decimal.RequireFromString("20"),
			Type:        transaction.TypeExpense,
			Description: "Lunch",
			Tags:        []string{"food"},
			Date:        date,
		}
	}

	t.Run("PartialUpdate", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(stored(caller), nil)
		repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

		got, err := svc.Update(context.Background(), caller, id, transaction.UpdateParams{
			Amount:        new(decimal.RequireFromString("22.40")),
			ClearCategory: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "22.40", got.Amount.StringFixed(2))
		assert.Nil(t, got.CategoryID)
		assert.Equal(t, "Lunch", got.Description)
		assert.Equal(t, []string{"food"}, got.Tags)
	})

	t.Run("OtherOwner", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(stored("user-b"), nil)

		_, err := svc.Update(context.Background(), caller, id, transaction.UpdateParams{Description: new("hijack")})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("Owner", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, UserID: caller}, nil)
		repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), caller, id))
	})

	t.Run("OtherOwner", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, UserID: "user-b"}, nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), caller, id), apperr.ErrForbidden)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, repo, _, _ := newService(t)

		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, apperr.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), caller, id), apperr.ErrNotFound)
	})
}

func TestService_ImportBatch_NoDuplicates(t *testing.T) {
	svc, repo, _, itx := newService(t)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:      decimal.RequireFromString("10"),
			Type:        transaction.TypeExpense,
			Description: "COFFEE SHOP",
			Date:        date,
		},
	}

	repo.EXPECT().BeginImport(gomock.Any(), caller, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), caller, params).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []*transaction.Transaction) error {
			require.Len(t, txs, 1)
			assert.Equal(t, caller, txs[0].UserID)
			return nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), caller, params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Skipped)
}

func TestService_ImportBatch_SkipsDuplicates(t *testing.T) {
	svc, repo, _, itx := newService(t)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{
			Amount:      decimal.RequireFromString("10.00"),
			Type:        transaction.TypeExpense,
			Description: "COFFEE SHOP",
			Date:        date,
		},
		{
			Amount:      decimal.RequireFromString("20"),
			Type:        transaction.TypeExpense,
			Description: "LUNCH PLACE",
			Date:        date,
		},
	}

	existing := &transaction.Transaction{
		ID:          uuid.New(),
		UserID:      caller,
		Amount:      decimal.RequireFromString("10"),
		Type:        transaction.TypeExpense,
		Description: "COFFEE SHOP",
		Date:        date,
	}

	repo.EXPECT().BeginImport(gomock.Any(), caller, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), caller, params).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), caller, params)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, "LUNCH PLACE", result.Imported[0].Description)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, params[0], result.Skipped[0].Incoming)
	assert.Equal(t, existing, result.Skipped[0].Existing)
}

func TestService_ImportBatch_AllDuplicates(t *testing.T) {
	svc, repo, _, itx := newService(t)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{
		{Amount: decimal.RequireFromString("10"), Type: transaction.TypeExpense, Description: "COFFEE", Date: date},
	}

	repo.EXPECT().BeginImport(gomock.Any(), caller, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), caller, params).Return([]*transaction.Transaction{
		{Amount: decimal.RequireFromString("10"), Type: transaction.TypeExpense, Description: "COFFEE", Date: date},
	}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), caller, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Len(t, result.Skipped, 1)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	svc, _, _, _ := newService(t)

	result, err := svc.ImportBatch(context.Background(), caller, []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Skipped)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.ImportBatch(context.Background(), caller, []transaction.CreateParams{
		{Amount: decimal.RequireFromString("10"), Type: "transfer", Description: "X", Date: time.Now()},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
