package goal_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/goal"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
)

const caller = "user-a"

func TestService_AddFunds(t *testing.T) {
	id := uuid.New()

	stored := func() *goal.Goal {
		return &goal.Goal{
			ID:            id,
			UserID:        caller,
			Name:          "Vacation",
			TargetAmount:  decimal.RequireFromString("50.00"),
			CurrentAmount: decimal.RequireFromString("30.00"),
			Icon:          icon.Plane,
			Color:         "#3b82f6",
			Version:       4,
		}
	}

	type testCase struct {
		name          string
		amount        string
		setupMock     func(m *goal.MockRepository)
		wantCurrent   string
		wantCompleted bool
		wantErr       error
	}

	tests := []testCase{
		{
			name:   "ReachesTarget",
			amount: "20.00",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(stored(), nil)
				m.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g *goal.Goal) error {
						assert.Equal(t, 4, g.Version)
						g.Version++
						return nil
					})
			},
			wantCurrent:   "50.00",
			wantCompleted: true,
		},
		{
			name:   "FallsShortByOneCent",
			amount: "19.99",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(stored(), nil)
				m.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCurrent:   "49.99",
			wantCompleted: false,
		},
		{
			name:   "ConcurrentWriteWins",
			amount: "5",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(stored(), nil)
				m.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("%w: goal was modified concurrently", apperr.ErrConflict))
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name:   "SavedAmountOverflows",
			amount: "9999999999.99",
			setupMock: func(m *goal.MockRepository) {
				m.EXPECT().GetGoal(gomock.Any(), id).Return(stored(), nil)
				m.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "ZeroAmount",
			amount:  "0",
			wantErr: apperr.ErrValidation,
		},
		{
			name:   "OtherOwner",
			amount: "5",
			setupMock: func(m *goal.MockRepository) {
				g := stored()
				g.UserID = "user-b"
				m.EXPECT().GetGoal(gomock.Any(), id).Return(g, nil)
			},
			wantErr: apperr.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := goal.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := goal.NewService(repo).AddFunds(context.Background(), caller, id, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, got.CurrentAmount.StringFixed(2))
			assert.Equal(t, tt.wantCompleted, got.IsCompleted)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := goal.NewMockRepository(ctrl)

	repo.EXPECT().CreateGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *goal.Goal) error {
			assert.Equal(t, caller, g.UserID)
			assert.Equal(t, icon.Target, g.Icon)
			assert.True(t, g.CurrentAmount.IsZero())
			assert.False(t, g.IsCompleted)
			g.ID = uuid.New()
			g.Version = 1
			return nil
		})

	got, err := goal.NewService(repo).Create(context.Background(), caller, goal.CreateParams{
		Name:         "Emergency fund",
		TargetAmount: decimal.RequireFromString("1000"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Percentage())
}

func TestService_Create_InvalidIcon(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := goal.NewService(goal.NewMockRepository(ctrl)).Create(context.Background(), caller, goal.CreateParams{
		Name:         "Car",
		TargetAmount: decimal.RequireFromString("1000"),
		Icon:         "Rocket",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestService_Update_LoweringTargetCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := goal.NewMockRepository(ctrl)
	id := uuid.New()

	repo.EXPECT().GetGoal(gomock.Any(), id).Return(&goal.Goal{
		ID: id, UserID: caller, Name: "Bike", Icon: icon.Car, Color: "#000",
		TargetAmount: decimal.RequireFromString("500"), CurrentAmount: decimal.RequireFromString("300"),
	}, nil)
	repo.EXPECT().UpdateGoal(gomock.Any(), gomock.Any()).Return(nil)

	got, err := goal.NewService(repo).Update(context.Background(), caller, id, goal.UpdateParams{
		TargetAmount: new(decimal.RequireFromString("300")),
	})
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 100.0, got.Percentage())
}
