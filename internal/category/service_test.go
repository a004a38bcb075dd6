package category_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    category.CreateParams
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: category.CreateParams{Name: " Pets ", Type: category.TypeExpense, Icon: icon.Heart, Color: "#aabbcc"},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						assert.Equal(t, "caller", c.UserID)
						assert.Equal(t, "Pets", c.Name)
						assert.False(t, c.IsDefault)
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "UnknownIcon",
			params:  category.CreateParams{Name: "Pets", Type: category.TypeExpense, Icon: "Dog", Color: "#aabbcc"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BadType",
			params:  category.CreateParams{Name: "Pets", Type: "transfer", Icon: icon.Heart, Color: "#aabbcc"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BadColor",
			params:  category.CreateParams{Name: "Pets", Type: category.TypeIncome, Icon: icon.Heart, Color: "red"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "BlankName",
			params:  category.CreateParams{Name: "  ", Type: category.TypeIncome, Icon: icon.Heart, Color: "#fff"},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := category.NewService(repo).Create(context.Background(), "caller", tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		setupMock func(m *category.MockRepository)
		wantErr   error
	}{
		{
			name: "Owner",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: "caller"}, nil)
				m.EXPECT().DeleteCategory(gomock.Any(), id).Return(nil)
			},
		},
		{
			name: "OtherOwner",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(&category.Category{ID: id, UserID: "someone-else"}, nil)
			},
			wantErr: apperr.ErrForbidden,
		},
		{
			name: "Missing",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().GetCategory(gomock.Any(), id).Return(nil, apperr.ErrNotFound)
			},
			wantErr: apperr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := category.NewService(repo).Delete(context.Background(), "caller", id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_SeedDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := category.NewMockRepository(ctrl)

	repo.EXPECT().CreateCategories(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cs []*category.Category) error {
			require.Len(t, cs, 7)

			counts := map[category.Type]int{}

			for _, c := range cs {
				assert.Equal(t, "uid-1", c.UserID)
				assert.True(t, c.IsDefault)
				assert.True(t, c.Icon.Valid(), c.Icon)
				counts[c.Type]++
			}

			assert.Equal(t, 5, counts[category.TypeExpense])
			assert.Equal(t, 2, counts[category.TypeIncome])

			return nil
		})

	require.NoError(t, category.NewService(repo).SeedDefaults(context.Background(), "uid-1"))
}
