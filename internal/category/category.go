package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/icon"
)

// Type says whether a category groups income or expenses.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type Category struct {
	ID        uuid.UUID
	UserID    string
	Name      string
	Type      Type
	Icon      icon.Icon
	Color     string
	IsDefault bool
	CreatedAt time.Time
}

type preset struct {
	name  string
	typ   Type
	icon  icon.Icon
	color string
}

// defaults is the starter set every new account receives.
var defaults = []preset{
	{"Groceries", TypeExpense, icon.ShoppingCart, "#ef4444"},
	{"Rent", TypeExpense, icon.Home, "#f59e0b"},
	{"Transportation", TypeExpense, icon.Car, "#3b82f6"},
	{"Dining Out", TypeExpense, icon.Utensils, "#ec4899"},
	{"Entertainment", TypeExpense, icon.Smartphone, "#8b5cf6"},
	{"Salary", TypeIncome, icon.DollarSign, "#10b981"},
	{"Freelance", TypeIncome, icon.Briefcase, "#059669"},
}

// Defaults returns fresh default categories owned by userID.
func Defaults(userID string) []*Category {
	cats := make([]*Category, len(defaults))
	for i, p := range defaults {
		cats[i] = &Category{
			UserID:    userID,
			Name:      p.name,
			Type:      p.typ,
			Icon:      p.icon,
			Color:     p.color,
			IsDefault: true,
		}
	}

	return cats
}
