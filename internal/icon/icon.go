// Package icon defines the closed set of icon identifiers and the color
// format accepted for categories and goals. Rendering them is the client's
// concern.
package icon

import "regexp"

type Icon string

const (
	ShoppingCart Icon = "ShoppingCart"
	Home         Icon = "Home"
	Car          Icon = "Car"
	Utensils     Icon = "Utensils"
	Plane        Icon = "Plane"
	Heart        Icon = "Heart"
	Smartphone   Icon = "Smartphone"
	Shirt        Icon = "Shirt"
	BookOpen     Icon = "BookOpen"
	Briefcase    Icon = "Briefcase"
	DollarSign   Icon = "DollarSign"
	TrendingUp   Icon = "TrendingUp"
	Wallet       Icon = "Wallet"
	CreditCard   Icon = "CreditCard"
	PiggyBank    Icon = "PiggyBank"
	Target       Icon = "Target"
)

var known = map[Icon]struct{}{
	ShoppingCart: {}, Home: {}, Car: {}, Utensils: {}, Plane: {}, Heart: {},
	Smartphone: {}, Shirt: {}, BookOpen: {}, Briefcase: {}, DollarSign: {},
	TrendingUp: {}, Wallet: {}, CreditCard: {}, PiggyBank: {}, Target: {},
}

// Valid reports whether i is one of the known icons.
func (i Icon) Valid() bool {
	_, ok := known[i]
	return ok
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb color.
func ValidColor(s string) bool {
	return hexColor.MatchString(s)
}
