package user

import "time"

// User is an account mirrored from the identity provider. ID is the
// provider's subject and never changes.
type User struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
	IsAdmin     bool
	IsDisabled  bool
	CreatedAt   time.Time
}
