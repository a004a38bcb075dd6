package user

import (
	"time"

	"github.com/MrJamesThe3rd/budgie/internal/user"
)

// Response is the public shape of an account, shared with the admin API.
type Response struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	IsAdmin     bool      `json:"isAdmin"`
	IsDisabled  bool      `json:"isDisabled"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewResponse(u *user.User) Response {
	return Response{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		IsAdmin:     u.IsAdmin,
		IsDisabled:  u.IsDisabled,
		CreatedAt:   u.CreatedAt,
	}
}

func NewResponseList(users []*user.User) []Response {
	resp := make([]Response, len(users))
	for i, u := range users {
		resp[i] = NewResponse(u)
	}

	return resp
}
