package handler

import (
	"time"

	"github.com/msomdec/ekaksh/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash is
// never exposed.
type UserDTO struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// queryRequest is both the JSON API body and the datastar signal set.
type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Kind   domain.QueryKind `json:"kind"`
	Answer string           `json:"answer"`
}
