package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	PhoneNumber    *string   `json:"phone_number,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserPatch - частичное обновление профиля
type UserPatch struct {
	FirstName   Optional[string]
	LastName    Optional[string]
	PhoneNumber Optional[string]
}

// IsEmpty сообщает, что ни одно поле не передано
func (p UserPatch) IsEmpty() bool {
	return !p.FirstName.Set && !p.LastName.Set && !p.PhoneNumber.Set
}
