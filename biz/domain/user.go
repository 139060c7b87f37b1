package domain

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Status      UserStatus `json:"status"`
	SuspendedAt time.Time  `json:"suspended_at,omitempty"`
}
