package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is created on first login through the external identity provider.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	Role      string    `gorm:"size:32" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSession binds a provider-issued session token to a user. Tokens are
// opaque; validity is the row's presence plus the expiry check.
type UserSession struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId       string    `gorm:"index;size:64" json:"user_id"`
	SessionToken string    `gorm:"uniqueIndex;size:128" json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}
