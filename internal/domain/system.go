package domain

import "time"

// NotifyConfig is the singleton destination for request notifications,
// editable from the admin dashboard.
type NotifyConfig struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	UpdatedAt time.Time `json:"-"`
}

func (NotifyConfig) TableName() string {
	return "notify_config"
}
