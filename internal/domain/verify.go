package domain

import "time"

// PendingVerification holds the one-time code sent to a phone. One row per
// phone; re-requesting a code overwrites it.
type PendingVerification struct {
	Phone     string    `gorm:"primaryKey;size:32" json:"phone"`
	Code      string    `gorm:"size:8" json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func (PendingVerification) TableName() string {
	return "pending_verifications"
}

// VerifiedPhone marks a phone that passed the code challenge. Later requests
// from the same phone skip the challenge entirely.
type VerifiedPhone struct {
	Phone      string    `gorm:"primaryKey;size:32" json:"phone"`
	VerifiedAt time.Time `json:"verified_at"`
	LastUsed   time.Time `json:"last_used"`
}

func (VerifiedPhone) TableName() string {
	return "verified_phones"
}
