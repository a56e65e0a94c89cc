package domain

import (
	"time"
)

// CaptchaKind distinguishes the challenge shapes and the verified token that
// a successful verification produces.
type CaptchaKind string

const (
	CaptchaKindText     CaptchaKind = "text"
	CaptchaKindPosition CaptchaKind = "position"
	CaptchaKindVerified CaptchaKind = "verified"
)

// IsChallenge reports whether k is a shape a client can be asked to solve.
func (k CaptchaKind) IsChallenge() bool {
	return k == CaptchaKindText || k == CaptchaKindPosition
}

// CaptchaChallenge is a single-use token with its expected answer. Records are
// deleted on the first verification attempt.
type CaptchaChallenge struct {
	Token          string      `gorm:"primaryKey;type:varchar(64)" json:"token"`
	Kind           CaptchaKind `gorm:"type:varchar(16);not null" json:"kind"`
	ExpectedAnswer string      `gorm:"type:varchar(64);not null" json:"expected_answer"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	ExpiresAt      time.Time   `gorm:"not null;index" json:"expires_at"`
}

// Expired reports whether the challenge is no longer valid at now.
func (c *CaptchaChallenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
