package domain

import "time"

// ActorIdentity is the best-effort anonymous identity of a request.
// Fingerprint is empty when the client did not send one.
type ActorIdentity struct {
	IP          string
	Fingerprint string
}

// HasFingerprint reports whether a fingerprint was supplied.
func (a ActorIdentity) HasFingerprint() bool {
	return a.Fingerprint != ""
}

// VoteRecord is an append-only ledger entry. At most one record may exist per
// (poll, ip_address).
type VoteRecord struct {
	ID          uint      `gorm:"primaryKey"`
	PollID      uint      `gorm:"not null;uniqueIndex:idx_vote_records_poll_ip,priority:1"`
	OptionID    uint      `gorm:"not null;index"`
	IPAddress   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_vote_records_poll_ip,priority:2"`
	Fingerprint *string   `gorm:"type:varchar(128);index"`
	VotedAt     time.Time `gorm:"not null"`
}
