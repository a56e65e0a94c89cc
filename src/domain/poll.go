package domain

import (
	"time"
)

// Poll is a single question. CreatedAt is stored in UTC.
type Poll struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	Options   []Option  `gorm:"foreignKey:PollID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

// Option belongs to exactly one poll. Votes is a counter kept equal to the
// number of vote records pointing at the option.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PollID     uint   `gorm:"not null;index" json:"poll_id"`
	OptionText string `gorm:"type:text;not null" json:"option_text"`
	Votes      int64  `gorm:"not null;default:0" json:"votes"`
}

// MinPollOptions is the smallest number of options a poll can be created with.
const MinPollOptions = 2

// TotalVotes sums the option counters.
func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, o := range p.Options {
		total += o.Votes
	}
	return total
}

// HasOption reports whether optionID is one of the poll's loaded options.
func (p *Poll) HasOption(optionID uint) bool {
	for _, o := range p.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// Models lists every persisted type in creation order.
func Models() []interface{} {
	return []interface{}{&Poll{}, &Option{}, &VoteRecord{}, &CaptchaChallenge{}}
}
