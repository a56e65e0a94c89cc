package repository

import (
	"context"
	"errors"

	"github.com/quickpoll/backend/src/domain"
	"gorm.io/gorm"
)

type PollRepository struct {
	db *gorm.DB
}

func NewPollRepository(db *gorm.DB) *PollRepository {
	return &PollRepository{db: db}
}

// CreatePoll inserts the poll and its options in one transaction.
func (r *PollRepository) CreatePoll(ctx context.Context, poll *domain.Poll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		options := poll.Options
		poll.Options = nil
		if err := tx.Create(poll).Error; err != nil {
			return err
		}

		for i := range options {
			options[i].PollID = poll.ID
			options[i].Votes = 0
		}
		if err := tx.Create(&options).Error; err != nil {
			return err
		}
		poll.Options = options
		return nil
	})
}

// ListPolls returns all polls, newest first, without options.
func (r *PollRepository) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&polls).Error; err != nil {
		return nil, err
	}
	return polls, nil
}

// FindPollWithOptions loads a poll and its options ordered by id.
// Returns domain.ErrPollNotFound when the poll does not exist or has no options.
func (r *PollRepository) FindPollWithOptions(ctx context.Context, pollID uint) (*domain.Poll, error) {
	var poll domain.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&poll, pollID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(poll.Options) == 0 {
		return nil, domain.ErrPollNotFound
	}
	return &poll, nil
}

// CountPolls returns the number of stored polls.
func (r *PollRepository) CountPolls(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Poll{}).Count(&count).Error
	return count, err
}
