package repository

import (
	"context"
	"errors"
	"time"

	"github.com/quickpoll/backend/src/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository is the vote ledger. It owns the option counters as well so
// that counter and ledger are always written together.
type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// actorVotes scopes a query to the records that identify actor on pollID:
// same IP, same fingerprint, or a fingerprint previously seen from the same IP.
func actorVotes(db *gorm.DB, pollID uint, actor domain.ActorIdentity) *gorm.DB {
	linked := db.Session(&gorm.Session{NewDB: true}).
		Model(&domain.VoteRecord{}).
		Select("fingerprint").
		Where("poll_id = ? AND ip_address = ? AND fingerprint IS NOT NULL", pollID, actor.IP)

	cond := db.Session(&gorm.Session{NewDB: true}).
		Where("ip_address = ?", actor.IP).
		Or("fingerprint IN (?)", linked)
	if actor.HasFingerprint() {
		cond = cond.Or("fingerprint = ?", actor.Fingerprint)
	}

	return db.Model(&domain.VoteRecord{}).Where("poll_id = ?", pollID).Where(cond)
}

// LastVote returns the most recent vote by actor on pollID, or nil if the
// actor has not voted.
func (r *VoteRepository) LastVote(ctx context.Context, pollID uint, actor domain.ActorIdentity) (*domain.VoteRecord, error) {
	return lastVote(r.db.WithContext(ctx), pollID, actor)
}

func lastVote(db *gorm.DB, pollID uint, actor domain.ActorIdentity) (*domain.VoteRecord, error) {
	var records []domain.VoteRecord
	if err := actorVotes(db, pollID, actor).Order("voted_at DESC").Limit(1).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// LastVotes returns the most recent vote by actor on every poll the actor has
// voted on, keyed by poll ID. It applies the same identity rules as LastVote
// in a single query.
func (r *VoteRepository) LastVotes(ctx context.Context, actor domain.ActorIdentity) (map[uint]*domain.VoteRecord, error) {
	db := r.db.WithContext(ctx)

	cond := db.Session(&gorm.Session{NewDB: true}).
		Where("v.ip_address = ?", actor.IP).
		Or("v.fingerprint IN (SELECT l.fingerprint FROM vote_records AS l WHERE l.poll_id = v.poll_id AND l.ip_address = ? AND l.fingerprint IS NOT NULL)", actor.IP)
	if actor.HasFingerprint() {
		cond = cond.Or("v.fingerprint = ?", actor.Fingerprint)
	}

	var records []domain.VoteRecord
	err := db.Table("vote_records AS v").
		Select("v.*").
		Where(cond).
		Order("v.voted_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	last := make(map[uint]*domain.VoteRecord, len(records))
	for i := range records {
		if _, ok := last[records[i].PollID]; !ok {
			last[records[i].PollID] = &records[i]
		}
	}
	return last, nil
}

// CastVote increments the option counter and appends the ledger entry in one
// transaction. Eligibility is checked again inside the transaction; under
// Postgres the poll row is locked so concurrent votes on a poll serialize.
func (r *VoteRepository) CastVote(ctx context.Context, pollID, optionID uint, actor domain.ActorIdentity, votedAt time.Time) (*domain.VoteRecord, error) {
	record := &domain.VoteRecord{
		PollID:    pollID,
		OptionID:  optionID,
		IPAddress: actor.IP,
		VotedAt:   votedAt.UTC(),
	}
	if actor.HasFingerprint() {
		fp := actor.Fingerprint
		record.Fingerprint = &fp
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock := tx
		if tx.Dialector.Name() == "postgres" {
			lock = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var poll domain.Poll
		if err := lock.Select("id").First(&poll, pollID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPollNotFound
			}
			return err
		}

		existing, err := lastVote(tx, pollID, actor)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyVoted
		}

		res := tx.Model(&domain.Option{}).
			Where("id = ? AND poll_id = ?", optionID, pollID).
			UpdateColumn("votes", gorm.Expr("votes + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return domain.ErrInvalidOption
		}

		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyVoted
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CountVotes returns the number of ledger entries for pollID.
func (r *VoteRepository) CountVotes(ctx context.Context, pollID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.VoteRecord{}).Where("poll_id = ?", pollID).Count(&count).Error
	return count, err
}
