package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	err := NewError(ErrorCodeAlreadyVoted, ErrAlreadyVoted,
		WithMsg("You have already voted on this poll"),
		WithDetail("results_url", "/results/1"))

	var domainErr DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.True(t, errors.Is(err, ErrAlreadyVoted))
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus())
	assert.Equal(t, "ALREADY_VOTED", domainErr.Name())
	assert.Equal(t, "You have already voted on this poll", domainErr.ClientMsg())
	assert.Equal(t, "/results/1", domainErr.Detail()["results_url"])
	assert.Equal(t, ErrAlreadyVoted.Error(), err.Error())

	// wrapping keeps the classification
	wrapped := fmt.Errorf("cast vote: %w", err)
	assert.True(t, errors.As(wrapped, &domainErr))
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus())
}

func TestDomainError_ZeroValue(t *testing.T) {
	var zero DomainError
	assert.Equal(t, http.StatusInternalServerError, zero.HTTPStatus())
	assert.Equal(t, ErrorCodeInternalProcess.Name, zero.Name())
	assert.Equal(t, ErrorCodeInternalProcess.Name, zero.Error())
	assert.Nil(t, zero.Detail())
}

func TestCaptchaChallenge_Expired(t *testing.T) {
	expiresAt := time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC)
	challenge := &CaptchaChallenge{ExpiresAt: expiresAt}

	assert.False(t, challenge.Expired(expiresAt.Add(-time.Second)))
	assert.True(t, challenge.Expired(expiresAt))
	assert.True(t, challenge.Expired(expiresAt.Add(time.Second)))
}

func TestCaptchaKind_IsChallenge(t *testing.T) {
	assert.True(t, CaptchaKindText.IsChallenge())
	assert.True(t, CaptchaKindPosition.IsChallenge())
	assert.False(t, CaptchaKindVerified.IsChallenge())
	assert.False(t, CaptchaKind("puzzle").IsChallenge())
}

func TestPoll_Totals(t *testing.T) {
	poll := &Poll{Options: []Option{{ID: 1, Votes: 3}, {ID: 2, Votes: 4}}}

	assert.Equal(t, int64(7), poll.TotalVotes())
	assert.True(t, poll.HasOption(2))
	assert.False(t, poll.HasOption(3))
	assert.Zero(t, (&Poll{}).TotalVotes())
}

func TestActorIdentity_HasFingerprint(t *testing.T) {
	assert.False(t, ActorIdentity{IP: "1.2.3.4"}.HasFingerprint())
	assert.True(t, ActorIdentity{IP: "1.2.3.4", Fingerprint: "abc"}.HasFingerprint())
}
