package domain

import (
	"errors"
	"net/http"
)

// ErrorCode classifies a DomainError for clients and the HTTP layer.
type ErrorCode struct {
	Name   string
	Status int
}

var (
	ErrorCodeParameterInvalid     = ErrorCode{Name: "PARAMETER_INVALID", Status: http.StatusBadRequest}
	ErrorCodeResourceNotFound     = ErrorCode{Name: "RESOURCE_NOT_FOUND", Status: http.StatusNotFound}
	ErrorCodeAuthNotAuthenticated = ErrorCode{Name: "AUTH_NOT_AUTHENTICATED", Status: http.StatusUnauthorized}
	ErrorCodeAlreadyVoted         = ErrorCode{Name: "ALREADY_VOTED", Status: http.StatusConflict}
	ErrorCodeCaptchaInvalid       = ErrorCode{Name: "CAPTCHA_INVALID", Status: http.StatusBadRequest}
	ErrorCodeInternalProcess      = ErrorCode{Name: "INTERNAL_PROCESS", Status: http.StatusInternalServerError}
)

// Sentinel errors shared by services and repositories.
var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrInvalidOption  = errors.New("option does not belong to poll")
	ErrAlreadyVoted   = errors.New("actor already voted on this poll")
	ErrInvalidCaptcha = errors.New("captcha token is missing, invalid or expired")
	ErrTokenNotFound  = errors.New("captcha token not found")
)

// DomainError is the error type rendered by the HTTP layer.
// The zero value renders as a generic internal error.
type DomainError struct {
	code      ErrorCode
	err       error
	clientMsg string
	detail    map[string]interface{}
}

type ErrorOption func(*DomainError)

// WithMsg sets the message shown to the client.
func WithMsg(msg string) ErrorOption {
	return func(e *DomainError) {
		e.clientMsg = msg
	}
}

// WithDetail attaches a key/value pair to the error body.
func WithDetail(key string, value interface{}) ErrorOption {
	return func(e *DomainError) {
		if e.detail == nil {
			e.detail = map[string]interface{}{}
		}
		e.detail[key] = value
	}
}

func NewError(code ErrorCode, err error, opts ...ErrorOption) error {
	e := DomainError{code: code, err: err}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e DomainError) Error() string {
	if e.err == nil {
		return e.Name()
	}
	return e.err.Error()
}

func (e DomainError) Unwrap() error {
	return e.err
}

func (e DomainError) Name() string {
	if e.code.Name == "" {
		return ErrorCodeInternalProcess.Name
	}
	return e.code.Name
}

func (e DomainError) HTTPStatus() int {
	if e.code.Status == 0 {
		return ErrorCodeInternalProcess.Status
	}
	return e.code.Status
}

func (e DomainError) ClientMsg() string {
	return e.clientMsg
}

func (e DomainError) Detail() map[string]interface{} {
	return e.detail
}
