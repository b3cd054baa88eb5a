package domain

import (
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Quiz generation specific errors
	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
	CodeFetchBlocked ErrorCode = "FETCH_BLOCKED"
	CodeFetchFailed  ErrorCode = "FETCH_FAILED"
	CodeFetchEmpty   ErrorCode = "FETCH_EMPTY"
	CodeScrapeFailed ErrorCode = "SCRAPE_FAILED"
	CodeStorage      ErrorCode = "STORAGE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewQuizNotFoundError(id int64) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %d", id), nil)
}

// NewFetchBlockedError signals a 403 from the article host.
func NewFetchBlockedError(url string) *DomainError {
	return NewError(CodeFetchBlocked, fmt.Sprintf("Wikipedia blocked the request for %s", url), nil)
}

func NewFetchFailedError(url string, status int) *DomainError {
	return NewError(CodeFetchFailed, fmt.Sprintf("failed to fetch %s: status %d", url, status), nil)
}

// NewFetchEmptyError signals an implausibly short response body, which is
// treated as a failed scrape rather than a real empty article.
func NewFetchEmptyError(url string) *DomainError {
	return NewError(CodeFetchEmpty, fmt.Sprintf("too short content returned for %s", url), nil)
}

func NewScrapeFailedError(err error) *DomainError {
	return NewError(CodeScrapeFailed, "Failed to scrape Wikipedia article", err)
}

func NewStorageError(message string, err error) *DomainError {
	return NewError(CodeStorage, message, err)
}
