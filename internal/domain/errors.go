package domain

import (
	"fmt"
	"net/http"
)

// Error codes surfaced to callers.
const (
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeSTTUnclear       = "STT_UNCLEAR"
	CodeSTTFailed        = "STT_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeChampionNotFound = "CHAMPION_NOT_FOUND"
	CodeItemNotFound     = "ITEM_NOT_FOUND"
	CodeBadRequest       = "BAD_REQUEST"
)

// CoachError is a caller-visible fault with a localized user message.
type CoachError struct {
	Code        string
	UserMessage string
	Status      int
}

func (e *CoachError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.UserMessage)
}

// NewCoachError builds a CoachError with an explicit HTTP status.
func NewCoachError(code, userMessage string, status int) *CoachError {
	return &CoachError{Code: code, UserMessage: userMessage, Status: status}
}

// ErrSessionNotFound builds the standard unknown-session error.
func ErrSessionNotFound(userMessage string) *CoachError {
	return NewCoachError(CodeSessionNotFound, userMessage, http.StatusNotFound)
}

// ErrUnclearInput builds the empty/inaudible-utterance error.
func ErrUnclearInput(userMessage string) *CoachError {
	return NewCoachError(CodeSTTUnclear, userMessage, http.StatusBadRequest)
}

// ErrTranscriptionFailed builds the upstream speech-provider error.
func ErrTranscriptionFailed(userMessage string) *CoachError {
	return NewCoachError(CodeSTTFailed, userMessage, http.StatusInternalServerError)
}
