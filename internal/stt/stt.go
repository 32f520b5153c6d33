// Package stt transcribes uploaded voice clips into text for the turn
// pipeline.
package stt

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexuscoach/nexuscoach/internal/domain"
	"github.com/nexuscoach/nexuscoach/internal/i18n"
)

// Transcriber converts an audio clip into utterance text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, locale string) (string, error)
	Name() string
}

// Disabled rejects every transcription request.
type Disabled struct{}

func (Disabled) Name() string { return "disabled" }

func (Disabled) Transcribe(_ context.Context, _ []byte, locale string) (string, error) {
	return "", errTranscriptionFailed(locale)
}

func errTranscriptionFailed(locale string) *domain.CoachError {
	return domain.ErrTranscriptionFailed(i18n.Message(locale, "stt_failed", nil))
}

func errUnclearInput(locale string) *domain.CoachError {
	return domain.ErrUnclearInput(i18n.Message(locale, "stt_unclear", nil))
}

// Config selects and configures a transcription provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// New builds a Transcriber from config.
func New(cfg Config) (Transcriber, error) {
	switch cfg.Provider {
	case "", "disabled":
		return Disabled{}, nil
	case "openai":
		if cfg.APIKey == "" {
			return Disabled{}, nil
		}
		return NewOpenAI(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown STT provider: %q", cfg.Provider)
	}
}

// localeToLanguage maps a BCP-47 locale to a Whisper language hint.
// Only Portuguese is pinned; anything else lets the model auto-detect.
func localeToLanguage(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "pt") {
		return "pt"
	}
	return ""
}
