// Package llm generates coach replies through a pluggable model
// provider. When no provider is configured the generator degrades to a
// no-op and the reply cascade falls through to templates.
package llm

import (
	"context"
	"fmt"

	"github.com/nexuscoach/nexuscoach/internal/domain"
)

// PromptContext carries everything a provider needs to draft one reply.
type PromptContext struct {
	State       domain.GameState
	Intent      string
	History     []domain.TurnRecord
	Advice      []string
	Corrections []domain.Correction
	Locale      string
	UserText    string
}

// Generator drafts a coach reply. An empty string with a nil error
// means the provider declined and the caller should fall through.
type Generator interface {
	Generate(ctx context.Context, prompt PromptContext) (string, error)
	Name() string
}

// Disabled is the no-provider generator.
type Disabled struct{}

func (Disabled) Generate(context.Context, PromptContext) (string, error) { return "", nil }
func (Disabled) Name() string                                           { return "disabled" }

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// New builds a Generator from config. Unknown providers are an error;
// a configured provider with no API key quietly degrades to disabled.
func New(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case "", "disabled":
		return Disabled{}, nil
	case "gemini":
		if cfg.APIKey == "" {
			return Disabled{}, nil
		}
		return NewGemini(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
