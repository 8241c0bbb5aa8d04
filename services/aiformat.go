package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	configpkg "github.com/startsnapfun/startsnap-backend/config"
	"github.com/startsnapfun/startsnap-backend/errs"
	"github.com/startsnapfun/startsnap-backend/registry"
)

// Formatter rewrites raw vibe-log text into tidy markdown through an LLM.
// The caller treats it as an opaque text transform; the original text is
// always a safe fallback on the client side.
type Formatter struct {
	llm    llms.Model
	logger zerolog.Logger
}

// NewFormatter builds the formatter. The openai client reads OPENAI_API_KEY
// from the environment; AIFORMAT_MODEL overrides the model.
func NewFormatter(c map[string]string) (*Formatter, error) {
	model := configpkg.GetString(c, "AIFORMAT_MODEL", "gpt-4o-mini")
	llm, err := openai.New(openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}
	return &Formatter{
		llm:    llm,
		logger: log.With().Str("serviceName", "formatter").Logger(),
	}, nil
}

// Format rewrites raw text as markdown suited to the given vibe-log type.
func (f *Formatter) Format(ctx context.Context, logType, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errs.NewValidationError("content", "nothing to format")
	}

	label := registry.VibeLogType(logType).Label
	prompt := fmt.Sprintf(
		"Rewrite the following project update as clean, well-structured markdown. "+
			"It is a %q entry on a builder's public project page. Keep the author's "+
			"voice and facts, fix grammar, add headings or lists only where they help. "+
			"Return only the markdown.\n\n%s", label, raw)

	out, err := llms.GenerateFromSinglePrompt(ctx, f.llm, prompt, llms.WithTemperature(0.3))
	if err != nil {
		f.logger.Error().Err(err).Str("logType", logType).Msg("LLM call failed")
		return "", errs.NewFormatterUnavailableError(err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", errs.NewFormatterUnavailableError(errs.ErrFormatterEmpty)
	}
	return out, nil
}
