// Package assistant builds the configured LLM provider.
package assistant

import (
	"context"
	"fmt"

	"github.com/msomdec/ekaksh/internal/assistant/gemini"
	"github.com/msomdec/ekaksh/internal/assistant/groq"
	"github.com/msomdec/ekaksh/internal/config"
	"github.com/msomdec/ekaksh/internal/domain"
)

// SystemInstruction frames every request: the assistant writes code for
// code tasks and reasons step by step for math questions.
const SystemInstruction = `You are a math and code assistant.

When asked to generate code, act as an expert code generator: produce optimized and efficient code with clear comments for the given task.

When asked to solve a math problem, logically arrive at the solution and provide a detailed, point-wise explanation of each step before stating the answer.`

const temperature = 0.5

// New returns the assistant for cfg.Provider. The returned close function
// releases provider resources.
func New(ctx context.Context, cfg config.AssistantConfig) (domain.Assistant, func() error, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		c, err := groq.NewClient(groq.Config{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			SystemInstruction: SystemInstruction,
			Temperature:       temperature,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, func() error { return nil }, nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			SystemInstruction: SystemInstruction,
			Temperature:       temperature,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
}
