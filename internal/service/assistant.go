package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/ekaksh/internal/domain"
	"github.com/msomdec/ekaksh/internal/metrics"
)

var codeKeywords = []string{"code", "function", "script"}

// Classify routes a query to code generation when it mentions any code
// keyword, case-insensitively, and to math otherwise.
func Classify(query string) domain.QueryKind {
	lower := strings.ToLower(query)
	for _, kw := range codeKeywords {
		if strings.Contains(lower, kw) {
			return domain.QueryKindCode
		}
	}
	return domain.QueryKindMath
}

// Prompt builds the instruction sent to the assistant for a query.
func Prompt(kind domain.QueryKind, query string) string {
	if kind == domain.QueryKindCode {
		return "Generate code for the following task: " + query
	}
	return "Solve this math problem: " + query
}

// AssistantRouter classifies queries and forwards them to the assistant.
type AssistantRouter struct {
	assistant domain.Assistant
	timeout   time.Duration
	metrics   *metrics.Metrics
}

// NewAssistantRouter creates a new AssistantRouter. A zero timeout leaves
// the caller's context untouched. m may be nil.
func NewAssistantRouter(assistant domain.Assistant, timeout time.Duration, m *metrics.Metrics) *AssistantRouter {
	return &AssistantRouter{
		assistant: assistant,
		timeout:   timeout,
		metrics:   m,
	}
}

// Route answers a query with a single assistant call. Blank queries fail
// with ErrEmptyQuery without contacting the assistant; any assistant
// failure wraps ErrAssistantUnavailable.
func (r *AssistantRouter) Route(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", domain.ErrEmptyQuery
	}

	kind := Classify(query)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	answer, err := r.assistant.Answer(ctx, Prompt(kind, query))
	elapsed := time.Since(start)
	if err != nil {
		r.metrics.AssistantQuery(string(kind), "error", elapsed)
		slog.Error("assistant request failed", "kind", kind, "duration", elapsed, "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrAssistantUnavailable, err)
	}

	r.metrics.AssistantQuery(string(kind), "success", elapsed)
	slog.Debug("assistant request completed", "kind", kind, "duration", elapsed)
	return answer, nil
}
