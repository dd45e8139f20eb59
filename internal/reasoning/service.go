// Package reasoning executes criterion prompts against the language model and
// records each round trip in the chat session transcript.
package reasoning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/imadezze/Qualip/internal/openai"
	"github.com/imadezze/Qualip/internal/storage"
)

type ChatLog interface {
	AppendExchange(ctx context.Context, ex storage.ChatExchange) error
}

type Archive interface {
	PutTranscript(ctx context.Context, t storage.Transcript) (string, error)
}

// Exchange identifies one criterion round trip.
type Exchange struct {
	ChatSessionID uuid.UUID
	RunID         uuid.UUID
	CriterionID   int
	SystemPrompt  string
	Prompt        string
	Answer        string
}

type Service struct {
	LLM            openai.Client
	ChatLog        ChatLog
	Archive        Archive // optional
	OpenAIModel    string
	OpenAITimeout  time.Duration
	OpenAIMaxRetry int
	Logger         *slog.Logger
}

// Reason returns the model's final answer for ex.Prompt.
func (s *Service) Reason(ctx context.Context, ex Exchange) (string, error) {
	start := time.Now()
	out, err := s.callOpenAIWithRetry(ctx, ex.SystemPrompt, ex.Prompt)
	if err != nil {
		return "", err
	}
	s.logger().Debug("reasoning answered",
		"run_id", ex.RunID.String(),
		"criterion_id", ex.CriterionID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Record appends the exchange to the chat transcript and, when an archive is
// configured, stores a copy of it. Archive failures are logged only.
func (s *Service) Record(ctx context.Context, ex Exchange) error {
	if s.ChatLog != nil {
		if err := s.ChatLog.AppendExchange(ctx, storage.ChatExchange{
			ChatSessionID: ex.ChatSessionID,
			RunID:         ex.RunID,
			CriterionID:   ex.CriterionID,
			Roles:         []string{storage.RoleUser, storage.RoleAssistant},
			Contents:      []string{ex.Prompt, ex.Answer},
		}); err != nil {
			return fmt.Errorf("append chat exchange: %w", err)
		}
	}

	if s.Archive != nil {
		key, err := s.Archive.PutTranscript(ctx, storage.Transcript{
			ChatSessionID: ex.ChatSessionID,
			RunID:         ex.RunID,
			CriterionID:   ex.CriterionID,
			SystemPrompt:  ex.SystemPrompt,
			Prompt:        ex.Prompt,
			Answer:        ex.Answer,
			RecordedAt:    time.Now().UTC(),
		})
		if err != nil {
			s.logger().Warn("archive transcript",
				"run_id", ex.RunID.String(),
				"criterion_id", ex.CriterionID,
				"error", err.Error(),
			)
			return nil
		}
		s.logger().Debug("transcript archived", "object_key", key)
	}
	return nil
}

func (s *Service) callOpenAIWithRetry(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	maxRetry := s.OpenAIMaxRetry
	if maxRetry <= 0 {
		maxRetry = 3
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		out, err := s.LLM.Complete(ctx, openai.CompletionRequest{
			Model:        s.OpenAIModel,
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			Timeout:      s.OpenAITimeout,
		})
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !openai.IsRetryable(err) {
			return "", fmt.Errorf("openai request rejected: %w", err)
		}
		if attempt == maxRetry {
			break
		}
		delay := time.Duration(200*(1<<(attempt-1))) * time.Millisecond
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", fmt.Errorf("openai retry exhausted: %w", lastErr)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
