package temporal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	"github.com/imadezze/Qualip/internal/openai"
	"github.com/imadezze/Qualip/internal/reasoning"
)

const errTypeModelRejected = "ModelRejected"

type Activities struct {
	Reasoner *reasoning.Service
}

type CompleteCriterionInput struct {
	RunID        string
	CriterionID  int
	SystemPrompt string
	Prompt       string
}

type CompleteCriterionOutput struct {
	Answer string
}

type RecordExchangeInput struct {
	ChatSessionID string
	RunID         string
	CriterionID   int
	SystemPrompt  string
	Prompt        string
	Answer        string
}

func (a *Activities) CompleteCriterionActivity(ctx context.Context, input CompleteCriterionInput) (CompleteCriterionOutput, error) {
	runID, err := uuid.Parse(input.RunID)
	if err != nil {
		return CompleteCriterionOutput{}, fmt.Errorf("parse run id: %w", err)
	}
	answer, err := a.Reasoner.Reason(ctx, reasoning.Exchange{
		RunID:        runID,
		CriterionID:  input.CriterionID,
		SystemPrompt: input.SystemPrompt,
		Prompt:       input.Prompt,
	})
	if err != nil {
		if !openai.IsRetryable(err) {
			return CompleteCriterionOutput{}, temporal.NewNonRetryableApplicationError(err.Error(), errTypeModelRejected, err)
		}
		return CompleteCriterionOutput{}, err
	}
	return CompleteCriterionOutput{Answer: answer}, nil
}

func (a *Activities) RecordExchangeActivity(ctx context.Context, input RecordExchangeInput) error {
	chatSessionID, err := uuid.Parse(input.ChatSessionID)
	if err != nil {
		return fmt.Errorf("parse chat session id: %w", err)
	}
	runID, err := uuid.Parse(input.RunID)
	if err != nil {
		return fmt.Errorf("parse run id: %w", err)
	}
	return a.Reasoner.Record(ctx, reasoning.Exchange{
		ChatSessionID: chatSessionID,
		RunID:         runID,
		CriterionID:   input.CriterionID,
		SystemPrompt:  input.SystemPrompt,
		Prompt:        input.Prompt,
		Answer:        input.Answer,
	})
}
