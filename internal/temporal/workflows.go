package temporal

import (
	"go.temporal.io/sdk/workflow"
)

const CriterionReasoningWorkflowName = "CriterionReasoningWorkflow"

type ReasoningWorkflowInput struct {
	ChatSessionID string
	RunID         string
	CriterionID   int
	SystemPrompt  string
	Prompt        string
}

type ReasoningWorkflowResult struct {
	Answer string
}

// CriterionReasoningWorkflow asks the model about one criterion, then records
// the exchange in the chat transcript. The answer is returned raw; parsing
// belongs to the audit run that started the workflow.
func CriterionReasoningWorkflow(ctx workflow.Context, input ReasoningWorkflowInput) (ReasoningWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)

	var completed CompleteCriterionOutput
	if err := workflow.ExecuteActivity(
		mustActivityContext(ctx, ActivityPolicyCompleteCriterion),
		(*Activities).CompleteCriterionActivity,
		CompleteCriterionInput{
			RunID:        input.RunID,
			CriterionID:  input.CriterionID,
			SystemPrompt: input.SystemPrompt,
			Prompt:       input.Prompt,
		},
	).Get(ctx, &completed); err != nil {
		return ReasoningWorkflowResult{}, err
	}

	if err := workflow.ExecuteActivity(
		mustActivityContext(ctx, ActivityPolicyRecordExchange),
		(*Activities).RecordExchangeActivity,
		RecordExchangeInput{
			ChatSessionID: input.ChatSessionID,
			RunID:         input.RunID,
			CriterionID:   input.CriterionID,
			SystemPrompt:  input.SystemPrompt,
			Prompt:        input.Prompt,
			Answer:        completed.Answer,
		},
	).Get(ctx, nil); err != nil {
		return ReasoningWorkflowResult{}, err
	}

	logger.Info("criterion reasoning finished", "RunID", input.RunID, "CriterionID", input.CriterionID)
	return ReasoningWorkflowResult{Answer: completed.Answer}, nil
}
