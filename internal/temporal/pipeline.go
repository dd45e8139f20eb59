package temporal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/imadezze/Qualip/internal/audit"
)

// Pipeline runs each criterion's reasoning as a CriterionReasoningWorkflow on
// the worker task queue and waits for its answer.
type Pipeline struct {
	Client           client.Client
	TaskQueue        string
	WorkflowIDPrefix string
	Logger           *slog.Logger
}

func (p *Pipeline) WorkflowID(runID uuid.UUID, criterionID int) string {
	return fmt.Sprintf("%s-%s-c%d", p.WorkflowIDPrefix, runID, criterionID)
}

func (p *Pipeline) Complete(ctx context.Context, session audit.Session, req audit.ReasoningRequest) (string, error) {
	workflowID := p.WorkflowID(req.RunID, req.CriterionID)

	run, err := p.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                p.TaskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, CriterionReasoningWorkflowName, ReasoningWorkflowInput{
		ChatSessionID: session.ChatSessionID().String(),
		RunID:         req.RunID.String(),
		CriterionID:   req.CriterionID,
		SystemPrompt:  req.SystemPrompt,
		Prompt:        req.Prompt,
	})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return "", fmt.Errorf("start workflow %s: %w", workflowID, err)
		}
		p.logger().Info("attaching to running reasoning workflow", "workflow_id", workflowID)
		run = p.Client.GetWorkflow(ctx, workflowID, "")
	}

	var result ReasoningWorkflowResult
	if err := run.Get(ctx, &result); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			p.cancel(workflowID, run.GetRunID())
			return "", cerr
		}
		return "", fmt.Errorf("workflow %s: %w", workflowID, err)
	}
	return result.Answer, nil
}

// cancel stops a workflow whose audit run went away. The run context is done
// by then, so a short detached context is used.
func (p *Pipeline) cancel(workflowID, runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Client.CancelWorkflow(ctx, workflowID, runID); err != nil {
		p.logger().Warn("cancel reasoning workflow", "workflow_id", workflowID, "error", err.Error())
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
