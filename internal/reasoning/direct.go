package reasoning

import (
	"context"

	"github.com/imadezze/Qualip/internal/audit"
)

// DirectPipeline calls the model in-process, inside the request that streams
// the audit.
type DirectPipeline struct {
	Service *Service
}

func NewDirectPipeline(s *Service) *DirectPipeline {
	return &DirectPipeline{Service: s}
}

func (p *DirectPipeline) Complete(ctx context.Context, session audit.Session, req audit.ReasoningRequest) (string, error) {
	ex := Exchange{
		ChatSessionID: session.ChatSessionID(),
		RunID:         req.RunID,
		CriterionID:   req.CriterionID,
		SystemPrompt:  req.SystemPrompt,
		Prompt:        req.Prompt,
	}
	answer, err := p.Service.Reason(ctx, ex)
	if err != nil {
		return "", err
	}
	ex.Answer = answer
	if err := p.Service.Record(ctx, ex); err != nil {
		return "", err
	}
	return answer, nil
}
