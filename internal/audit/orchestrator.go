// Package audit runs a Qualiopi readiness audit: it walks the applicable
// criteria in order, asks the reasoning pipeline for a verdict on each
// criterion's indicators and streams progress until the final report.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/imadezze/Qualip/internal/catalog"
	"github.com/imadezze/Qualip/internal/domain"
	"github.com/imadezze/Qualip/internal/metrics"
	"github.com/imadezze/Qualip/internal/openai"
)

type ReasoningRequest struct {
	RunID        uuid.UUID
	CriterionID  int
	SystemPrompt string
	Prompt       string
}

// ReasoningPipeline answers one criterion prompt with the complete, non-streamed
// model output. Implementations must honour ctx cancellation.
type ReasoningPipeline interface {
	Complete(ctx context.Context, session Session, req ReasoningRequest) (string, error)
}

// Session is a chat session scoped to one audit run.
type Session interface {
	ChatSessionID() uuid.UUID
	Close() error
}

type SessionProvider interface {
	Open(ctx context.Context, chatSessionID uuid.UUID) (Session, error)
}

// ResultParser turns a raw model answer into indicator results.
type ResultParser func(raw string) ([]domain.IndicatorResult, error)

type Request struct {
	RunID         uuid.UUID
	ChatSessionID uuid.UUID
	Profile       domain.OrganizationProfile
	// Criteria restricts the run to these criterion ids. Empty means all.
	Criteria []int
}

// CriterionError reports the criterion an audit run failed on.
type CriterionError struct {
	CriterionID int
	Err         error
}

func (e *CriterionError) Error() string {
	return fmt.Sprintf("criterion %d: %v", e.CriterionID, e.Err)
}

func (e *CriterionError) Unwrap() error { return e.Err }

// FailedCriterion returns the criterion id carried by err, or 0.
func FailedCriterion(err error) int {
	var ce *CriterionError
	if errors.As(err, &ce) {
		return ce.CriterionID
	}
	return 0
}

type Orchestrator struct {
	pipeline ReasoningPipeline
	sessions SessionProvider
	parse    ResultParser
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

func New(pipeline ReasoningPipeline, sessions SessionProvider, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		pipeline: pipeline,
		sessions: sessions,
		parse:    openai.ParseIndicatorResults,
		logger:   logger,
		metrics:  m,
		tracer:   otel.Tracer("github.com/imadezze/Qualip/internal/audit"),
	}
}

// WithParser swaps the answer parser.
func (o *Orchestrator) WithParser(p ResultParser) *Orchestrator {
	o.parse = p
	return o
}

// Run executes one audit and writes its progress to events, closing the
// channel when it returns. Sends block until the consumer reads or ctx is
// done. On success the last event is audit_complete; on failure Run returns
// the error without emitting a report and the caller decides how to surface it.
func (o *Orchestrator) Run(ctx context.Context, req Request, events chan<- domain.ProgressEvent) (err error) {
	defer close(events)

	if req.RunID == uuid.Nil {
		req.RunID = uuid.New()
	}
	logger := o.logger.With("run_id", req.RunID.String())
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "audit.run", trace.WithAttributes(
		attribute.String("audit.run_id", req.RunID.String()),
		attribute.String("audit.chat_session_id", req.ChatSessionID.String()),
	))
	defer func() {
		o.finish(logger, span, start, err)
	}()

	profile, parts, filter, err := o.plan(req)
	if err != nil {
		return err
	}

	session, err := o.sessions.Open(ctx, req.ChatSessionID)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("open chat session: %w", ctx.Err())
		}
		return fmt.Errorf("%w: open chat session %s: %w", domain.ErrAuditExecution, req.ChatSessionID, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("close chat session", "chat_session_id", req.ChatSessionID.String(), "error", cerr.Error())
		}
	}()

	logger.Info("audit started",
		"chat_session_id", req.ChatSessionID.String(),
		"categories", profile.Categories,
		"criteria", req.Criteria,
	)

	accumulated := make([]domain.IndicatorResult, 0)
	for _, criterion := range catalog.Criteria() {
		if len(filter) > 0 && !filter[criterion.ID] {
			continue
		}
		indicators := parts[criterion.ID]
		if len(indicators) == 0 {
			continue
		}
		if cerr := ctx.Err(); cerr != nil {
			return &CriterionError{CriterionID: criterion.ID, Err: fmt.Errorf("audit stopped: %w", cerr)}
		}

		if err := send(ctx, events, domain.CriterionStarted(criterion.ID, criterion.Name)); err != nil {
			return err
		}

		results, err := o.runCriterion(ctx, logger, session, req.RunID, criterion, indicators, profile)
		if err != nil {
			return &CriterionError{CriterionID: criterion.ID, Err: err}
		}
		accumulated = append(accumulated, results...)

		if err := send(ctx, events, domain.CriterionCompleted(criterion.ID, criterion.Name, results)); err != nil {
			return err
		}
	}

	report := BuildReport(accumulated)
	span.SetAttributes(attribute.String("audit.verdict", string(report.Verdict)))
	o.metrics.IncrementVerdict(string(report.Verdict))
	logger.Info("audit aggregated",
		"total_indicators", report.Overview.TotalIndicators,
		"verdict", string(report.Verdict),
	)
	return send(ctx, events, domain.AuditCompleted(report))
}

// plan validates the request and resolves the applicable indicators once,
// grouped by criterion.
func (o *Orchestrator) plan(req Request) (domain.OrganizationProfile, map[int][]catalog.Indicator, map[int]bool, error) {
	if req.ChatSessionID == uuid.Nil {
		return domain.OrganizationProfile{}, nil, nil, fmt.Errorf("%w: chat session id is required", domain.ErrInvalidInput)
	}
	profile, err := domain.NewOrganizationProfile(req.Profile)
	if err != nil {
		return domain.OrganizationProfile{}, nil, nil, err
	}
	if err := domain.ValidateCriteriaFilter(req.Criteria, catalog.CriterionCount); err != nil {
		return domain.OrganizationProfile{}, nil, nil, err
	}

	filter := make(map[int]bool, len(req.Criteria))
	for _, id := range req.Criteria {
		filter[id] = true
	}
	return profile, catalog.Partition(catalog.ResolveProfile(profile)), filter, nil
}

func (o *Orchestrator) runCriterion(
	ctx context.Context,
	logger *slog.Logger,
	session Session,
	runID uuid.UUID,
	criterion catalog.Criterion,
	indicators []catalog.Indicator,
	profile domain.OrganizationProfile,
) ([]domain.IndicatorResult, error) {
	ctx, span := o.tracer.Start(ctx, "audit.criterion", trace.WithAttributes(
		attribute.Int("audit.criterion_id", criterion.ID),
		attribute.IntSlice("audit.indicator_ids", catalog.IDs(indicators)),
	))
	defer span.End()

	start := time.Now()
	logger = logger.With("criterion_id", criterion.ID)

	prompt, err := openai.ComposeCriterionPrompt(criterion, indicators, profile)
	if err != nil {
		return nil, o.criterionFailed(logger, span, fmt.Errorf("%w: compose prompt: %v", domain.ErrAuditExecution, err))
	}

	raw, err := o.pipeline.Complete(ctx, session, ReasoningRequest{
		RunID:        runID,
		CriterionID:  criterion.ID,
		SystemPrompt: openai.AUDIT_SYSTEM,
		Prompt:       prompt,
	})
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("reasoning interrupted: %w", cerr)
		}
		return nil, o.criterionFailed(logger, span, fmt.Errorf("%w: reasoning call: %w", domain.ErrAuditExecution, err))
	}

	results, err := o.parse(raw)
	if err != nil {
		return nil, o.criterionFailed(logger, span, fmt.Errorf("%w: parse answer: %w", domain.ErrAuditExecution, err))
	}

	elapsed := time.Since(start)
	o.metrics.ObserveCriterionLatency(strconv.Itoa(criterion.ID), elapsed)
	logger.Info("criterion audited",
		"indicators_processed", len(results),
		"duration_ms", elapsed.Milliseconds(),
	)
	return results, nil
}

func (o *Orchestrator) criterionFailed(logger *slog.Logger, span trace.Span, err error) error {
	code := domain.ErrorCode(err)
	o.metrics.IncrementReasoningFailure(code)
	span.RecordError(err)
	span.SetStatus(codes.Error, code)
	logger.Error("criterion failed", "code", code, "error", err.Error())
	return err
}

func (o *Orchestrator) finish(logger *slog.Logger, span trace.Span, start time.Time, err error) {
	defer span.End()
	elapsed := time.Since(start).Milliseconds()

	switch {
	case err == nil:
		o.metrics.IncrementRunOutcome("completed")
		logger.Info("audit completed", "duration_ms", elapsed)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		o.metrics.IncrementRunOutcome("cancelled")
		span.SetStatus(codes.Error, "cancelled")
		logger.Info("audit cancelled", "duration_ms", elapsed, "error", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		o.metrics.IncrementRunOutcome("rejected")
		span.SetStatus(codes.Error, domain.CodeInvalidInput)
		logger.Warn("audit rejected", "error", err.Error())
	default:
		o.metrics.IncrementRunOutcome("failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.ErrorCode(err))
		logger.Error("audit failed", "duration_ms", elapsed, "error", err.Error())
	}
}

func send(ctx context.Context, events chan<- domain.ProgressEvent, ev domain.ProgressEvent) error {
	select {
	case events <- ev:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("deliver %s event: %w", ev.EventType, ctx.Err())
	}
}
