package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/imadezze/Qualip/internal/audit"
	"github.com/imadezze/Qualip/internal/catalog"
	"github.com/imadezze/Qualip/internal/config"
	"github.com/imadezze/Qualip/internal/domain"
	"github.com/imadezze/Qualip/internal/storage"
)

const (
	HeaderRunID         = "X-Audit-Run-ID"
	HeaderChatSessionID = "X-Chat-Session-ID"
)

// Auditor runs one audit, writing progress to events and closing it on return.
type Auditor interface {
	Run(ctx context.Context, req audit.Request, events chan<- domain.ProgressEvent) error
}

type ChatHistory interface {
	ListChatMessages(ctx context.Context, chatSessionID uuid.UUID) ([]storage.ChatMessage, error)
}

// Pinger is a readiness dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	cfg     config.Config
	auditor Auditor
	history ChatHistory
	checks  map[string]Pinger
	logger  *slog.Logger
}

type startAuditRequest struct {
	ChatSessionID *uuid.UUID                 `json:"chat_session_id,omitempty"`
	Profile       domain.OrganizationProfile `json:"profile"`
	Criteria      []int                      `json:"criteria,omitempty"`
}

type applicabilityRequest struct {
	Profile domain.OrganizationProfile `json:"profile"`
}

type indicatorView struct {
	ID                 int               `json:"id"`
	Name               string            `json:"name"`
	ApplicableTo       []domain.Category `json:"applicable_to"`
	CertificationsOnly bool              `json:"certifications_only"`
	RestrictedTo       domain.Category   `json:"restricted_to,omitempty"`
	NewEntrantAdapted  bool              `json:"new_entrant_adapted"`
}

type criterionView struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Indicators []indicatorView `json:"indicators"`
}

type applicableCriterion struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	IndicatorIDs []int  `json:"indicator_ids"`
}

type applicabilityResponse struct {
	TotalIndicators      int                   `json:"total_indicators"`
	IndicatorIDs         []int                 `json:"indicator_ids"`
	NewEntrantAdaptedIDs []int                 `json:"new_entrant_adapted_ids"`
	Criteria             []applicableCriterion `json:"criteria"`
}

func NewHandler(cfg config.Config, auditor Auditor, history ChatHistory, checks map[string]Pinger, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{cfg: cfg, auditor: auditor, history: history, checks: checks, logger: logger}
}

// StartAudit validates the request, then streams the audit as Server-Sent
// Events. Once the stream has started, a failure is reported as a final
// audit_error event; a client that went away gets nothing more.
func (h *Handler) StartAudit(w http.ResponseWriter, r *http.Request) {
	var body startAuditRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBytes, &body); err != nil {
		writeError(w, err)
		return
	}

	profile, err := domain.NewOrganizationProfile(body.Profile)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := domain.ValidateCriteriaFilter(body.Criteria, catalog.CriterionCount); err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errors.New("streaming unsupported by response writer"))
		return
	}

	req := audit.Request{
		RunID:         uuid.New(),
		ChatSessionID: uuid.New(),
		Profile:       profile,
		Criteria:      body.Criteria,
	}
	if body.ChatSessionID != nil && *body.ChatSessionID != uuid.Nil {
		req.ChatSessionID = *body.ChatSessionID
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set(HeaderRunID, req.RunID.String())
	w.Header().Set(HeaderChatSessionID, req.ChatSessionID.String())
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan domain.ProgressEvent)
	g, gctx := errgroup.WithContext(r.Context())

	var runErr, writeErr error
	g.Go(func() error {
		runErr = h.auditor.Run(gctx, req, events)
		return runErr
	})
	g.Go(func() error {
		for ev := range events {
			if err := writeEvent(w, flusher, ev); err != nil {
				writeErr = err
				return err
			}
		}
		return nil
	})
	_ = g.Wait()

	switch {
	case runErr == nil:
		return
	case writeErr != nil || r.Context().Err() != nil:
		h.logger.Info("audit stream closed by client", "run_id", req.RunID.String())
		return
	}

	ev := domain.AuditFailed(audit.FailedCriterion(runErr), domain.ErrorCode(runErr), runErr.Error())
	if err := writeEvent(w, flusher, ev); err != nil {
		h.logger.Warn("write audit_error event", "run_id", req.RunID.String(), "error", err.Error())
	}
}

func (h *Handler) ListCriteria(w http.ResponseWriter, r *http.Request) {
	criteria := catalog.Criteria()
	out := make([]criterionView, 0, len(criteria))
	for _, c := range criteria {
		view := criterionView{ID: c.ID, Name: c.Name, Indicators: make([]indicatorView, 0, len(c.IndicatorIDs))}
		for _, id := range c.IndicatorIDs {
			ind, ok := catalog.IndicatorByID(id)
			if !ok {
				continue
			}
			view.Indicators = append(view.Indicators, indicatorView{
				ID:                 ind.ID,
				Name:               ind.Name,
				ApplicableTo:       ind.ApplicableTo.Sorted(),
				CertificationsOnly: ind.CertificationsOnly,
				RestrictedTo:       ind.RestrictedTo,
				NewEntrantAdapted:  ind.NewEntrantAdapted,
			})
		}
		out = append(out, view)
	}
	writeJSON(w, http.StatusOK, map[string]any{"criteria": out})
}

// PreviewApplicability resolves the indicators a profile would be audited on
// without running the audit.
func (h *Handler) PreviewApplicability(w http.ResponseWriter, r *http.Request) {
	var body applicabilityRequest
	if err := decodeJSON(w, r, h.cfg.MaxRequestBytes, &body); err != nil {
		writeError(w, err)
		return
	}
	profile, err := domain.NewOrganizationProfile(body.Profile)
	if err != nil {
		writeError(w, err)
		return
	}

	resolved := catalog.ResolveProfile(profile)
	parts := catalog.Partition(resolved)
	ids := make([]int, 0, len(parts))
	for id := range parts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	resp := applicabilityResponse{
		TotalIndicators:      len(resolved),
		IndicatorIDs:         catalog.IDs(resolved),
		NewEntrantAdaptedIDs: catalog.AdaptedIDs(resolved, profile.NewEntrant),
		Criteria:             make([]applicableCriterion, 0, len(ids)),
	}
	for _, id := range ids {
		c, _ := catalog.CriterionByID(id)
		resp.Criteria = append(resp.Criteria, applicableCriterion{ID: id, Name: c.Name, IndicatorIDs: catalog.IDs(parts[id])})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ChatMessages(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, fmt.Errorf("%w: chat session id %q", domain.ErrInvalidInput, rawID))
		return
	}
	items, err := h.history.ListChatMessages(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat_session_id": id, "items": items})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := make([]string, 0)
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.logger.Warn("readiness check failed", "check", name, "error", err.Error())
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready", "failed": failed})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decodeJSON reads one JSON object, rejecting unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, out any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		return fmt.Errorf("%w: request body: %v", domain.ErrInvalidInput, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", domain.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: unexpected trailing data", domain.ErrInvalidInput)
	}
	return nil
}

func writeEvent(w io.Writer, flusher http.Flusher, ev domain.ProgressEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func statusFor(code string) int {
	switch code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	writeJSON(w, statusFor(code), map[string]any{"error": err.Error(), "code": code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
