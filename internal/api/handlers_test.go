package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imadezze/Qualip/internal/audit"
	"github.com/imadezze/Qualip/internal/config"
	"github.com/imadezze/Qualip/internal/domain"
	"github.com/imadezze/Qualip/internal/logging"
	"github.com/imadezze/Qualip/internal/storage"
)

type auditorFunc func(ctx context.Context, req audit.Request, events chan<- domain.ProgressEvent) error

func (f auditorFunc) Run(ctx context.Context, req audit.Request, events chan<- domain.ProgressEvent) error {
	return f(ctx, req, events)
}

type fakeHistory struct {
	items map[uuid.UUID][]storage.ChatMessage
}

func (f fakeHistory) ListChatMessages(_ context.Context, id uuid.UUID) ([]storage.ChatMessage, error) {
	items, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: chat session %s", domain.ErrNotFound, id)
	}
	return items, nil
}

type nopSession struct{ id uuid.UUID }

func (s nopSession) ChatSessionID() uuid.UUID { return s.id }
func (s nopSession) Close() error             { return nil }

type nopSessions struct{}

func (nopSessions) Open(_ context.Context, id uuid.UUID) (audit.Session, error) {
	return nopSession{id: id}, nil
}

type fixedPipeline struct {
	mu      sync.Mutex
	answers map[int]string
	calls   []int
}

func (p *fixedPipeline) Complete(_ context.Context, _ audit.Session, req audit.ReasoningRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req.CriterionID)
	answer, ok := p.answers[req.CriterionID]
	if !ok {
		return "", errors.New("no answer scripted")
	}
	return answer, nil
}

func (p *fixedPipeline) called() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.calls...)
}

func testConfig() config.Config {
	return config.Config{MaxRequestBytes: 64 * 1024}
}

func newTestServer(t *testing.T, auditor Auditor, checks map[string]Pinger) *httptest.Server {
	t.Helper()
	h := NewHandler(testConfig(), auditor, fakeHistory{items: map[uuid.UUID][]storage.ChatMessage{}}, checks, logging.Discard())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

const validProfile = `{"registration_number":"11755555555","categories":["OF"],"audit_mode":"initial"}`

func readEvents(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	out := make([]map[string]any, 0)
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		out = append(out, ev)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestStartAuditStreamsEndToEnd(t *testing.T) {
	t.Parallel()

	pipeline := &fixedPipeline{answers: map[int]string{
		1: "Here you go:\n" +
			`[{"id":1,"status":"compliant","issues":[],"corrective_plan":[]},` +
			`{"id":2,"status":"minor_nonconformity","issues":["outdated results"],"corrective_plan":["publish 2025 rates"]}]`,
	}}
	orch := audit.New(pipeline, nopSessions{}, logging.Discard(), nil)
	srv := newTestServer(t, orch, nil)

	sessionID := uuid.New()
	body := fmt.Sprintf(`{"chat_session_id":%q,"profile":%s,"criteria":[1]}`, sessionID, validProfile)
	resp, err := http.Post(srv.URL+"/v1/audits", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, sessionID.String(), resp.Header.Get(HeaderChatSessionID))
	_, err = uuid.Parse(resp.Header.Get(HeaderRunID))
	require.NoError(t, err)

	events := readEvents(t, resp)
	require.Len(t, events, 3)
	assert.Equal(t, "criterion_progress", events[0]["event_type"])
	assert.Equal(t, "in_progress", events[0]["status"])
	assert.Equal(t, "completed", events[1]["status"])
	assert.Len(t, events[1]["indicators_processed"], 2)

	require.Equal(t, "audit_complete", events[2]["event_type"])
	report := events[2]["report"].(map[string]any)
	assert.Equal(t, "ready", report["verdict"])
	overview := report["overview"].(map[string]any)
	assert.EqualValues(t, 2, overview["total_indicators"])
	assert.EqualValues(t, 1, overview["minor_nonconformity"])
	assert.Equal(t, []int{1}, pipeline.called())
}

func TestStartAuditEmitsErrorEventOnFailure(t *testing.T) {
	t.Parallel()

	pipeline := &fixedPipeline{answers: map[int]string{
		1: `[{"id":1,"status":"compliant","issues":[],"corrective_plan":[]}]`,
		2: "sorry, nothing to report",
	}}
	orch := audit.New(pipeline, nopSessions{}, logging.Discard(), nil)
	srv := newTestServer(t, orch, nil)

	resp, err := http.Post(srv.URL+"/v1/audits", "application/json",
		strings.NewReader(`{"profile":`+validProfile+`}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(HeaderChatSessionID))
	require.NoError(t, err)

	events := readEvents(t, resp)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	require.Equal(t, "audit_error", last["event_type"])
	assert.EqualValues(t, 2, last["criterion_id"])
	errBody := last["error"].(map[string]any)
	assert.Equal(t, domain.CodeMalformedResponse, errBody["code"])
	for _, ev := range events {
		assert.NotEqual(t, "audit_complete", ev["event_type"])
	}
}

func TestStartAuditRejectsInvalidRequests(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	srv := newTestServer(t, auditorFunc(func(_ context.Context, _ audit.Request, events chan<- domain.ProgressEvent) error {
		called.Store(true)
		close(events)
		return nil
	}), nil)

	cases := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{`},
		{name: "unknown field", body: `{"profile":` + validProfile + `,"extra":1}`},
		{name: "short registration", body: `{"profile":{"registration_number":"12","categories":["OF"],"audit_mode":"initial"}}`},
		{name: "no categories", body: `{"profile":{"registration_number":"11755555555","categories":[],"audit_mode":"initial"}}`},
		{name: "unknown criterion", body: `{"profile":` + validProfile + `,"criteria":[0]}`},
		{name: "trailing data", body: `{"profile":` + validProfile + `}{}`},
	}
	for _, tc := range cases {
		resp, err := http.Post(srv.URL+"/v1/audits", "application/json", strings.NewReader(tc.body))
		require.NoError(t, err, tc.name)

		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out), tc.name)
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.name)
		assert.Equal(t, domain.CodeInvalidInput, out["code"], tc.name)
	}
	assert.False(t, called.Load())
}

func TestStartAuditRejectsOversizedBody(t *testing.T) {
	t.Parallel()

	h := NewHandler(config.Config{MaxRequestBytes: 16}, nil, nil, nil, logging.Discard())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/audits", strings.NewReader(`{"profile":`+validProfile+`}`))

	h.StartAudit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCriteria(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)
	resp, err := http.Get(srv.URL + "/v1/criteria")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Criteria []criterionView `json:"criteria"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Criteria, 7)

	total := 0
	for _, c := range out.Criteria {
		total += len(c.Indicators)
	}
	assert.Equal(t, 32, total)
	assert.Equal(t, 1, out.Criteria[0].Indicators[0].ID)
	assert.True(t, out.Criteria[0].Indicators[1].NewEntrantAdapted)
}

func TestPreviewApplicability(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)
	body := `{"profile":{"registration_number":"11755555555","categories":["OF"],"audit_mode":"initial","new_entrant":true}}`
	resp, err := http.Post(srv.URL+"/v1/applicability", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out applicabilityResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	assert.Equal(t, 26, out.TotalIndicators)
	assert.Len(t, out.IndicatorIDs, 26)
	assert.Equal(t, []int{2, 11, 13, 14, 19, 22, 24, 32}, out.NewEntrantAdaptedIDs)
	require.Len(t, out.Criteria, 7)
	assert.Equal(t, []int{1, 2}, out.Criteria[0].IndicatorIDs)
}

func TestChatMessages(t *testing.T) {
	t.Parallel()

	known := uuid.New()
	h := NewHandler(testConfig(), nil, fakeHistory{items: map[uuid.UUID][]storage.ChatMessage{
		known: {{ID: 1, ChatSessionID: known, CriterionID: 1, Role: storage.RoleUser, Content: "prompt"}},
	}}, nil, logging.Discard())
	srv := httptest.NewServer(NewRouter(h))
	defer srv.Close()

	cases := []struct {
		name   string
		id     string
		status int
	}{
		{name: "known", id: known.String(), status: http.StatusOK},
		{name: "unknown", id: uuid.NewString(), status: http.StatusNotFound},
		{name: "malformed", id: "not-a-uuid", status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp, err := http.Get(srv.URL + "/v1/sessions/" + tc.id + "/messages")
		require.NoError(t, err, tc.name)
		resp.Body.Close()
		assert.Equal(t, tc.status, resp.StatusCode, tc.name)
	}
}

func TestReadyz(t *testing.T) {
	t.Parallel()

	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	srv := newTestServer(t, nil, map[string]Pinger{"postgres": ok})
	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	srv = newTestServer(t, nil, map[string]Pinger{"postgres": ok, "minio": down})
	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Status string   `json:"status"`
		Failed []string `json:"failed"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_ready", out.Status)
	assert.Equal(t, []string{"minio"}, out.Failed)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil, nil)
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
