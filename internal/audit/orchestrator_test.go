package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imadezze/Qualip/internal/domain"
	"github.com/imadezze/Qualip/internal/logging"
	"github.com/imadezze/Qualip/internal/openai"
)

func ofProfile() domain.OrganizationProfile {
	return domain.OrganizationProfile{
		RegistrationNumber: "11755555555",
		Categories:         []domain.Category{domain.CategoryOF},
		AuditMode:          domain.AuditModeInitial,
	}
}

type runOutcome struct {
	events []domain.ProgressEvent
	err    error
}

func runToEnd(ctx context.Context, o *Orchestrator, req Request) runOutcome {
	events := make(chan domain.ProgressEvent)
	errCh := make(chan error, 1)
	go func() { errCh <- o.Run(ctx, req, events) }()

	var out runOutcome
	for ev := range events {
		out.events = append(out.events, ev)
	}
	out.err = <-errCh
	return out
}

func eventKinds(events []domain.ProgressEvent) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = string(ev.EventType) + ":" + string(ev.Status)
	}
	return out
}

var _ = Describe("Orchestrator", func() {
	var (
		pipeline *stubPipeline
		sessions *fakeSessions
		orch     *Orchestrator
		req      Request
	)

	BeforeEach(func() {
		pipeline = &stubPipeline{answers: map[int]string{}, failures: map[int]error{}}
		sessions = &fakeSessions{}
		orch = New(pipeline, sessions, logging.Discard(), nil)
		req = Request{
			RunID:         uuid.New(),
			ChatSessionID: uuid.New(),
			Profile:       ofProfile(),
		}
	})

	It("audits a single criterion and reports over the accumulated results", func() {
		pipeline.answers[1] = `[{"id":1,"status":"compliant","issues":[],"corrective_plan":[]},` +
			`{"id":2,"status":"minor_nonconformity","issues":["outdated results"],"corrective_plan":["publish 2025 rates"]}]`
		req.Criteria = []int{1}

		out := runToEnd(context.Background(), orch, req)

		Expect(out.err).ToNot(HaveOccurred())
		Expect(eventKinds(out.events)).To(Equal([]string{
			"criterion_progress:in_progress",
			"criterion_progress:completed",
			"audit_complete:",
		}))
		Expect(out.events[0].CriterionID).To(Equal(1))
		Expect(out.events[0].CriterionName).ToNot(BeEmpty())
		Expect(out.events[1].IndicatorsProcessed).To(HaveLen(2))

		report := out.events[2].Report
		Expect(report).ToNot(BeNil())
		Expect(report.Overview.TotalIndicators).To(Equal(2))
		Expect(report.Overview.Compliant).To(Equal(1))
		Expect(report.Overview.MinorNonconformity).To(Equal(1))
		Expect(report.Verdict).To(Equal(domain.VerdictReady))

		Expect(pipeline.criterionCalls()).To(Equal([]int{1}))
		Expect(pipeline.calls[0].SystemPrompt).To(Equal(openai.AUDIT_SYSTEM))
		Expect(pipeline.calls[0].RunID).To(Equal(req.RunID))
		Expect(sessions.opened).To(Equal([]uuid.UUID{req.ChatSessionID}))
		Expect(sessions.closed()).To(Equal(1))
	})

	It("walks every applicable criterion in ascending order", func() {
		out := runToEnd(context.Background(), orch, req)

		Expect(out.err).ToNot(HaveOccurred())
		Expect(pipeline.criterionCalls()).To(Equal([]int{1, 2, 3, 4, 5, 6, 7}))
		Expect(out.events).To(HaveLen(15))
		last := out.events[len(out.events)-1]
		Expect(last.EventType).To(Equal(domain.EventAuditComplete))
		Expect(last.Report.Overview.TotalIndicators).To(Equal(26))
		Expect(last.Report.Overview.Compliant).To(Equal(26))
	})

	It("honours the criteria filter in catalog order and collapses duplicates", func() {
		req.Criteria = []int{5, 2, 5}

		out := runToEnd(context.Background(), orch, req)

		Expect(out.err).ToNot(HaveOccurred())
		Expect(pipeline.criterionCalls()).To(Equal([]int{2, 5}))
		Expect(out.events).To(HaveLen(5))
	})

	It("mentions the new entrant guidance only for new entrants", func() {
		req.Criteria = []int{1}
		req.Profile.NewEntrant = true

		out := runToEnd(context.Background(), orch, req)

		Expect(out.err).ToNot(HaveOccurred())
		Expect(pipeline.calls[0].Prompt).To(ContainSubstring("NEW ENTRANT"))
	})

	It("stops at the first malformed answer without a partial report", func() {
		pipeline.answers[3] = "I could not find any documents."

		out := runToEnd(context.Background(), orch, req)

		Expect(out.err).To(HaveOccurred())
		Expect(errors.Is(out.err, domain.ErrAuditExecution)).To(BeTrue())
		Expect(errors.Is(out.err, domain.ErrMalformedResponse)).To(BeTrue())
		Expect(domain.ErrorCode(out.err)).To(Equal(domain.CodeMalformedResponse))
		Expect(FailedCriterion(out.err)).To(Equal(3))

		Expect(pipeline.criterionCalls()).To(Equal([]int{1, 2, 3}))
		Expect(eventKinds(out.events)).To(Equal([]string{
			"criterion_progress:in_progress", "criterion_progress:completed",
			"criterion_progress:in_progress", "criterion_progress:completed",
			"criterion_progress:in_progress",
		}))
		Expect(sessions.closed()).To(Equal(1))
	})

	It("surfaces reasoning failures as execution errors", func() {
		pipeline.failures[2] = errors.New("upstream 502")

		out := runToEnd(context.Background(), orch, req)

		Expect(errors.Is(out.err, domain.ErrAuditExecution)).To(BeTrue())
		Expect(domain.ErrorCode(out.err)).To(Equal(domain.CodeAuditExecution))
		Expect(FailedCriterion(out.err)).To(Equal(2))
		Expect(pipeline.criterionCalls()).To(Equal([]int{1, 2}))
		for _, ev := range out.events {
			Expect(ev.EventType).ToNot(Equal(domain.EventAuditComplete))
		}
	})

	It("uses a swapped parser", func() {
		req.Criteria = []int{7}
		orch.WithParser(func(string) ([]domain.IndicatorResult, error) {
			return []domain.IndicatorResult{{ID: 32, Status: domain.StatusMajorNonconformity}}, nil
		})

		out := runToEnd(context.Background(), orch, req)

		Expect(out.err).ToNot(HaveOccurred())
		Expect(out.events[len(out.events)-1].Report.Verdict).To(Equal(domain.VerdictNotReady))
	})

	DescribeTable("rejects invalid requests before opening a session",
		func(mutate func(*Request)) {
			mutate(&req)

			out := runToEnd(context.Background(), orch, req)

			Expect(errors.Is(out.err, domain.ErrInvalidInput)).To(BeTrue())
			Expect(out.events).To(BeEmpty())
			Expect(sessions.opened).To(BeEmpty())
			Expect(pipeline.criterionCalls()).To(BeEmpty())
		},
		Entry("short registration number", func(r *Request) { r.Profile.RegistrationNumber = "123" }),
		Entry("no categories", func(r *Request) { r.Profile.Categories = nil }),
		Entry("unknown audit mode", func(r *Request) { r.Profile.AuditMode = "yearly" }),
		Entry("unknown criterion", func(r *Request) { r.Criteria = []int{1, 8} }),
		Entry("missing chat session", func(r *Request) { r.ChatSessionID = uuid.Nil }),
	)

	It("fails when the chat session cannot be opened", func() {
		sessions.openErr = errors.New("advisory lock busy")

		out := runToEnd(context.Background(), orch, req)

		Expect(errors.Is(out.err, domain.ErrAuditExecution)).To(BeTrue())
		Expect(out.events).To(BeEmpty())
		Expect(pipeline.criterionCalls()).To(BeEmpty())
	})

	It("starts no reasoning call after cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pipeline.onCall = func(r ReasoningRequest) {
			if r.CriterionID == 2 {
				cancel()
			}
		}

		out := runToEnd(ctx, orch, req)

		Expect(errors.Is(out.err, context.Canceled)).To(BeTrue())
		Expect(domain.ErrorCode(out.err)).To(Equal(domain.CodeCancelled))
		Expect(pipeline.criterionCalls()).To(Equal([]int{1, 2}))
		for _, ev := range out.events {
			Expect(ev.EventType).ToNot(Equal(domain.EventAuditComplete))
		}
		Expect(sessions.closed()).To(Equal(1))
	})

	It("interrupts an in-flight reasoning call when the consumer goes away", func() {
		pipeline.block = true
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events := make(chan domain.ProgressEvent)
		errCh := make(chan error, 1)
		go func() { errCh <- orch.Run(ctx, req, events) }()

		Eventually(events).Should(Receive())
		cancel()

		var err error
		Eventually(errCh, time.Second).Should(Receive(&err))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(FailedCriterion(err)).To(Equal(1))
		Eventually(events).Should(BeClosed())
		Expect(sessions.closed()).To(Equal(1))
	})

	It("delivers each criterion before starting the next one", func() {
		events := make(chan domain.ProgressEvent)
		errCh := make(chan error, 1)
		go func() { errCh <- orch.Run(context.Background(), req, events) }()

		var ev domain.ProgressEvent
		Eventually(events).Should(Receive(&ev))
		Expect(ev.Status).To(Equal(domain.PhaseInProgress))
		Eventually(events).Should(Receive(&ev))
		Expect(ev.Status).To(Equal(domain.PhaseCompleted))
		Expect(ev.CriterionID).To(Equal(1))

		Consistently(pipeline.criterionCalls, 100*time.Millisecond).Should(Equal([]int{1}))

		for range events {
		}
		Expect(<-errCh).ToNot(HaveOccurred())
		Expect(pipeline.criterionCalls()).To(HaveLen(7))
	})
})
