package temporal

import (
	"context"
	"sync"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/sdk/testsuite"

	"github.com/imadezze/Qualip/internal/openai"
)

type activityTrace struct {
	mu sync.Mutex

	startedOrder   []string
	completedOrder []string

	completeIn *CompleteCriterionInput
	recordIn   *RecordExchangeInput
}

func (t *activityTrace) recordStarted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startedOrder = append(t.startedOrder, name)
}

func (t *activityTrace) recordCompleted(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completedOrder = append(t.completedOrder, name)
}

var _ = Describe("CriterionReasoningWorkflow blackbox happy path", func() {
	It("asks the model once, records the exchange and returns the raw answer", func() {
		var suite testsuite.WorkflowTestSuite
		env := suite.NewTestWorkflowEnvironment()

		answer := "Analysis follows.\n[{\"id\":1,\"status\":\"compliant\",\"issues\":[],\"corrective_plan\":[]}]"
		llm := &stubLLM{responses: []string{answer}}
		chat := &fakeChatLog{}
		acts := newActivities(llm, chat)

		trace := &activityTrace{}

		env.SetOnActivityStartedListener(func(info *activity.Info, _ context.Context, args converter.EncodedValues) {
			trace.recordStarted(info.ActivityType.Name)

			switch info.ActivityType.Name {
			case "CompleteCriterionActivity":
				var in CompleteCriterionInput
				_ = args.Get(&in)
				trace.mu.Lock()
				trace.completeIn = &in
				trace.mu.Unlock()
			case "RecordExchangeActivity":
				var in RecordExchangeInput
				_ = args.Get(&in)
				trace.mu.Lock()
				trace.recordIn = &in
				trace.mu.Unlock()
			}
		})
		env.SetOnActivityCompletedListener(func(info *activity.Info, _ converter.EncodedValue, _ error) {
			trace.recordCompleted(info.ActivityType.Name)
		})

		env.RegisterWorkflow(CriterionReasoningWorkflow)
		env.RegisterActivity(acts.CompleteCriterionActivity)
		env.RegisterActivity(acts.RecordExchangeActivity)

		runID := uuid.NewString()
		env.ExecuteWorkflow(CriterionReasoningWorkflow, ReasoningWorkflowInput{
			ChatSessionID: uuid.NewString(),
			RunID:         runID,
			CriterionID:   1,
			SystemPrompt:  openai.AUDIT_SYSTEM,
			Prompt:        "criterion 1 prompt",
		})

		Expect(env.IsWorkflowCompleted()).To(BeTrue())
		Expect(env.GetWorkflowError()).ToNot(HaveOccurred())

		var result ReasoningWorkflowResult
		Expect(env.GetWorkflowResult(&result)).To(Succeed())
		Expect(result.Answer).To(Equal(answer))

		By("running the activities in order")
		trace.mu.Lock()
		defer trace.mu.Unlock()
		Expect(trace.startedOrder).To(Equal([]string{"CompleteCriterionActivity", "RecordExchangeActivity"}))
		Expect(trace.completedOrder).To(Equal([]string{"CompleteCriterionActivity", "RecordExchangeActivity"}))

		Expect(trace.completeIn).ToNot(BeNil())
		Expect(trace.completeIn.RunID).To(Equal(runID))
		Expect(trace.completeIn.SystemPrompt).To(Equal(openai.AUDIT_SYSTEM))
		Expect(trace.recordIn).ToNot(BeNil())
		Expect(trace.recordIn.Answer).To(Equal(answer))

		By("calling the model exactly once")
		Expect(llm.calls).To(HaveLen(1))
		Expect(chat.all()).To(HaveLen(1))
	})
})
