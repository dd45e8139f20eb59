package domain

import (
	"encoding/json"
	"sort"
)

type Category string

const (
	CategoryOF  Category = "OF"
	CategoryCFA Category = "CFA"
	CategoryCBC Category = "CBC"
	CategoryVAE Category = "VAE"
)

var AllCategories = []Category{CategoryOF, CategoryCFA, CategoryCBC, CategoryVAE}

func (c Category) Valid() bool {
	switch c {
	case CategoryOF, CategoryCFA, CategoryCBC, CategoryVAE:
		return true
	}
	return false
}

// CategorySet is an unordered set of action categories.
type CategorySet map[Category]struct{}

func NewCategorySet(categories ...Category) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

func (s CategorySet) Intersects(other CategorySet) bool {
	for c := range s {
		if other.Has(c) {
			return true
		}
	}
	return false
}

// Sorted returns the members in the fixed OF, CFA, CBC, VAE order.
func (s CategorySet) Sorted() []Category {
	out := make([]Category, 0, len(s))
	for _, c := range AllCategories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

type AuditMode string

const (
	AuditModeInitial      AuditMode = "initial"
	AuditModeSurveillance AuditMode = "surveillance"
	AuditModeRenewal      AuditMode = "renewal"
)

func (m AuditMode) Valid() bool {
	switch m {
	case AuditModeInitial, AuditModeSurveillance, AuditModeRenewal:
		return true
	}
	return false
}

// OrganizationProfile is the onboarding record an audit run is scoped to.
// Construct it through NewOrganizationProfile so it is validated once.
type OrganizationProfile struct {
	RegistrationNumber    string          `json:"registration_number"`
	Categories            []Category      `json:"categories"`
	AuditMode             AuditMode       `json:"audit_mode"`
	NewEntrant            bool            `json:"new_entrant"`
	Website               *string         `json:"website,omitempty"`
	Subcontracting        map[string]bool `json:"subcontracting,omitempty"`
	HasCertifyingPrograms bool            `json:"has_certifying_programs"`
}

func (p OrganizationProfile) CategorySet() CategorySet {
	return NewCategorySet(p.Categories...)
}

// SubcontractingKeys returns the subcontracting flag names in sorted order.
func (p OrganizationProfile) SubcontractingKeys() []string {
	keys := make([]string, 0, len(p.Subcontracting))
	for k := range p.Subcontracting {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type IndicatorResult struct {
	ID             int             `json:"id"`
	Status         IndicatorStatus `json:"status"`
	Issues         []string        `json:"issues"`
	CorrectivePlan []string        `json:"corrective_plan"`
}

type AuditOverview struct {
	TotalIndicators    int `json:"total_indicators"`
	Compliant          int `json:"compliant"`
	MinorNonconformity int `json:"minor_nonconformity"`
	MajorNonconformity int `json:"major_nonconformity"`
	NotApplicable      int `json:"not_applicable"`
}

type AuditReport struct {
	Overview   AuditOverview     `json:"overview"`
	Verdict    Verdict           `json:"verdict"`
	Indicators []IndicatorResult `json:"indicators"`
}

type EventType string

const (
	EventCriterionProgress EventType = "criterion_progress"
	EventAuditComplete     EventType = "audit_complete"
	EventAuditError        EventType = "audit_error"
)

type EventError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProgressEvent is one frame of the audit progress stream. Which fields are set
// depends on EventType; constructors below keep the combinations valid.
type ProgressEvent struct {
	EventType           EventType         `json:"event_type"`
	CriterionID         int               `json:"criterion_id,omitempty"`
	CriterionName       string            `json:"criterion_name,omitempty"`
	Status              CriterionPhase    `json:"status,omitempty"`
	IndicatorsProcessed []IndicatorResult `json:"indicators_processed,omitempty"`
	Report              *AuditReport      `json:"report,omitempty"`
	Error               *EventError       `json:"error,omitempty"`
}

func CriterionStarted(criterionID int, name string) ProgressEvent {
	return ProgressEvent{
		EventType:     EventCriterionProgress,
		CriterionID:   criterionID,
		CriterionName: name,
		Status:        PhaseInProgress,
	}
}

func CriterionCompleted(criterionID int, name string, results []IndicatorResult) ProgressEvent {
	return ProgressEvent{
		EventType:           EventCriterionProgress,
		CriterionID:         criterionID,
		CriterionName:       name,
		Status:              PhaseCompleted,
		IndicatorsProcessed: results,
	}
}

func AuditCompleted(report AuditReport) ProgressEvent {
	return ProgressEvent{EventType: EventAuditComplete, Report: &report}
}

func AuditFailed(criterionID int, code string, message string) ProgressEvent {
	return ProgressEvent{
		EventType:   EventAuditError,
		CriterionID: criterionID,
		Error:       &EventError{Code: code, Message: message},
	}
}

// MarshalJSON keeps indicators_processed present (possibly empty) on completed
// criterion frames, where omitempty would otherwise drop an empty list.
func (e ProgressEvent) MarshalJSON() ([]byte, error) {
	type plain ProgressEvent
	if e.EventType == EventCriterionProgress && e.Status == PhaseCompleted {
		return json.Marshal(struct {
			plain
			IndicatorsProcessed []IndicatorResult `json:"indicators_processed"`
		}{plain: plain(e), IndicatorsProcessed: nonNil(e.IndicatorsProcessed)})
	}
	return json.Marshal(plain(e))
}

func nonNil(results []IndicatorResult) []IndicatorResult {
	if results == nil {
		return []IndicatorResult{}
	}
	return results
}
