package domain

import (
	"encoding/json"
	"fmt"
)

type IndicatorStatus string

const (
	StatusCompliant          IndicatorStatus = "compliant"
	StatusMinorNonconformity IndicatorStatus = "minor_nonconformity"
	StatusMajorNonconformity IndicatorStatus = "major_nonconformity"
	StatusNotApplicable      IndicatorStatus = "not_applicable"
)

var AllIndicatorStatuses = []IndicatorStatus{
	StatusCompliant,
	StatusMinorNonconformity,
	StatusMajorNonconformity,
	StatusNotApplicable,
}

func (s IndicatorStatus) Valid() bool {
	switch s {
	case StatusCompliant, StatusMinorNonconformity, StatusMajorNonconformity, StatusNotApplicable:
		return true
	}
	return false
}

func (s *IndicatorStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("indicator status must be a string: %w", err)
	}
	v := IndicatorStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown indicator status %q", raw)
	}
	*s = v
	return nil
}

type Verdict string

const (
	VerdictReady    Verdict = "ready"
	VerdictNotReady Verdict = "not_ready"
)

// CriterionPhase is the status carried by a criterion_progress event.
type CriterionPhase string

const (
	PhaseInProgress CriterionPhase = "in_progress"
	PhaseCompleted  CriterionPhase = "completed"
)
