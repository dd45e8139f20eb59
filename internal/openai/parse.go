package openai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/imadezze/Qualip/internal/domain"
)

// arrayPattern spans from the first '[' to the last ']' so prose or code
// fences around the answer are tolerated.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

var indicatorResultRequiredKeys = []string{"id", "status", "issues", "corrective_plan"}

// ParseIndicatorResults extracts the indicator verdicts from a reasoning answer.
// Elements are returned in answer order, without dedup. Keys outside the schema
// are ignored.
func ParseIndicatorResults(raw string) ([]domain.IndicatorResult, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty model output", domain.ErrMalformedResponse)
	}

	match := arrayPattern.FindString(trimmed)
	if match == "" {
		return nil, fmt.Errorf("%w: no JSON array found in model output", domain.ErrMalformedResponse)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(match), &elements); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}

	out := make([]domain.IndicatorResult, 0, len(elements))
	for i, el := range elements {
		res, err := parseIndicatorResult(el)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", domain.ErrMalformedResponse, i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

func parseIndicatorResult(el json.RawMessage) (domain.IndicatorResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(el, &fields); err != nil {
		return domain.IndicatorResult{}, fmt.Errorf("not an object: %w", err)
	}
	if err := requireKeys(fields, indicatorResultRequiredKeys); err != nil {
		return domain.IndicatorResult{}, err
	}

	var res domain.IndicatorResult
	if err := json.Unmarshal(fields["id"], &res.ID); err != nil {
		return domain.IndicatorResult{}, fmt.Errorf("id must be an integer: %w", err)
	}
	if err := json.Unmarshal(fields["status"], &res.Status); err != nil {
		return domain.IndicatorResult{}, err
	}
	issues, err := decodeStrings("issues", fields["issues"])
	if err != nil {
		return domain.IndicatorResult{}, err
	}
	plan, err := decodeStrings("corrective_plan", fields["corrective_plan"])
	if err != nil {
		return domain.IndicatorResult{}, err
	}
	res.Issues = issues
	res.CorrectivePlan = plan
	return res, nil
}

func requireKeys(fields map[string]json.RawMessage, required []string) error {
	for _, k := range required {
		v, ok := fields[k]
		if !ok {
			return fmt.Errorf("missing required key %q", k)
		}
		if strings.TrimSpace(string(v)) == "null" {
			return fmt.Errorf("required key %q is null", k)
		}
	}
	return nil
}

// decodeStrings accepts only a JSON array of strings; null is rejected.
func decodeStrings(key string, data json.RawMessage) ([]string, error) {
	if strings.TrimSpace(string(data)) == "null" {
		return nil, fmt.Errorf("%s must be an array of strings, got null", key)
	}
	out := make([]string, 0)
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s must be an array of strings: %w", key, err)
	}
	return out, nil
}
