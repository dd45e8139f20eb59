package openai

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/imadezze/Qualip/internal/catalog"
	"github.com/imadezze/Qualip/internal/domain"
)

// IndicatorResultSchema is the JSON Schema every criterion answer must match.
const IndicatorResultSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id": {"type": "integer", "description": "Indicator number (1-32)"},
      "status": {
        "type": "string",
        "enum": ["compliant", "minor_nonconformity", "major_nonconformity", "not_applicable"]
      },
      "issues": {
        "type": "array",
        "items": {"type": "string"},
        "description": "Specific issues found. Empty when compliant or not applicable."
      },
      "corrective_plan": {
        "type": "array",
        "items": {"type": "string"},
        "description": "Suggested corrective actions. Empty when compliant or not applicable."
      }
    },
    "required": ["id", "status", "issues", "corrective_plan"]
  }
}`

const AUDIT_SYSTEM = `You are an expert Qualiopi auditor applying the RNQ V9 national quality framework.
You audit one criterion at a time from the organization's documents.
You must answer with ONLY a JSON array matching the provided schema.
No markdown. No commentary before or after the array.`

const CRITERION_USER_TEMPLATE = `You are auditing CRITERION {{CRITERION_ID}}: {{CRITERION_NAME}}.

ORGANIZATION CONTEXT:
- Registration number (NDA): {{REGISTRATION_NUMBER}}
- Action categories: {{CATEGORIES}}
- Audit mode: {{AUDIT_MODE}}
- New entrant: {{NEW_ENTRANT}}
- Website: {{WEBSITE}}
- Certifying programs: {{CERTIFYING_PROGRAMS}}
- Subcontracting: {{SUBCONTRACTING}}
{{NEW_ENTRANT_NOTE}}
INDICATORS TO AUDIT for this criterion: {{INDICATOR_IDS}}

For each indicator, analyse the organization's documents and decide its compliance status.

INSTRUCTIONS PER INDICATOR:
{{INDICATOR_INSTRUCTIONS}}

STATUS RULES:
- "compliant": every mandatory check is satisfied
- "minor_nonconformity": one or two minor elements are missing but the process exists
- "major_nonconformity": the process does not exist or essential elements are missing
- "not_applicable": the indicator does not apply to this organization

ANSWER ONLY with a JSON array conforming to this schema:
{{JSON_SCHEMA}}

Analyse every indicator ({{INDICATOR_IDS}}) and return the JSON array. No text before or after it.`

const NEW_ENTRANT_TEMPLATE = `
IMPORTANT: this organization is a NEW ENTRANT. For the adapted indicators ({{ADAPTED_IDS}}),
check that the process is formalized rather than that it has been effectively carried out.
`

// RenderTemplate substitutes {{KEY}} placeholders. Keys are applied in sorted
// order so the output does not depend on map iteration.
func RenderTemplate(tpl string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rendered := tpl
	for _, k := range keys {
		rendered = strings.ReplaceAll(rendered, "{{"+k+"}}", vars[k])
	}
	return rendered
}

// ComposeCriterionPrompt composes the audit request for one criterion. The
// indicators are embedded in the order given; an empty list is a caller bug.
func ComposeCriterionPrompt(criterion catalog.Criterion, indicators []catalog.Indicator, profile domain.OrganizationProfile) (string, error) {
	if len(indicators) == 0 {
		return "", fmt.Errorf("%w: criterion %d has no applicable indicators to audit", domain.ErrInvalidInput, criterion.ID)
	}

	var instructions strings.Builder
	for _, ind := range indicators {
		text, err := catalog.InstructionsFor(ind.ID)
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		instructions.WriteString("\n---\n")
		instructions.WriteString(text)
		instructions.WriteString("\n")
	}

	ids := joinInts(catalog.IDs(indicators))

	note := ""
	if profile.NewEntrant {
		adapted := catalog.AdaptedIDs(indicators, true)
		adaptedText := "none in this criterion"
		if len(adapted) > 0 {
			adaptedText = joinInts(adapted)
		}
		note = RenderTemplate(NEW_ENTRANT_TEMPLATE, map[string]string{"ADAPTED_IDS": adaptedText})
	}

	return RenderTemplate(CRITERION_USER_TEMPLATE, map[string]string{
		"CRITERION_ID":           strconv.Itoa(criterion.ID),
		"CRITERION_NAME":         criterion.Name,
		"REGISTRATION_NUMBER":    profile.RegistrationNumber,
		"CATEGORIES":             joinCategories(profile.Categories),
		"AUDIT_MODE":             string(profile.AuditMode),
		"NEW_ENTRANT":            yesNo(profile.NewEntrant),
		"WEBSITE":                website(profile.Website),
		"CERTIFYING_PROGRAMS":    yesNo(profile.HasCertifyingPrograms),
		"SUBCONTRACTING":         subcontracting(profile),
		"NEW_ENTRANT_NOTE":       note,
		"INDICATOR_IDS":          ids,
		"INDICATOR_INSTRUCTIONS": instructions.String(),
		"JSON_SCHEMA":            IndicatorResultSchema,
	}), nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func joinCategories(cs []domain.Category) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func website(v *string) string {
	if v == nil || *v == "" {
		return "not provided"
	}
	return *v
}

func subcontracting(p domain.OrganizationProfile) string {
	keys := p.SubcontractingKeys()
	if len(keys) == 0 {
		return "none declared"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + yesNo(p.Subcontracting[k])
	}
	return strings.Join(parts, ", ")
}
