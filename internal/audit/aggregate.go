package audit

import "github.com/imadezze/Qualip/internal/domain"

// MinorNonconformityLimit is the number of minor nonconformities at which an
// organization is no longer ready for certification.
const MinorNonconformityLimit = 5

// Aggregate counts results by status and derives the readiness verdict. The
// total is the number of results, duplicates included.
func Aggregate(results []domain.IndicatorResult) (domain.AuditOverview, domain.Verdict) {
	overview := domain.AuditOverview{TotalIndicators: len(results)}
	for _, r := range results {
		switch r.Status {
		case domain.StatusCompliant:
			overview.Compliant++
		case domain.StatusMinorNonconformity:
			overview.MinorNonconformity++
		case domain.StatusMajorNonconformity:
			overview.MajorNonconformity++
		case domain.StatusNotApplicable:
			overview.NotApplicable++
		}
	}

	verdict := domain.VerdictReady
	if overview.MajorNonconformity > 0 || overview.MinorNonconformity >= MinorNonconformityLimit {
		verdict = domain.VerdictNotReady
	}
	return overview, verdict
}

func BuildReport(results []domain.IndicatorResult) domain.AuditReport {
	overview, verdict := Aggregate(results)
	indicators := make([]domain.IndicatorResult, len(results))
	copy(indicators, results)
	return domain.AuditReport{
		Overview:   overview,
		Verdict:    verdict,
		Indicators: indicators,
	}
}
