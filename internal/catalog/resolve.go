package catalog

import "github.com/imadezze/Qualip/internal/domain"

// Resolve returns the indicators an organization must be audited on, in
// catalog order. Each indicator is judged on its own:
//   - it is a candidate when its categories intersect the profile's, or when it
//     is certification-only (those are gated on program type, not category);
//   - certification-only indicators need certifying programs or the CFA category;
//   - category-restricted indicators need their restricting category.
//
// newEntrant never filters membership. It only matters downstream, where
// AdaptedIDs marks the lighter audit criteria.
func Resolve(categories domain.CategorySet, newEntrant bool, hasCertifyingPrograms bool) []Indicator {
	out := make([]Indicator, 0, len(indicators))
	for _, ind := range indicators {
		if applies(ind, categories, hasCertifyingPrograms) {
			out = append(out, ind)
		}
	}
	return out
}

// ResolveProfile is Resolve driven by a validated profile.
func ResolveProfile(p domain.OrganizationProfile) []Indicator {
	return Resolve(p.CategorySet(), p.NewEntrant, p.HasCertifyingPrograms)
}

func applies(ind Indicator, categories domain.CategorySet, hasCertifyingPrograms bool) bool {
	if !ind.ApplicableTo.Intersects(categories) && !ind.CertificationsOnly {
		return false
	}
	if ind.CertificationsOnly && !hasCertifyingPrograms && !categories.Has(domain.CategoryCFA) {
		return false
	}
	if ind.RestrictedTo != "" && !categories.Has(ind.RestrictedTo) {
		return false
	}
	return true
}

// Partition groups resolved indicators by owning criterion id, keeping the
// input order inside each group. Criteria with no indicator are absent.
func Partition(inds []Indicator) map[int][]Indicator {
	out := make(map[int][]Indicator)
	for _, ind := range inds {
		owner, ok := ownership[ind.ID]
		if !ok {
			continue
		}
		out[owner] = append(out[owner], ind)
	}
	return out
}

// AdaptedIDs lists, in input order, the ids whose audit criteria are lightened
// for a new entrant. It is empty when newEntrant is false.
func AdaptedIDs(inds []Indicator, newEntrant bool) []int {
	out := make([]int, 0)
	if !newEntrant {
		return out
	}
	for _, ind := range inds {
		if ind.NewEntrantAdapted {
			out = append(out, ind.ID)
		}
	}
	return out
}

func IDs(inds []Indicator) []int {
	out := make([]int, len(inds))
	for i, ind := range inds {
		out[i] = ind.ID
	}
	return out
}
