// Package catalog holds the read-only RNQ indicator and criterion registry and
// the applicability rules that select indicators for an organization profile.
//
// The registry is built once at package initialization and never mutated, so it
// is safe for concurrent use without locking. Call Validate at startup.
package catalog

import (
	"fmt"

	"github.com/imadezze/Qualip/internal/domain"
)

const (
	IndicatorCount = 32
	CriterionCount = 7
)

type Indicator struct {
	ID                 int
	Name               string
	ApplicableTo       domain.CategorySet
	CertificationsOnly bool
	// RestrictedTo, when set, drops the indicator unless the profile carries
	// that category.
	RestrictedTo      domain.Category
	NewEntrantAdapted bool
}

type Criterion struct {
	ID           int
	Name         string
	IndicatorIDs []int
}

var (
	allCategories = domain.NewCategorySet(domain.AllCategories...)
	cfaOnly       = domain.NewCategorySet(domain.CategoryCFA)
)

var criteria = []Criterion{
	{ID: 1, Name: "Conditions d'information du public", IndicatorIDs: []int{1, 2, 3}},
	{ID: 2, Name: "Identification precise des objectifs", IndicatorIDs: []int{4, 5, 6, 7}},
	{ID: 3, Name: "Adaptation aux publics beneficiaires", IndicatorIDs: []int{8, 9, 10, 11}},
	{ID: 4, Name: "Adequation des moyens pedagogiques", IndicatorIDs: []int{12, 13, 14, 15, 16}},
	{ID: 5, Name: "Qualification et developpement des competences", IndicatorIDs: []int{17, 18, 19, 20, 21}},
	{ID: 6, Name: "Inscription dans l'environnement professionnel", IndicatorIDs: []int{22, 23, 24, 25, 26, 27}},
	{ID: 7, Name: "Recueil et prise en compte des appreciations", IndicatorIDs: []int{28, 29, 30, 31, 32}},
}

var indicators = []Indicator{
	{ID: 1, Name: "Information accessible au public", ApplicableTo: allCategories},
	{ID: 2, Name: "Indicateurs de resultats", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 3, Name: "Taux d'obtention des certifications", ApplicableTo: allCategories, CertificationsOnly: true, NewEntrantAdapted: true},
	{ID: 4, Name: "Analyse des besoins du beneficiaire", ApplicableTo: allCategories},
	{ID: 5, Name: "Objectifs de la prestation et leur adequation", ApplicableTo: allCategories},
	{ID: 6, Name: "Contenus et modalites de mise en oeuvre", ApplicableTo: allCategories},
	{ID: 7, Name: "Adequation des contenus aux exigences de la certification", ApplicableTo: cfaOnly, CertificationsOnly: true},
	{ID: 8, Name: "Procedures de positionnement et d'evaluation des acquis", ApplicableTo: allCategories},
	{ID: 9, Name: "Conditions de deroulement de la prestation", ApplicableTo: allCategories},
	{ID: 10, Name: "Adaptation de la prestation aux beneficiaires", ApplicableTo: allCategories},
	{ID: 11, Name: "Evaluation de l'atteinte des objectifs", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 12, Name: "Moyens humains et techniques adaptes", ApplicableTo: allCategories},
	{ID: 13, Name: "Coordination des intervenants", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 14, Name: "Ressources pedagogiques a disposition", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 15, Name: "Parcours de formation des apprentis", ApplicableTo: cfaOnly, RestrictedTo: domain.CategoryCFA},
	{ID: 16, Name: "Missions tuteur/maitre d'apprentissage", ApplicableTo: cfaOnly, RestrictedTo: domain.CategoryCFA},
	{ID: 17, Name: "Competences des intervenants", ApplicableTo: allCategories},
	{ID: 18, Name: "Mobilisation des intervenants internes/externes", ApplicableTo: allCategories},
	{ID: 19, Name: "Developpement des competences des salaries", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 20, Name: "Formateurs occasionnels (respect reglementation)", ApplicableTo: allCategories},
	{ID: 21, Name: "Competences et habilitations requises", ApplicableTo: allCategories},
	{ID: 22, Name: "Veille legale et reglementaire", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 23, Name: "Veille emplois, metiers, competences", ApplicableTo: allCategories},
	{ID: 24, Name: "Veille innovations pedagogiques et technologiques", ApplicableTo: allCategories, NewEntrantAdapted: true},
	{ID: 25, Name: "Veille handicap", ApplicableTo: cfaOnly, RestrictedTo: domain.CategoryCFA, NewEntrantAdapted: true},
	{ID: 26, Name: "Referent handicap et accessibilite", ApplicableTo: cfaOnly, RestrictedTo: domain.CategoryCFA, NewEntrantAdapted: true},
	{ID: 27, Name: "Partenariats et reseaux", ApplicableTo: allCategories},
	{ID: 28, Name: "Recueil des appreciations des parties prenantes", ApplicableTo: allCategories},
	{ID: 29, Name: "Traitement des difficultes rencontrees", ApplicableTo: allCategories},
	{ID: 30, Name: "Traitement des reclamations", ApplicableTo: allCategories},
	{ID: 31, Name: "Prise en compte des appreciations pour l'amelioration", ApplicableTo: allCategories},
	{ID: 32, Name: "Mesures d'amelioration continue", ApplicableTo: allCategories, NewEntrantAdapted: true},
}

// ownership maps an indicator id to the id of the criterion that owns it.
var ownership = buildOwnership(criteria)

func buildOwnership(cs []Criterion) map[int]int {
	out := make(map[int]int, IndicatorCount)
	for _, c := range cs {
		for _, id := range c.IndicatorIDs {
			out[id] = c.ID
		}
	}
	return out
}

// Indicators returns every indicator ordered by id. The slice is a copy; the
// definitions it holds share read-only category sets.
func Indicators() []Indicator {
	out := make([]Indicator, len(indicators))
	copy(out, indicators)
	return out
}

// Criteria returns every criterion ordered by id.
func Criteria() []Criterion {
	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		c.IndicatorIDs = append([]int(nil), c.IndicatorIDs...)
		out[i] = c
	}
	return out
}

func IndicatorByID(id int) (Indicator, bool) {
	if id < 1 || id > len(indicators) {
		return Indicator{}, false
	}
	return indicators[id-1], true
}

func CriterionByID(id int) (Criterion, bool) {
	if id < 1 || id > len(criteria) {
		return Criterion{}, false
	}
	c := criteria[id-1]
	c.IndicatorIDs = append([]int(nil), c.IndicatorIDs...)
	return c, true
}

// CriterionOf returns the id of the criterion owning indicatorID.
func CriterionOf(indicatorID int) (int, bool) {
	id, ok := ownership[indicatorID]
	return id, ok
}

func InstructionsFor(id int) (string, error) {
	text, ok := instructions[id]
	if !ok {
		return "", fmt.Errorf("%w: no instructions for indicator %d", domain.ErrNotFound, id)
	}
	return text, nil
}

// Validate checks the registry invariants: ids are dense, every indicator is
// owned by exactly one criterion and carries a name and instructions.
func Validate() error {
	return validate(indicators, criteria, instructions)
}

func validate(inds []Indicator, crits []Criterion, texts map[int]string) error {
	if len(inds) != IndicatorCount {
		return fmt.Errorf("%w: expected %d indicators, got %d", domain.ErrCatalogIntegrity, IndicatorCount, len(inds))
	}
	if len(crits) != CriterionCount {
		return fmt.Errorf("%w: expected %d criteria, got %d", domain.ErrCatalogIntegrity, CriterionCount, len(crits))
	}
	for i, ind := range inds {
		if ind.ID != i+1 {
			return fmt.Errorf("%w: indicator at position %d has id %d", domain.ErrCatalogIntegrity, i, ind.ID)
		}
		if ind.Name == "" {
			return fmt.Errorf("%w: indicator %d has no name", domain.ErrCatalogIntegrity, ind.ID)
		}
		if texts[ind.ID] == "" {
			return fmt.Errorf("%w: indicator %d has no instructions", domain.ErrCatalogIntegrity, ind.ID)
		}
		if ind.RestrictedTo != "" && !ind.RestrictedTo.Valid() {
			return fmt.Errorf("%w: indicator %d restricted to unknown category %q", domain.ErrCatalogIntegrity, ind.ID, ind.RestrictedTo)
		}
	}

	owners := make(map[int]int, IndicatorCount)
	for i, c := range crits {
		if c.ID != i+1 {
			return fmt.Errorf("%w: criterion at position %d has id %d", domain.ErrCatalogIntegrity, i, c.ID)
		}
		if len(c.IndicatorIDs) == 0 {
			return fmt.Errorf("%w: criterion %d owns no indicators", domain.ErrCatalogIntegrity, c.ID)
		}
		for _, id := range c.IndicatorIDs {
			if id < 1 || id > IndicatorCount {
				return fmt.Errorf("%w: criterion %d owns unknown indicator %d", domain.ErrCatalogIntegrity, c.ID, id)
			}
			if prev, dup := owners[id]; dup {
				return fmt.Errorf("%w: indicator %d owned by criteria %d and %d", domain.ErrCatalogIntegrity, id, prev, c.ID)
			}
			owners[id] = c.ID
		}
	}
	for id := 1; id <= IndicatorCount; id++ {
		if _, ok := owners[id]; !ok {
			return fmt.Errorf("%w: indicator %d has no criterion", domain.ErrCatalogIntegrity, id)
		}
	}
	return nil
}
