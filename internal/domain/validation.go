package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const RegistrationNumberLength = 11

// NewOrganizationProfile validates p and returns a normalized copy: categories
// are deduplicated in their fixed order and an empty website is dropped. The
// registration number is kept as sent; its length counts every character.
func NewOrganizationProfile(p OrganizationProfile) (OrganizationProfile, error) {
	failed := ValidateProfile(p)
	if len(failed) > 0 {
		return OrganizationProfile{}, fmt.Errorf("%w: profile failed rules %v", ErrInvalidInput, failed)
	}

	out := p
	out.Categories = p.CategorySet().Sorted()
	if p.Website != nil {
		site := strings.TrimSpace(*p.Website)
		if site == "" {
			out.Website = nil
		} else {
			out.Website = &site
		}
	}
	if p.Subcontracting != nil {
		out.Subcontracting = make(map[string]bool, len(p.Subcontracting))
		for k, v := range p.Subcontracting {
			out.Subcontracting[k] = v
		}
	}
	return out, nil
}

// ValidateProfile returns the names of the rules p breaks, empty when valid.
func ValidateProfile(p OrganizationProfile) []string {
	failed := make([]string, 0)

	if utf8.RuneCountInString(p.RegistrationNumber) != RegistrationNumberLength {
		failed = append(failed, "profile.registration_number_length")
	}
	if len(p.Categories) == 0 {
		failed = append(failed, "profile.categories_non_empty")
	}
	for _, c := range p.Categories {
		if !c.Valid() {
			failed = append(failed, "profile.categories_known")
			break
		}
	}
	if !p.AuditMode.Valid() {
		failed = append(failed, "profile.audit_mode_known")
	}
	if p.Website != nil && strings.TrimSpace(*p.Website) != "" && !isHTTPURL(strings.TrimSpace(*p.Website)) {
		failed = append(failed, "profile.website_url")
	}

	return failed
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateCriteriaFilter checks that every requested criterion id exists.
func ValidateCriteriaFilter(ids []int, maxID int) error {
	for _, id := range ids {
		if id < 1 || id > maxID {
			return fmt.Errorf("%w: unknown criterion id %d", ErrInvalidInput, id)
		}
	}
	return nil
}
