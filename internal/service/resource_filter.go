package service

import (
	"strings"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

// FilterResources returns the catalog entries matching criteria in catalog order.
//
// Category, level and type must equal the criteria value unless it is "all" or empty.
// A non-empty search term (not trimmed) must then occur, case-insensitively, in the
// title, the description or at least one tag. Entries are never duplicated or reordered.
func FilterResources(catalog []models.Resource, criteria models.FilterCriteria) []models.Resource {
	criteria = criteria.Normalize()
	search := strings.ToLower(criteria.Search)

	out := make([]models.Resource, 0, len(catalog))
	for _, res := range catalog {
		if !matchesSelection(criteria.Category, string(res.Category)) {
			continue
		}
		if !matchesSelection(criteria.Level, string(res.Level)) {
			continue
		}
		if !matchesSelection(criteria.Type, string(res.Type)) {
			continue
		}
		if search != "" && !matchesSearch(res, search) {
			continue
		}
		out = append(out, res)
	}
	return out
}

func matchesSelection(selected, value string) bool {
	return selected == models.FilterAll || selected == value
}

// term must already be lower-cased.
func matchesSearch(res models.Resource, term string) bool {
	if strings.Contains(strings.ToLower(res.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(res.Description), term) {
		return true
	}
	for _, tag := range res.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
