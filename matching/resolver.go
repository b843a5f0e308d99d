// Package matching selects the registry records that plausibly correspond
// to a place, by name similarity and exact phone comparison.
package matching

import (
	"buscacnpj/normalization"
	"buscacnpj/normalization/algorithms"
	"buscacnpj/registry"
)

// NameSimilarityThreshold is the minimum normalized Levenshtein similarity
// for two names to count as the same business.
const NameSimilarityThreshold = 0.8

// Resolver matches registry records against a place's name and phone.
type Resolver struct {
	metrics *algorithms.SimilarityMetrics
}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{metrics: algorithms.NewSimilarityMetrics()}
}

// Resolve returns the subset of active records that match the place by name
// or phone. With no name and no phone to discriminate on, every active
// record is returned. When no record clears the threshold the full active
// set is returned instead of an empty one: candidates are surfaced for
// manual review downstream, so a non-empty result is not a confirmed match.
func (r *Resolver) Resolve(records []registry.Office, placeName, placePhone string) []registry.Office {
	var active []registry.Office
	for _, rec := range records {
		if rec.IsActive() {
			active = append(active, rec)
		}
	}

	if placeName == "" && placePhone == "" {
		return active
	}

	placeNameNorm := normalization.Name(placeName)
	placePhoneNorm := normalization.Phone(placePhone)

	var filtered []registry.Office
	for _, rec := range active {
		nameOk := false
		if companyNorm := normalization.Name(rec.Company.Name); placeNameNorm != "" && companyNorm != "" {
			nameOk = r.metrics.LevenshteinSimilarity(placeNameNorm, companyNorm) >= NameSimilarityThreshold
		}

		phoneOk := false
		if placePhoneNorm != "" {
			for _, digits := range rec.PhoneDigits() {
				if digits == placePhoneNorm {
					phoneOk = true
					break
				}
			}
		}

		if nameOk || phoneOk {
			filtered = append(filtered, rec)
		}
	}

	if len(filtered) == 0 {
		return active
	}
	return filtered
}
