package games

import (
	"context"
	"strings"

	"gamerscove/apperror"
	"gamerscove/models/postgres"

	"github.com/agnivade/levenshtein"
)

// BestTitleMatch resolves a free-text title against a candidate list:
// exact match, then case-insensitive, then substring, then minimum
// Levenshtein distance. Ties on distance go to the first candidate in
// iteration order. Returns nil when candidates is empty.
//
// Every chat tool resolves titles through this one function, so a typo
// like "Hollow Knigt" lands on the same game no matter which tool asked.
func BestTitleMatch(candidates []postgres.Game, title string) *postgres.Game {
	lower := strings.ToLower(strings.TrimSpace(title))
	if len(candidates) == 0 || lower == "" {
		return nil
	}

	for i := range candidates {
		if candidates[i].Title == title {
			return &candidates[i]
		}
	}

	for i := range candidates {
		if strings.ToLower(candidates[i].Title) == lower {
			return &candidates[i]
		}
	}

	for i := range candidates {
		if strings.Contains(strings.ToLower(candidates[i].Title), lower) {
			return &candidates[i]
		}
	}

	best := 0
	bestDistance := levenshtein.ComputeDistance(strings.ToLower(candidates[0].Title), lower)
	for i := 1; i < len(candidates); i++ {
		d := levenshtein.ComputeDistance(strings.ToLower(candidates[i].Title), lower)
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return &candidates[best]
}

// ResolveByApproximateTitle runs BestTitleMatch over the stored catalog.
// Returns NotFound when the catalog is empty.
func (s *Service) ResolveByApproximateTitle(ctx context.Context, title string) (*postgres.Game, error) {
	catalog, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	match := BestTitleMatch(catalog, title)
	if match == nil {
		return nil, apperror.NotFound("game", title)
	}
	return match, nil
}
