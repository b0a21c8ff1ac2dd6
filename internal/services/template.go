package services

import (
	"errors"
	"fmt"

	"github.com/cjstrategies/reportflow/internal/models"
	"github.com/cjstrategies/reportflow/internal/wordml"
)

// FillNarrativeTemplate writes the extracted scores into the first table of
// the Word narrative template. scores is keyed by normalized category; the
// first table's second column receives the matching score formatted to two
// decimals. Template rows with no matching category are left untouched so
// templates may carry explanatory rows or categories absent from the
// current assessment.
func FillNarrativeTemplate(template []byte, scores map[string]float64) ([]byte, error) {
	values := make(map[string]string, len(scores))
	for category, score := range scores {
		values[models.NormalizeCategory(category)] = formatScore(score)
	}

	filled, err := wordml.FillFirstTable(template, values)
	if err != nil {
		if errors.Is(err, wordml.ErrNoTable) {
			return nil, ErrMissingTable
		}
		return nil, fmt.Errorf("failed to fill narrative template: %w", err)
	}
	return filled, nil
}
