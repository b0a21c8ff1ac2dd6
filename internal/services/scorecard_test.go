package services

import (
	"bytes"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjstrategies/reportflow/internal/models"
)

func sampleScoreSet() *models.ScoreSet {
	overall := 4.1
	return &models.ScoreSet{
		Rows: []models.ScoreRow{
			{Category: "Cleanliness", Value: 4.5},
			{Category: "Staff", Value: 3.8},
		},
		Overall: &overall,
	}
}

func TestScorecardRowsContent(t *testing.T) {
	rows := scorecardRows(sampleScoreSet())

	assert.Equal(t, [][2]string{
		{"Category", "Average Score (1-5)"},
		{"Cleanliness", "4.50"},
		{"Staff", "3.80"},
		{"Overall Average", "4.10"},
	}, rows)
}

func TestScorecardRowsWithoutOverall(t *testing.T) {
	set := &models.ScoreSet{Rows: []models.ScoreRow{{Category: "Staff", Value: 3.8}}}
	rows := scorecardRows(set)

	require.Len(t, rows, 3)
	assert.Equal(t, [2]string{"Overall Average", ""}, rows[2])
}

func TestScorecardRowsEmptySet(t *testing.T) {
	rows := scorecardRows(&models.ScoreSet{})
	require.Len(t, rows, 2)
	assert.Equal(t, "Category", rows[0][0])
	assert.Equal(t, "Overall Average", rows[1][0])
}

func TestRenderScorecardProducesOnePagePDF(t *testing.T) {
	out, err := RenderScorecard(sampleScoreSet())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	pages, err := api.PageCount(bytes.NewReader(out), relaxedConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}
