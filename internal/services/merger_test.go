package services

import (
	"bytes"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageCount(t *testing.T, pdf []byte) int {
	t.Helper()
	pages, err := api.PageCount(bytes.NewReader(pdf), relaxedConfig())
	require.NoError(t, err)
	return pages
}

func TestMergeReportOrderAndPageCount(t *testing.T) {
	cover := buildPDF(t, 2)
	scorecard := buildPDF(t, 1)
	narrative := buildPDF(t, 3)

	merged, err := MergeReport(cover, scorecard, narrative)
	require.NoError(t, err)
	assert.Equal(t, 6, pageCount(t, merged))
}

func TestMergeReportScorecardOnly(t *testing.T) {
	merged, err := MergeReport(nil, buildPDF(t, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, merged))
}

func TestMergeReportCoverOnly(t *testing.T) {
	merged, err := MergeReport(buildPDF(t, 2), buildPDF(t, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, pageCount(t, merged))
}

func TestMergeReportCorruptInputNamed(t *testing.T) {
	_, err := MergeReport([]byte("not a pdf"), buildPDF(t, 1), nil)
	require.ErrorIs(t, err, ErrCorruptDocument)
	assert.Contains(t, err.Error(), "cover_pdf")
	assert.False(t, IsClientError(err))
}

func TestMergeReportCorruptNarrative(t *testing.T) {
	_, err := MergeReport(nil, buildPDF(t, 1), []byte("garbage"))
	require.ErrorIs(t, err, ErrCorruptDocument)
	assert.Contains(t, err.Error(), "narrative_pdf")
}
