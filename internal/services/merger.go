package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// MergeReport concatenates the report parts in fixed order: cover pages
// first (when provided), then the scorecard, then the narrative pages (when
// provided). Each provided input is validated up front so a corrupt upload
// is reported by name instead of as an opaque merge failure.
func MergeReport(cover, scorecard, narrative []byte) ([]byte, error) {
	cfg := relaxedConfig()

	type input struct {
		name string
		data []byte
	}
	inputs := []input{
		{"cover_pdf", cover},
		{"scorecard", scorecard},
		{"narrative_pdf", narrative},
	}

	var readers []io.ReadSeeker
	for _, in := range inputs {
		if len(in.data) == 0 {
			continue
		}
		if err := api.Validate(bytes.NewReader(in.data), cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, in.name, err)
		}
		readers = append(readers, bytes.NewReader(in.data))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, cfg); err != nil {
		return nil, fmt.Errorf("%w: merge failed: %v", ErrCorruptDocument, err)
	}
	return out.Bytes(), nil
}

func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}
