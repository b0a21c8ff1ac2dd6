package services

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/cjstrategies/reportflow/internal/models"
)

// ParseMultipart decodes a multipart/form-data body into its named parts.
// Parts without a name in their disposition header are ignored; duplicate
// names resolve last-seen-wins.
func ParseMultipart(contentType string, body []byte) (map[string]models.UploadedPart, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/form-data") {
		return nil, fmt.Errorf("%w: Content-Type must be multipart/form-data", ErrMalformedRequest)
	}
	boundary, ok := params["boundary"]
	if !ok {
		return nil, fmt.Errorf("%w: Content-Type has no boundary parameter", ErrMalformedRequest)
	}

	parts := make(map[string]models.UploadedPart)
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read part %q: %v", ErrMalformedRequest, name, err)
		}
		parts[name] = models.UploadedPart{
			FieldName: name,
			Filename:  part.FileName(),
			Content:   content,
		}
	}
	return parts, nil
}
