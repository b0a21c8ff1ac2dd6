// Package wordml fills table cells inside a .docx document.
//
// A .docx file is a zip archive whose body lives in word/document.xml.
// The rewrite operates on raw tag boundaries instead of an XML tree:
// round-tripping WordprocessingML through a generic XML encoder mangles
// its namespace prefixes, while targeted byte-range edits leave every
// untouched run exactly as Word wrote it. That also makes the fill
// deterministic: no timestamps or reordered markup are introduced.
package wordml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
)

// ErrNoTable indicates the document body contains no tables at all.
var ErrNoTable = errors.New("document contains no tables")

const documentEntry = "word/document.xml"

// FillFirstTable rewrites the first table of the document: for every row
// after the header row whose first-cell text (trimmed, lowercased) matches a
// key in values, the second cell's text is replaced with the mapped value.
// Rows without a match are left byte-identical. The remaining archive
// entries are copied through untouched, so filling twice with the same
// values yields the same bytes.
func FillFirstTable(docx []byte, values map[string]string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, fmt.Errorf("not a valid docx archive: %w", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	found := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
		}

		if f.Name == documentEntry {
			found = true
			filled, err := fillDocumentXML(string(content), values)
			if err != nil {
				return nil, err
			}
			content = []byte(filled)
		}

		// Entries go out through a normalized header: carrying the
		// reader's header over would re-append the extended-timestamp
		// extra field on every pass, so a refill would never be a
		// fixed point.
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: f.Method})
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", f.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", f.Name, err)
		}
	}
	if !found {
		return nil, fmt.Errorf("docx archive has no %s entry", documentEntry)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx archive: %w", err)
	}
	return out.Bytes(), nil
}

// tag is one WordprocessingML start or end tag we care about.
type tag struct {
	name        string
	start, end  int // byte offsets: start of '<' to just past '>'
	closing     bool
	selfClosing bool
}

// elem is a complete element: indexes into the tag slice for its open and
// close tags. For self-closing tags open == close.
type elem struct {
	open, close int
}

// edit is a pending byte-range replacement, applied back-to-front.
type edit struct {
	start, end int
	text       string
}

func fillDocumentXML(doc string, values map[string]string) (string, error) {
	tags := parseTags(doc)

	table, ok := firstElement(tags, "w:tbl")
	if !ok {
		return "", ErrNoTable
	}

	var edits []edit
	rows := childElements(tags, table, "w:tr")
	for i, row := range rows {
		if i == 0 {
			continue // header row
		}
		cells := childElements(tags, row, "w:tc")
		if len(cells) < 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(elementText(doc, tags, cells[0])))
		value, ok := values[key]
		if !ok {
			continue
		}
		cellEdits, err := setCellText(doc, tags, cells[1], value)
		if err != nil {
			return "", err
		}
		edits = append(edits, cellEdits...)
	}

	return applyEdits(doc, edits), nil
}

// parseTags collects the structural tags the table walk needs. Attribute
// values in document.xml never contain raw '<' or '>', so scanning on tag
// delimiters is sufficient.
func parseTags(doc string) []tag {
	var tags []tag
	for i := 0; i < len(doc); {
		j := strings.IndexByte(doc[i:], '<')
		if j < 0 {
			break
		}
		p := i + j
		k := strings.IndexByte(doc[p:], '>')
		if k < 0 {
			break
		}
		q := p + k + 1
		inner := doc[p+1 : q-1]

		t := tag{start: p, end: q}
		if strings.HasPrefix(inner, "/") {
			t.closing = true
			inner = inner[1:]
		} else if strings.HasSuffix(inner, "/") {
			t.selfClosing = true
			inner = inner[:len(inner)-1]
		}
		if sp := strings.IndexAny(inner, " \t\r\n"); sp >= 0 {
			inner = inner[:sp]
		}
		t.name = inner

		switch t.name {
		case "w:tbl", "w:tr", "w:tc", "w:p", "w:r", "w:t":
			tags = append(tags, t)
		}
		i = q
	}
	return tags
}

// firstElement returns the first complete element with the given name.
func firstElement(tags []tag, name string) (elem, bool) {
	for i, t := range tags {
		if t.name == name && !t.closing {
			if t.selfClosing {
				return elem{open: i, close: i}, true
			}
			if c, ok := matchClose(tags, i); ok {
				return elem{open: i, close: c}, true
			}
			return elem{}, false
		}
	}
	return elem{}, false
}

// matchClose finds the closing tag matching the opening tag at index i by
// counting same-name nesting.
func matchClose(tags []tag, i int) (int, bool) {
	name := tags[i].name
	depth := 0
	for j := i + 1; j < len(tags); j++ {
		if tags[j].name != name || tags[j].selfClosing {
			continue
		}
		if tags[j].closing {
			if depth == 0 {
				return j, true
			}
			depth--
		} else {
			depth++
		}
	}
	return 0, false
}

// childElements returns the direct children named name inside parent,
// skipping over nested tables so a nested table's rows and cells are never
// mistaken for the parent's.
func childElements(tags []tag, parent elem, name string) []elem {
	var children []elem
	for j := parent.open + 1; j < parent.close; j++ {
		t := tags[j]
		if t.closing {
			continue
		}
		if t.name == "w:tbl" && !t.selfClosing {
			if c, ok := matchClose(tags, j); ok {
				j = c
				continue
			}
		}
		if t.name != name {
			continue
		}
		if t.selfClosing {
			children = append(children, elem{open: j, close: j})
			continue
		}
		if c, ok := matchClose(tags, j); ok {
			children = append(children, elem{open: j, close: c})
			j = c
		}
	}
	return children
}

// elementText concatenates the contents of every w:t run inside the element,
// excluding runs that belong to a nested table.
func elementText(doc string, tags []tag, el elem) string {
	var b strings.Builder
	for _, t := range childTexts(tags, el) {
		if t.open == t.close && tags[t.open].selfClosing {
			continue
		}
		b.WriteString(html.UnescapeString(doc[tags[t.open].end:tags[t.close].start]))
	}
	return b.String()
}

// childTexts returns every w:t element inside el, at any paragraph depth,
// skipping nested-table subtrees.
func childTexts(tags []tag, el elem) []elem {
	var texts []elem
	for j := el.open + 1; j < el.close; j++ {
		t := tags[j]
		if t.closing {
			continue
		}
		if t.name == "w:tbl" && !t.selfClosing {
			if c, ok := matchClose(tags, j); ok {
				j = c
				continue
			}
		}
		if t.name != "w:t" {
			continue
		}
		if t.selfClosing {
			texts = append(texts, elem{open: j, close: j})
			continue
		}
		if c, ok := matchClose(tags, j); ok {
			texts = append(texts, elem{open: j, close: c})
			j = c
		}
	}
	return texts
}

// setCellText produces the edits that make value the cell's entire text:
// the first text run receives the value and any further runs are emptied.
// A cell with no text run at all gets a fresh run appended to its first
// paragraph.
func setCellText(doc string, tags []tag, cell elem, value string) ([]edit, error) {
	escaped := xmlEscape(value)
	texts := childTexts(tags, cell)

	if len(texts) == 0 {
		paras := childElements(tags, cell, "w:p")
		if len(paras) == 0 {
			return nil, fmt.Errorf("table cell has no paragraph to write into")
		}
		p := paras[0]
		run := "<w:r><w:t>" + escaped + "</w:t></w:r>"
		open := tags[p.open]
		if open.selfClosing {
			// <w:p .../> becomes <w:p ...>run</w:p>
			body := doc[open.start : open.end-2]
			return []edit{{start: open.start, end: open.end, text: body + ">" + run + "</w:p>"}}, nil
		}
		closeTag := tags[p.close]
		return []edit{{start: closeTag.start, end: closeTag.start, text: run}}, nil
	}

	var edits []edit
	for i, t := range texts {
		open := tags[t.open]
		if i == 0 {
			if open.selfClosing {
				// <w:t .../> becomes <w:t ...>value</w:t>
				body := doc[open.start : open.end-2]
				edits = append(edits, edit{start: open.start, end: open.end, text: body + ">" + escaped + "</w:t>"})
			} else {
				edits = append(edits, edit{start: open.end, end: tags[t.close].start, text: escaped})
			}
			continue
		}
		if !open.selfClosing {
			edits = append(edits, edit{start: open.end, end: tags[t.close].start, text: ""})
		}
	}
	return edits, nil
}

func applyEdits(doc string, edits []edit) string {
	if len(edits) == 0 {
		return doc
	}
	// Edits arrive in document order and never overlap.
	var b strings.Builder
	b.Grow(len(doc))
	pos := 0
	for _, e := range edits {
		b.WriteString(doc[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(doc[pos:])
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
