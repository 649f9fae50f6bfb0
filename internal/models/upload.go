package models

import (
	"fmt"
	"strconv"
	"strings"
)

// UploadedDocument holds the raw bytes of one user-submitted PDF for the
// duration of a single request.
type UploadedDocument struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Empty reports whether no file was supplied
func (d UploadedDocument) Empty() bool {
	return len(d.Data) == 0
}

// DisplayName returns the upload name, or a positional fallback
func (d UploadedDocument) DisplayName(index int) string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("document %d", index+1)
}

// MergeRequest asks for every page of every document, in order
type MergeRequest struct {
	Documents []UploadedDocument `validate:"min=1"`
}

// SplitRequest asks for the selected pages of one document, in selection order
type SplitRequest struct {
	Document UploadedDocument
	Pages    []string `validate:"min=1,dive,required"`
}

// WatermarkRequest asks for text to be stamped onto every page
type WatermarkRequest struct {
	Document UploadedDocument
	Text     string `validate:"required"`
}

// PageLabel returns the UI label for a 1-based page number
func PageLabel(page int) string {
	return fmt.Sprintf("Page %d", page)
}

// ParsePageSelection converts UI labels ("Page 3" or "3") into 1-based page
// numbers. Order and duplicates are preserved; every entry must fall within
// 1..pageCount.
func ParsePageSelection(labels []string, pageCount int) ([]int, error) {
	pages := make([]int, 0, len(labels))
	for _, label := range labels {
		raw := strings.TrimSpace(label)
		if fields := strings.Fields(raw); len(fields) == 2 && strings.EqualFold(fields[0], "page") {
			raw = fields[1]
		}

		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid page label %q", label)
		}
		if n < 1 || n > pageCount {
			return nil, fmt.Errorf("page %d is out of range (document has %d pages)", n, pageCount)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// SplitLabels expands form values that may hold comma-separated labels
func SplitLabels(values []string) []string {
	var labels []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				labels = append(labels, part)
			}
		}
	}
	return labels
}
