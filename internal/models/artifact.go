package models

import "time"

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// ArtifactFile is one output file produced by an operation
type ArtifactFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Result is what a document operation returns on success
type Result struct {
	Operation Operation      `json:"operation"`
	Files     []ArtifactFile `json:"files"`
	PageCount int            `json:"page_count"` // pages in the primary output, 0 for non-PDF outputs
	Warnings  []string       `json:"warnings,omitempty"` // non-fatal cleanup failures
}

// Artifact is a published output file awaiting its single download
type Artifact struct {
	ID          string    `json:"id" badgerhold:"key"` // art_{uuid}
	Operation   Operation `json:"operation"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	Size        int       `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" badgerhold:"index"`
}

// Expired reports whether the artifact is past its expiry at time now
func (a *Artifact) Expired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && now.After(a.ExpiresAt)
}

// ArtifactLink is the public description of a published artifact
type ArtifactLink struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PagePreview is a rendered thumbnail shown before a split
type PagePreview struct {
	Label  string `json:"label"`
	Page   int    `json:"page"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	PNG    []byte `json:"-"`
}

// PageText is the plain text extracted from one page
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}
