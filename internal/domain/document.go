package domain

import "time"

// Document kinds produced by the backend.
const (
	DocumentInvoice   = "invoice"
	DocumentAgreement = "agreement"
	DocumentReport    = "report"
)

// Viewer types for document access tokens.
const (
	ViewerInspector = "inspector"
	ViewerClient    = "client"
	ViewerRealtor   = "realtor"
)

// AccessToken grants one viewer access to a document. Duration zero means
// the token never expires.
type AccessToken struct {
	UserID   int64         `json:"userid"`
	UserType string        `json:"usertype"`
	Token    string        `json:"token"`
	Duration time.Duration `json:"duration"`

	Accessed     int       `json:"accessed"`
	LastAccessed time.Time `json:"last_accessed,omitempty"`
}

// Document is a generated artifact (invoice, agreement, report) tied to an
// inspection, with per-viewer access tokens. Serving the artifact is the
// document service's concern, not this backend's.
type Document struct {
	ID           int64         `json:"id"`
	InspectionID int64         `json:"inspection_id"`
	Kind         string        `json:"kind"`
	Tokens       []AccessToken `json:"tokens"`
	Created      time.Time     `json:"created"`
}
