package models

import "encoding/json"

// Response status classifications carried in every response body.
// They are distinct from the HTTP status code: the HTTP code is the
// authoritative machine-checkable signal, the status string lets the caller
// render a human-readable message.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Response is the envelope every resource returns. Data holds the
// resource-specific payload (IdentifyResponse, SitesResponse, LoadResponse)
// and is omitted when a resource has no success fields.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// IdentifyResponse carries the login parameters for a username.
// Both fields are hex-encoded 16-byte values. The shape is identical for
// known and unknown accounts so that identify never reveals existence.
type IdentifyResponse struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

// SitesResponse lists the site names saved for the authenticated user.
type SitesResponse struct {
	Sites []string `json:"sites"`
}

// LoadResponse carries one vault entry. Ciphertext and IV are hex-encoded
// and opaque to the server; decryption happens client-side.
type LoadResponse struct {
	Site       string `json:"site"`
	SiteUser   string `json:"site_user"`
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
}
