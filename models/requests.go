package models

// SignupRequest is the payload of POST /api/signup.
// PasswordDigest is the hex-encoded SHA-256 of the raw password, computed by
// the client; the raw password itself never reaches the server.
type SignupRequest struct {
	Username       string `json:"username"`
	PasswordDigest string `json:"password_digest"`
	Email          string `json:"email"`
}

// IdentifyRequest is the payload of POST /api/identify.
type IdentifyRequest struct {
	Username string `json:"username"`
}

// LoginRequest is the payload of POST /api/login.
// ResponseDigest is the hex-encoded SHA-256(storedDigest ‖ challenge)
// computed by the client from the salt and challenge returned by identify.
type LoginRequest struct {
	Username       string `json:"username"`
	ResponseDigest string `json:"response_digest"`
}

// SaveRequest is the payload of POST /api/save. Ciphertext and IV are
// hex-encoded; the owning username comes from the session, never the body.
type SaveRequest struct {
	Site       string `json:"site"`
	SiteUser   string `json:"site_user"`
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
}

// LoadRequest is the payload of POST /api/load.
type LoadRequest struct {
	Site string `json:"site"`
}
