package validators

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/dkotelnikov/go-password-safe/internal/crypto"
	"github.com/dkotelnikov/go-password-safe/models"
)

const (
	FieldUsername       = "username"
	FieldEmail          = "email"
	FieldPasswordDigest = "password_digest"
	FieldResponseDigest = "response_digest"
	FieldSite           = "site"
	FieldCiphertext     = "ciphertext"
	FieldIV             = "iv"
)

// RequestValidator checks the API request structures before any of their
// fields reach the services. Digest, ciphertext, and IV fields arrive as hex
// strings and are validated for both encoding and decoded length, so handlers
// can decode them afterwards without re-checking.
type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SignupRequest:
		return v.validateSignupRequest(ctx, value, fields...)
	case *models.SignupRequest:
		return v.validateSignupRequest(ctx, *value, fields...)

	case models.IdentifyRequest:
		return v.validateIdentifyRequest(ctx, value, fields...)
	case *models.IdentifyRequest:
		return v.validateIdentifyRequest(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(ctx, value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(ctx, *value, fields...)

	case models.SaveRequest:
		return v.validateSaveRequest(ctx, value, fields...)
	case *models.SaveRequest:
		return v.validateSaveRequest(ctx, *value, fields...)

	case models.LoadRequest:
		return v.validateLoadRequest(ctx, value, fields...)
	case *models.LoadRequest:
		return v.validateLoadRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// isHexOfLen reports whether s is valid hex encoding exactly n bytes.
func isHexOfLen(s string, n int) bool {
	decoded, err := hex.DecodeString(s)
	return err == nil && len(decoded) == n
}

// isHexBlockAligned reports whether s is valid hex encoding a non-empty byte
// string whose length is a multiple of the AES block size.
func isHexBlockAligned(s string) bool {
	decoded, err := hex.DecodeString(s)
	return err == nil && len(decoded) > 0 && len(decoded)%crypto.IVSize == 0
}

func (v *RequestValidator) validateSignupRequest(_ context.Context, request models.SignupRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldEmail, FieldPasswordDigest}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if request.Username == "" {
				return ErrInvalidUsername
			}
		case FieldEmail:
			if request.Email == "" || !strings.Contains(request.Email, "@") {
				return ErrInvalidEmail
			}
		case FieldPasswordDigest:
			if !isHexOfLen(request.PasswordDigest, crypto.DigestSize) {
				return ErrInvalidPasswordDigest
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateIdentifyRequest(_ context.Context, request models.IdentifyRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if request.Username == "" {
				return ErrInvalidUsername
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateLoginRequest(_ context.Context, request models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldResponseDigest}
	}

	for _, f := range fields {
		switch f {
		case FieldUsername:
			if request.Username == "" {
				return ErrInvalidUsername
			}
		case FieldResponseDigest:
			if !isHexOfLen(request.ResponseDigest, crypto.DigestSize) {
				return ErrInvalidResponseDigest
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateSaveRequest(_ context.Context, request models.SaveRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSite, FieldCiphertext, FieldIV}
	}

	for _, f := range fields {
		switch f {
		case FieldSite:
			if request.Site == "" {
				return ErrInvalidSite
			}
		case FieldCiphertext:
			if !isHexBlockAligned(request.Ciphertext) {
				return ErrInvalidCiphertext
			}
		case FieldIV:
			if !isHexOfLen(request.IV, crypto.IVSize) {
				return ErrInvalidIV
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateLoadRequest(_ context.Context, request models.LoadRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSite}
	}

	for _, f := range fields {
		switch f {
		case FieldSite:
			if request.Site == "" {
				return ErrInvalidSite
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
