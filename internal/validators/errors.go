package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUsername       = errors.New("invalid username")
	ErrInvalidEmail          = errors.New("invalid email")
	ErrInvalidPasswordDigest = errors.New("invalid password digest")
	ErrInvalidResponseDigest = errors.New("invalid response digest")
	ErrInvalidSite           = errors.New("invalid site")
	ErrInvalidCiphertext     = errors.New("invalid ciphertext")
	ErrInvalidIV             = errors.New("invalid initialization vector")
)
