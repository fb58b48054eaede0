package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongResponse is the uniform login failure: unknown username,
	// missing or expired challenge, and a bad response digest all map to it
	// so a failed login reveals nothing about which step broke.
	ErrWrongResponse = errors.New("wrong challenge response")

	ErrUnauthorized = errors.New("session is expired or invalid")

	ErrSignupOnServer = errors.New("signup on server failed")
	ErrLoginOnServer  = errors.New("login on server failed")
	ErrNoVaultSession = errors.New("no open vault session")
)
