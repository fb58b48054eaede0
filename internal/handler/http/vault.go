// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package http

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/service"
	"github.com/dkotelnikov/go-password-safe/internal/store"
	"github.com/dkotelnikov/go-password-safe/internal/utils"
	"github.com/dkotelnikov/go-password-safe/models"
)

func (h *Handler) sites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		log.Error().Msg("no username in authenticated request context")
		writeFailure(w, r, http.StatusUnauthorized, "Not logged in.")
		return
	}

	sites, err := h.services.VaultService.Sites(ctx, username)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during site listing")
		writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeSuccess(w, r, http.StatusOK, "Sites with recorded passwords.", models.SitesResponse{Sites: sites})
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		log.Error().Msg("no username in authenticated request context")
		writeFailure(w, r, http.StatusUnauthorized, "Not logged in.")
		return
	}

	var request models.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeFailure(w, r, http.StatusBadRequest, "Invalid JSON was passed.")
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("invalid save data provided")
		writeFailure(w, r, http.StatusBadRequest, "Invalid entry provided.")
		return
	}

	// Validation guarantees both fields decode cleanly.
	ciphertext, _ := hex.DecodeString(request.Ciphertext)
	iv, _ := hex.DecodeString(request.IV)

	entry := models.VaultEntry{
		Username:   username,
		Site:       request.Site,
		SiteUser:   request.SiteUser,
		Ciphertext: ciphertext,
		IV:         iv,
	}

	if err := h.services.VaultService.Save(ctx, entry); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeFailure(w, r, http.StatusBadRequest, "Invalid entry provided.")
			return
		default:
			log.Err(err).Msg("unexpected error occurred during save")
			writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}

	writeSuccess(w, r, http.StatusOK, "Password saved.", nil)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok {
		log.Error().Msg("no username in authenticated request context")
		writeFailure(w, r, http.StatusUnauthorized, "Not logged in.")
		return
	}

	var request models.LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		writeFailure(w, r, http.StatusBadRequest, "Invalid JSON was passed.")
		return
	}

	if err := h.validator.Validate(ctx, request); err != nil {
		log.Err(err).Msg("invalid load data provided")
		writeFailure(w, r, http.StatusBadRequest, "Invalid site provided.")
		return
	}

	entry, err := h.services.VaultService.Load(ctx, username, request.Site)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			writeFailure(w, r, http.StatusBadRequest, "Invalid site provided.")
			return
		case errors.Is(err, store.ErrEntryNotFound):
			log.Err(err).Msg("no entry for site")
			writeFailure(w, r, http.StatusNotFound, "No password recorded for that site.")
			return
		default:
			log.Err(err).Msg("unexpected error occurred during load")
			writeFailure(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}
	}

	writeSuccess(w, r, http.StatusOK, "Recorded password.", models.LoadResponse{
		Site:       entry.Site,
		SiteUser:   entry.SiteUser,
		Ciphertext: hex.EncodeToString(entry.Ciphertext),
		IV:         hex.EncodeToString(entry.IV),
	})
}
