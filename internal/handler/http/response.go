package http

import (
	"encoding/json"
	"net/http"

	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/utils"
	"github.com/dkotelnikov/go-password-safe/models"
)

// writeSuccess writes the response envelope with status "success". data may
// be nil for resources without a payload.
func writeSuccess(w http.ResponseWriter, r *http.Request, statusCode int, message string, data any) {
	envelope := models.Response{Status: models.StatusSuccess, Message: message}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			logger.FromRequest(r).Err(err).Msg("response payload marshaling failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		envelope.Data = raw
	}

	if _, err := utils.WriteJSON(w, envelope, statusCode); err != nil {
		logger.FromRequest(r).Err(err).Msg("response writing failed")
	}
}

// writeFailure writes the response envelope with status "failure". The HTTP
// status code stays the authoritative machine signal; message is for humans.
func writeFailure(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	envelope := models.Response{Status: models.StatusFailure, Message: message}

	if _, err := utils.WriteJSON(w, envelope, statusCode); err != nil {
		logger.FromRequest(r).Err(err).Msg("response writing failed")
	}
}
