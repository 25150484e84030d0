package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/wolfman30/luxe-salon/internal/formatting"
	"github.com/wolfman30/luxe-salon/internal/validation"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

type formatRequest struct {
	Value string `json:"value"`
}

// FormatResponse carries the display value for a partially typed field.
// Complete is true once the value would pass payment validation.
type FormatResponse struct {
	Value    string `json:"value"`
	Masked   string `json:"masked,omitempty"`
	Complete bool   `json:"complete"`
}

// FormatHandler exposes the card input formatters so thin clients can reformat
// each keystroke the same way the server normalizes payment details.
type FormatHandler struct {
	logger *logging.Logger
}

func NewFormatHandler(logger *logging.Logger) *FormatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &FormatHandler{logger: logger}
}

// CardNumber handles POST /format/card.
func (h *FormatHandler) CardNumber(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	value := formatting.FormatCardNumber(req.Value)
	writeJSON(w, http.StatusOK, FormatResponse{
		Value:    value,
		Masked:   formatting.MaskCardNumber(value),
		Complete: validation.CardNumber("cardNumber", value) == nil,
	})
}

// Expiry handles POST /format/expiry.
func (h *FormatHandler) Expiry(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	value := formatting.FormatExpiry(req.Value)
	writeJSON(w, http.StatusOK, FormatResponse{
		Value:    value,
		Complete: validation.Expiry("expiryDate", value) == nil,
	})
}

func (h *FormatHandler) decode(w http.ResponseWriter, r *http.Request) (formatRequest, bool) {
	var req formatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil {
		h.logger.Debug("format request rejected", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
