package handler

import (
	"errors"
	"net/http"

	"github.com/webgames/accounts-go/internal/crypto"
	"github.com/webgames/accounts-go/internal/model"
	"github.com/webgames/accounts-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password suggestions.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleSuggest handles POST /api/v1/user/password/generate requests.
func (h *GeneratorHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req model.PasswordSuggestionRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Suggest(req)
	if err != nil {
		if isSuggestionError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func isSuggestionError(err error) bool {
	return errors.Is(err, crypto.ErrSuggestionTooShort) ||
		errors.Is(err, crypto.ErrSuggestionTooLong) ||
		errors.Is(err, crypto.ErrNoClassSelected)
}
