package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webgames/accounts-go/internal/model"
	"github.com/webgames/accounts-go/internal/service"
	"github.com/webgames/accounts-go/internal/validation"
)

func TestHandleSuggest(t *testing.T) {
	h := NewGeneratorHandler(service.NewGeneratorService())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLength int
	}{
		{"empty body", "", http.StatusOK, 16},
		{"empty object", `{}`, http.StatusOK, 16},
		{"custom length", `{"length":24}`, http.StatusOK, 24},
		{"too short", `{"length":4}`, http.StatusBadRequest, 0},
		{"no classes", `{"uppercase":false,"lowercase":false,"numbers":false,"symbols":false}`, http.StatusBadRequest, 0},
		{"malformed", `{"length":`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/user/password/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleSuggest(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp model.PasswordSuggestion
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantLength, resp.Length)
			assert.True(t, validation.StrongPassword(resp.Password))
		})
	}
}
