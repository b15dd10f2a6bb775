package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"workspace not found", service.ErrWorkspaceNotFound, http.StatusNotFound},
		{"client not found", service.ErrClientNotFound, http.StatusNotFound},
		{"module disabled", service.ErrModuleDisabled, http.StatusNotFound},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"form closed", service.ErrFormClosed, http.StatusBadRequest},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"contract not signable", service.ErrContractNotSignable, http.StatusConflict},
		{"file not reviewable", service.ErrFileNotReviewable, http.StatusConflict},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized},
		{"unmapped", errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body domain.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestRespondServiceError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("pq: connection refused"))

	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Detail, "connection refused")
}

func TestRespondServiceError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.Join(errors.New("signing contract"), service.ErrContractNotSignable))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&pageSize=50", 3, 50},
		{"zero page clamps", "page=0", 1, 20},
		{"negative page clamps", "page=-2", 1, 20},
		{"oversized page size capped", "pageSize=5000", 1, 200},
		{"garbage ignored", "page=abc&pageSize=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/invoices?"+tt.query, nil)
			page, pageSize := parsePagination(r)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}

func TestParseProjectQuery(t *testing.T) {
	t.Run("absent means all projects", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/invoices", nil)
		id, err := parseProjectQuery(r)
		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("valid uuid", func(t *testing.T) {
		want := uuid.New()
		r := httptest.NewRequest(http.MethodGet, "/invoices?project="+want.String(), nil)
		id, err := parseProjectQuery(r)
		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, want, *id)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/invoices?project=not-a-uuid", nil)
		_, err := parseProjectQuery(r)
		assert.Error(t, err)
	})
}

func TestPaginated(t *testing.T) {
	resp := paginated([]string{"a", "b"}, 2, 20, 41)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, int64(41), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
}
