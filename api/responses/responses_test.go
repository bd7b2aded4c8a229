package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
)

func TestWriteSuccessWritesResourceAsTopLevelDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]any{"id": "abc", "name": "Gloves"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Gloves", body["name"])
	_, hasEnvelope := body["data"]
	assert.False(t, hasEnvelope)
}

func TestWriteErrorMapsTypedCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "sku is required"),
			wantStatus: http.StatusBadRequest,
			wantError:  "sku is required",
		},
		{
			name:       "not found",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "product not found"),
			wantStatus: http.StatusNotFound,
			wantError:  "product not found",
		},
		{
			name:       "state conflict",
			err:        pkgerrors.New(pkgerrors.CodeStateConflict, "cannot transition from delivered to pending"),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "cannot transition from delivered to pending",
		},
		{
			name:       "untyped becomes internal",
			err:        assertionError("boom"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantError, body.Error)
		})
	}
}

func TestWriteErrorHidesCauseUnlessDebug(t *testing.T) {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeValidation, assertionError("pq: column missing"), "invalid payload")

	SetDebugDetails(false)
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, wrapped)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Message)

	SetDebugDetails(true)
	t.Cleanup(func() { SetDebugDetails(false) })
	rec = httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, wrapped)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pq: column missing", body.Message)
}

type assertionError string

func (a assertionError) Error() string { return string(a) }
