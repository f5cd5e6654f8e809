package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/edforge/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessAndFail(t *testing.T) {
	ok := Success(map[string]string{"message": "success"})
	assert.NotNil(t, ok.Data)
	assert.Nil(t, ok.Error)

	bad := Fail("TEST_ERROR", "Test error message", "Additional details")
	assert.Nil(t, bad.Data)
	require.NotNil(t, bad.Error)
	assert.Equal(t, Error{Code: "TEST_ERROR", Message: "Test error message", Details: "Additional details"}, *bad.Error)
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, Success(map[string]string{"test": "data"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"test":"data"},"error":null}`, w.Body.String())
}

func TestCommitted(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		Committed(w, http.StatusCreated, "entry", nil)
		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "entry", resp.Data)
		assert.Nil(t, resp.Error)
	})

	t.Run("notification failure keeps data", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := pkgerrors.NewNotificationError("library-updated", errors.New("broker stopped"))
		Committed(w, http.StatusOK, "entry", err)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "entry", resp.Data)
		require.NotNil(t, resp.Error)
		assert.Equal(t, CodeNotificationFailed, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "library-updated")
	})

	t.Run("other errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		Committed(w, http.StatusOK, nil, pkgerrors.NewLockError("library", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, CodeLockUnavailable, decode(t, w).Error.Code)
	})
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", pkgerrors.NewNotFoundError("item", "x"), http.StatusNotFound, CodeNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", pkgerrors.NewNotFoundError("item", "x")), http.StatusNotFound, CodeNotFound},
		{"validation", pkgerrors.NewValidationError("body", nil, "bad json"), http.StatusBadRequest, CodeBadRequest},
		{"lock", pkgerrors.NewLockError("store catalog", nil), http.StatusServiceUnavailable, CodeLockUnavailable},
		{"sync", pkgerrors.WrapResource("build", "catalog", "", pkgerrors.NewSyncError("tftmeta", errors.New("down"))), http.StatusBadGateway, CodeProviderUnavailable},
		{"generic", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.Nil(t, resp.Data)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("secret path /etc/x"))
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowed(w, http.MethodPatch)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decode(t, w).Error.Details, "PATCH")
}
