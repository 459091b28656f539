package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/testutil"
)

func TestAccountsHandler_Add(t *testing.T) {
	sessions := testutil.NewTestSessionStore(t)
	handler := NewAccountsHandler(sessions)
	user, token := signUpUser(t, sessions, "jane@company.com")

	t.Run("links a second account", func(t *testing.T) {
		body := strings.NewReader(`{"email":"jane@personal.net"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/accounts", body, user, token)
		rec := httptest.NewRecorder()
		handler.Add(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.User
		decodeResponse(t, rec, &got)
		require.Len(t, got.Accounts, 2)
		assert.Equal(t, "jane@personal.net", got.Accounts[1].Email)
		// Adding does not activate; the original account stays on top.
		assert.Equal(t, "jane@company.com", got.Email)
	})

	t.Run("empty email returns 400", func(t *testing.T) {
		body := strings.NewReader(`{"email":""}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/accounts", body, user, token)
		rec := httptest.NewRecorder()
		handler.Add(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 401 without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(`{"email":"x@y.com"}`))
		rec := httptest.NewRecorder()
		handler.Add(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAccountsHandler_Switch(t *testing.T) {
	sessions := testutil.NewTestSessionStore(t)
	handler := NewAccountsHandler(sessions)
	user, token := signUpUser(t, sessions, "jane@company.com")

	added, err := sessions.AddAccount(context.Background(), token, "jane@personal.net")
	require.NoError(t, err)
	second := added.Accounts[1]

	t.Run("activates the account", func(t *testing.T) {
		body := strings.NewReader(`{"accountId":"` + second.ID + `"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/accounts/switch", body, user, token)
		rec := httptest.NewRecorder()
		handler.Switch(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.User
		decodeResponse(t, rec, &got)
		assert.Equal(t, second.ID, got.ActiveAccountID)
		assert.Equal(t, "jane@personal.net", got.Email)
	})

	t.Run("unknown account returns 404", func(t *testing.T) {
		body := strings.NewReader(`{"accountId":"no-such-account"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/accounts/switch", body, user, token)
		rec := httptest.NewRecorder()
		handler.Switch(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAccountsHandler_Remove(t *testing.T) {
	sessions := testutil.NewTestSessionStore(t)
	handler := NewAccountsHandler(sessions)
	user, token := signUpUser(t, sessions, "jane@company.com")

	added, err := sessions.AddAccount(context.Background(), token, "jane@personal.net")
	require.NoError(t, err)
	second := added.Accounts[1]

	t.Run("unlinks an account", func(t *testing.T) {
		body := strings.NewReader(`{"accountId":"` + second.ID + `"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/accounts/remove", body, user, token)
		rec := httptest.NewRecorder()
		handler.Remove(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.User
		decodeResponse(t, rec, &got)
		assert.Len(t, got.Accounts, 1)
	})

	t.Run("removing the last account ends the session with 204", func(t *testing.T) {
		body := strings.NewReader(`{"accountId":"` + user.Accounts[0].ID + `"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/accounts/remove", body, user, token)
		rec := httptest.NewRecorder()
		handler.Remove(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		// The session is gone.
		req = createRequestWithSession(t, http.MethodPost, "/api/v1/accounts/remove", strings.NewReader(`{}`), user, token)
		rec = httptest.NewRecorder()
		handler.Remove(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
