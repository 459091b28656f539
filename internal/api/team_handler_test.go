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

func TestTeamHandler_Invite(t *testing.T) {
	sessions := testutil.NewTestSessionStore(t)
	handler := NewTeamHandler(sessions, 0)
	user, token := signUpUser(t, sessions, "jane@company.com")

	invite := func(t *testing.T, email string) *httptest.ResponseRecorder {
		t.Helper()
		body := strings.NewReader(`{"email":"` + email + `"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/team/invite", body, user, token)
		rec := httptest.NewRecorder()
		handler.Invite(rec, req)
		return rec
	}

	t.Run("adds a member", func(t *testing.T) {
		rec := invite(t, "alice@company.com")
		require.Equal(t, http.StatusOK, rec.Code)

		var member models.TeamMember
		decodeResponse(t, rec, &member)
		assert.Equal(t, "alice@company.com", member.Email)
		assert.Equal(t, "alice", member.Name)
	})

	t.Run("duplicate returns 409", func(t *testing.T) {
		rec := invite(t, "alice@company.com")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("free plan cap returns 403", func(t *testing.T) {
		require.Equal(t, http.StatusOK, invite(t, "bob@company.com").Code)

		rec := invite(t, "carol@company.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Upgrade to Pro")
	})

	t.Run("pro plan is uncapped", func(t *testing.T) {
		upgradeUser(t, sessions, token)
		assert.Equal(t, http.StatusOK, invite(t, "carol@company.com").Code)
	})

	t.Run("empty email returns 400", func(t *testing.T) {
		rec := invite(t, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTeamHandler_List(t *testing.T) {
	sessions := testutil.NewTestSessionStore(t)
	handler := NewTeamHandler(sessions, 0)
	user, token := signUpUser(t, sessions, "jane@company.com")

	_, err := sessions.InviteMember(context.Background(), token, "alice@company.com")
	require.NoError(t, err)

	req := createRequestWithSession(t, http.MethodGet, "/api/v1/team", nil, user, token)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var members []models.TeamMember
	decodeResponse(t, rec, &members)
	require.Len(t, members, 1)
	assert.Equal(t, "alice@company.com", members[0].Email)
}

func TestTeamHandler_Remove(t *testing.T) {
	sessions := testutil.NewTestSessionStore(t)
	handler := NewTeamHandler(sessions, 0)
	user, token := signUpUser(t, sessions, "jane@company.com")

	member, err := sessions.InviteMember(context.Background(), token, "alice@company.com")
	require.NoError(t, err)

	t.Run("removes the member", func(t *testing.T) {
		body := strings.NewReader(`{"memberId":"` + member.ID + `"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/team/remove", body, user, token)
		rec := httptest.NewRecorder()
		handler.Remove(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown member returns 404", func(t *testing.T) {
		body := strings.NewReader(`{"memberId":"` + member.ID + `"}`)
		req := createRequestWithSession(t, http.MethodPost, "/api/v1/team/remove", body, user, token)
		rec := httptest.NewRecorder()
		handler.Remove(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
