package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sortflow/sortflow/internal/auth"
	"github.com/sortflow/sortflow/internal/crypto"
	"github.com/sortflow/sortflow/internal/mailbox"
	"github.com/sortflow/sortflow/internal/models"
	"github.com/sortflow/sortflow/internal/session"
	"github.com/sortflow/sortflow/internal/testutil"
)

// signUpUser creates an identity in the store and returns it with a live
// session token.
func signUpUser(t *testing.T, sessions *session.Store, email string) (models.User, string) {
	t.Helper()
	user, token, err := sessions.SignUp(context.Background(), email, "secret123")
	if err != nil {
		t.Fatalf("Failed to sign up %s: %v", email, err)
	}
	return user, token
}

// upgradeUser flips the identity behind the token to the pro plan.
func upgradeUser(t *testing.T, sessions *session.Store, token string) {
	t.Helper()
	if _, err := sessions.Upgrade(context.Background(), token); err != nil {
		t.Fatalf("Failed to upgrade: %v", err)
	}
}

// newTestController builds a controller over the standard seed with a frozen
// clock, so timestamps in assertions are stable.
func newTestController(t *testing.T) *mailbox.Controller {
	t.Helper()
	now := time.Date(2023, 11, 16, 12, 0, 0, 0, time.UTC)
	return mailbox.NewController(mailbox.SeedMessages(), testutil.FixedClock(now), crypto.NewMessageCodec(), nil)
}

// createRequestWithSession builds a request carrying the session token and
// email in its context, the way RequireAuth would have left them.
func createRequestWithSession(t *testing.T, method, target string, body io.Reader, user models.User, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), auth.UserEmailKey, user.Email)
	ctx = context.WithValue(ctx, auth.SessionTokenKey, token)
	return req.WithContext(ctx)
}

// jsonBody marshals v into a reader usable as a request body.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

// decodeResponse unmarshals the recorded JSON body into dst.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}
