package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertlark/listenlog/internal/shared"
)

func newTestSession(t *testing.T, tokenURL string) *AuthSession {
	t.Helper()
	session, err := NewAuthSession("test_client_id", "test_client_secret", "https://localhost:8888/callback", "user-read-recently-played")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if tokenURL != "" {
		session.config.Endpoint.TokenURL = tokenURL
	}
	return session
}

func TestAuthSession(t *testing.T) {
	t.Run("NewAuthSession", func(t *testing.T) {
		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewAuthSession("", "secret", "", "")
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewAuthSession("id", "", "", "")
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Starts Unauthenticated", func(t *testing.T) {
			session := newTestSession(t, "")
			if session.State() != StateUnauthenticated {
				t.Errorf("expected unauthenticated state, got %v", session.State())
			}
		})
	})

	t.Run("BeginAuthorization", func(t *testing.T) {
		session := newTestSession(t, "")
		req := session.BeginAuthorization()

		if session.State() != StateAwaitingAuthorization {
			t.Errorf("expected awaiting_authorization, got %v", session.State())
		}
		if req.State == "" {
			t.Error("expected non-empty state token")
		}
		if !strings.Contains(req.URL, "accounts.spotify.com") {
			t.Error("auth URL should contain provider domain")
		}
		if !strings.Contains(req.URL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(req.URL, req.State) {
			t.Error("auth URL should contain the state token")
		}
	})

	t.Run("CompleteAuthorization", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"access_token":"tok123","token_type":"Bearer","scope":"user-read-recently-played","expires_in":3600,"refresh_token":"ref456"}`)
			}))
			defer ts.Close()

			session := newTestSession(t, ts.URL)
			req := session.BeginAuthorization()

			redirect := fmt.Sprintf("https://localhost:8888/callback?code=authcode&state=%s", req.State)
			cred, err := session.CompleteAuthorization(context.Background(), redirect)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if cred.AccessToken != "tok123" {
				t.Errorf("expected access token 'tok123', got %q", cred.AccessToken)
			}
			if cred.RefreshToken != "ref456" {
				t.Errorf("expected refresh token 'ref456', got %q", cred.RefreshToken)
			}
			if cred.Scope != "user-read-recently-played" {
				t.Errorf("unexpected scope %q", cred.Scope)
			}
			if session.State() != StateAuthenticated {
				t.Errorf("expected authenticated state, got %v", session.State())
			}
		})

		t.Run("Empty Token Body Fails", func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{}`)
			}))
			defer ts.Close()

			session := newTestSession(t, ts.URL)
			req := session.BeginAuthorization()

			redirect := fmt.Sprintf("https://localhost:8888/callback?code=authcode&state=%s", req.State)
			_, err := session.CompleteAuthorization(context.Background(), redirect)
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if session.State() != StateFailed {
				t.Errorf("expected failed state, got %v", session.State())
			}
		})

		t.Run("Non-2xx Token Response Fails", func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			}))
			defer ts.Close()

			session := newTestSession(t, ts.URL)
			req := session.BeginAuthorization()

			redirect := fmt.Sprintf("https://localhost:8888/callback?code=bad&state=%s", req.State)
			_, err := session.CompleteAuthorization(context.Background(), redirect)
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if session.State() != StateFailed {
				t.Errorf("expected failed state, got %v", session.State())
			}
		})

		t.Run("State Mismatch Fails", func(t *testing.T) {
			session := newTestSession(t, "")
			session.BeginAuthorization()

			_, err := session.CompleteAuthorization(context.Background(), "https://localhost:8888/callback?code=authcode&state=forged")
			if !errors.Is(err, shared.ErrStateMismatch) {
				t.Errorf("expected ErrStateMismatch, got %v", err)
			}
			if session.State() != StateFailed {
				t.Errorf("expected failed state, got %v", session.State())
			}
		})

		t.Run("Provider Error Parameter Fails", func(t *testing.T) {
			session := newTestSession(t, "")
			req := session.BeginAuthorization()

			redirect := fmt.Sprintf("https://localhost:8888/callback?error=access_denied&state=%s", req.State)
			_, err := session.CompleteAuthorization(context.Background(), redirect)
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("Failed Session Is Not Reusable", func(t *testing.T) {
			session := newTestSession(t, "")
			session.BeginAuthorization()

			if _, err := session.CompleteAuthorization(context.Background(), "https://localhost:8888/callback?code=c&state=forged"); err == nil {
				t.Fatal("expected first completion to fail")
			}

			_, err := session.CompleteWithCode(context.Background(), "c", "s")
			if !errors.Is(err, shared.ErrSessionConsumed) {
				t.Errorf("expected ErrSessionConsumed, got %v", err)
			}
		})

		t.Run("Before BeginAuthorization Fails", func(t *testing.T) {
			session := newTestSession(t, "")
			_, err := session.CompleteWithCode(context.Background(), "code", "state")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})

	t.Run("Close Discards Credential", func(t *testing.T) {
		session := newTestSession(t, "")
		session.credential = Credential{AccessToken: "tok"}
		session.status = StateAuthenticated

		session.Close()
		if session.Credential().Valid() {
			t.Error("expected credential to be discarded")
		}
	})
}

func TestCredentialValid(t *testing.T) {
	if (Credential{}).Valid() {
		t.Error("empty credential must be invalid")
	}
	if !(Credential{AccessToken: "tok"}).Valid() {
		t.Error("credential with token must be valid")
	}
}
