package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertlark/listenlog/internal/shared"
	"golang.org/x/oauth2"
)

// SessionState tracks where an [AuthSession] is in the authorization-code
// flow.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAwaitingAuthorization
	StateAuthenticated
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAwaitingAuthorization:
		return "awaiting_authorization"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AuthSession manages one OAuth2 authorization-code exchange and owns the
// resulting [Credential] for the run.
//
// The lifecycle is Unauthenticated → AwaitingAuthorization → Authenticated,
// with Failed as a terminal state: a failed session must not be reused.
// Success is only ever inferred from a non-empty access token, never from
// the absence of an error.
type AuthSession struct {
	config     *oauth2.Config
	state      string
	status     SessionState
	credential Credential
}

// NewAuthSession creates a session for the given application credentials.
// Missing client id or secret is a configuration error, surfaced before any
// network activity.
func NewAuthSession(clientID, clientSecret, redirectURI, scope string) (*AuthSession, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret are required", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		redirectURI = "https://localhost:8888/callback"
	}
	if scope == "" {
		scope = "user-read-recently-played"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       strings.Fields(scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
			// Spotify's token endpoint wants client-secret basic auth
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &AuthSession{config: config, status: StateUnauthenticated}, nil
}

// State returns the session's current lifecycle state.
func (s *AuthSession) State() SessionState {
	return s.status
}

// Credential returns the credential acquired by the session. Only valid
// after a successful [AuthSession.CompleteAuthorization].
func (s *AuthSession) Credential() Credential {
	return s.credential
}

// BeginAuthorization builds the provider authorization URL with a fresh
// state token. No network side effect beyond URL construction.
func (s *AuthSession) BeginAuthorization() AuthorizationRequest {
	s.state = shared.GenerateID()
	s.status = StateAwaitingAuthorization

	return AuthorizationRequest{
		URL:   s.config.AuthCodeURL(s.state),
		State: s.state,
	}
}

// CompleteAuthorization parses the full redirect URL pasted back by the
// operator, validates its state parameter, and exchanges the embedded
// authorization code for a [Credential].
func (s *AuthSession) CompleteAuthorization(ctx context.Context, redirectResponse string) (Credential, error) {
	code, state, err := parseRedirect(redirectResponse)
	if err != nil {
		return s.fail(err)
	}

	return s.CompleteWithCode(ctx, code, state)
}

// CompleteWithCode exchanges an already-extracted authorization code.
// Used directly by the local callback listener, which receives code and
// state as separate query parameters.
func (s *AuthSession) CompleteWithCode(ctx context.Context, code, state string) (Credential, error) {
	switch s.status {
	case StateAwaitingAuthorization:
	case StateFailed:
		return Credential{}, shared.ErrSessionConsumed
	default:
		return s.fail(fmt.Errorf("%w: authorization not started", shared.ErrAuthFailed))
	}

	if state != s.state {
		return s.fail(shared.ErrStateMismatch)
	}
	if code == "" {
		return s.fail(fmt.Errorf("%w: redirect carried no authorization code", shared.ErrAuthFailed))
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return s.fail(fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err))
	}

	// An exchange that "succeeds" without a token is still a failure.
	if token == nil || token.AccessToken == "" {
		return s.fail(fmt.Errorf("%w: token endpoint returned no access token", shared.ErrAuthFailed))
	}

	cred := Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		cred.Scope = scope
	}

	s.credential = cred
	s.status = StateAuthenticated
	return cred, nil
}

// Close discards the session's credential. Deferred by callers so the
// token does not outlive the run on any exit path.
func (s *AuthSession) Close() {
	s.credential = Credential{}
	if s.status != StateFailed {
		s.status = StateUnauthenticated
	}
}

func (s *AuthSession) fail(err error) (Credential, error) {
	s.status = StateFailed
	s.credential = Credential{}
	return Credential{}, err
}

// parseRedirect extracts the code and state query parameters from a pasted
// redirect URL. A provider error parameter takes precedence over a missing
// code.
func parseRedirect(redirectResponse string) (code, state string, err error) {
	u, err := url.Parse(strings.TrimSpace(redirectResponse))
	if err != nil {
		return "", "", fmt.Errorf("%w: malformed redirect URL: %v", shared.ErrInvalidInput, err)
	}

	q := u.Query()
	if errParam := q.Get("error"); errParam != "" {
		return "", "", fmt.Errorf("%w: provider returned %q", shared.ErrAuthFailed, errParam)
	}

	return q.Get("code"), q.Get("state"), nil
}
