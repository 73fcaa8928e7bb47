package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertlark/listenlog/internal/server"
	"github.com/desertlark/listenlog/internal/services"
	"github.com/desertlark/listenlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Auth runs the authorization-code flow and prints the resulting access
// token. Tokens are never written to disk; pass the printed token to
// `fetch --token` to reuse it within its lifetime.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	cred, err := r.authorize(ctx, cmd.Bool("listen"), cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("Access token: %s\n", cred.AccessToken)
	if !cred.ExpiresAt.IsZero() {
		r.writePlain("Expires at:   %s\n", cred.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	}
	if cred.Scope != "" {
		r.writePlain("Scope:        %s\n", cred.Scope)
	}
	r.writePlain("\nThe token is not stored. Use it with: listenlog fetch --token <token>\n")

	return nil
}

// authorize walks one full authorization session: build the URL, hand it
// to the user, and exchange the returned code.
func (r *Runner) authorize(ctx context.Context, listen, noBrowser bool) (services.Credential, error) {
	session, err := r.newSession(listen)
	if err != nil {
		return services.Credential{}, err
	}
	defer session.Close()

	request := session.BeginAuthorization()

	r.writePlain("Visit the following URL to authorize:\n\n%s\n", request.URL)

	if !noBrowser {
		if err := shared.OpenBrowser(request.URL); err != nil {
			r.logger.Warnf("failed to open browser: %v", err)
		}
	}

	if listen {
		return r.completeWithListener(ctx, session, request.State)
	}
	return r.completeWithPaste(ctx, session)
}

// listenRedirectURI adjusts a configured redirect for listen mode. The
// callback listener serves plain HTTP, so an https scheme on a localhost
// redirect would never reach it.
func listenRedirectURI(uri string) string {
	if uri == "" {
		return "http://localhost:8888/callback"
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "https" {
		return uri
	}
	if host := u.Hostname(); host != "localhost" && host != "127.0.0.1" {
		return uri
	}

	u.Scheme = "http"
	return u.String()
}

// completeWithListener waits for the provider redirect on the configured
// local address.
func (r *Runner) completeWithListener(ctx context.Context, session *services.AuthSession, state string) (services.Credential, error) {
	listener := server.NewListener(r.config.Server.Host, r.config.Server.Port, state)
	listener.Start()

	r.writePlainln("Waiting for the redirect on %s:%d ...", r.config.Server.Host, r.config.Server.Port)

	result, err := listener.Wait(ctx)
	if err != nil {
		return services.Credential{}, err
	}

	return session.CompleteWithCode(ctx, result.Code, result.State)
}

// completeWithPaste reads the full redirect URL from the terminal.
func (r *Runner) completeWithPaste(ctx context.Context, session *services.AuthSession) (services.Credential, error) {
	r.writePlainln("After authorizing, paste the full redirect URL here:")
	r.writePlain("> ")

	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return services.Credential{}, fmt.Errorf("failed to read redirect URL: %w", err)
		}
		return services.Credential{}, fmt.Errorf("%w: no redirect URL provided", shared.ErrInvalidInput)
	}

	redirectURL := strings.TrimSpace(scanner.Text())
	return session.CompleteAuthorization(ctx, redirectURL)
}
