/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubreconciler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"golang.org/x/oauth2"
)

// NewStaticTokenSource returns a token source for a personal access token.
func NewStaticTokenSource(token string) (oauth2.TokenSource, error) {
	if token == "" {
		return nil, errors.New("token cannot be empty")
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), nil
}

// NewAppTokenSource returns a token source minting GitHub App installation
// tokens. privateKey is the PEM-encoded App key.
func NewAppTokenSource(appID, installationID int64, privateKey []byte) (oauth2.TokenSource, error) {
	switch {
	case appID == 0:
		return nil, errors.New("app ID cannot be zero")
	case installationID == 0:
		return nil, errors.New("installation ID cannot be zero")
	case len(privateKey) == 0:
		return nil, errors.New("private key cannot be empty")
	}
	tr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	// Installation tokens last an hour; reuse them until they are close to expiry.
	return oauth2.ReuseTokenSource(nil, installationTokenSource{tr: tr}), nil
}

type installationTokenSource struct {
	tr *ghinstallation.Transport
}

func (s installationTokenSource) Token() (*oauth2.Token, error) {
	ctx := context.Background()
	tok, err := s.tr.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("minting installation token: %w", err)
	}
	expiry, _, err := s.tr.Expiry()
	if err != nil {
		return nil, fmt.Errorf("reading installation token expiry: %w", err)
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "token", Expiry: expiry}, nil
}
