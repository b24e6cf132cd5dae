package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/diva/internal/domain"
	"golang.org/x/oauth2"
)

// credentialsSchema mirrors the file written by google-oauthlib-tool.
// The file is shared with other tools and is only ever read.
type credentialsSchema struct {
	Token        string   `json:"token,omitempty"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes,omitempty"`
	Expiry       string   `json:"expiry,omitempty"`
}

// Store reads the credentials file. Refreshed tokens stay in memory.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

func (s *Store) Load(ctx context.Context) (domain.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return domain.Credentials{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read credentials file %q: %w", s.path, errors.Join(domain.ErrCredentialsNotFound, err))
	}

	return decodeCredentials(data)
}

func decodeCredentials(data []byte) (domain.Credentials, error) {
	var schema credentialsSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return domain.Credentials{}, fmt.Errorf("decode credentials: %w", errors.Join(domain.ErrInvalidCredentials, err))
	}

	creds := domain.Credentials{
		Token:        schema.Token,
		RefreshToken: strings.TrimSpace(schema.RefreshToken),
		TokenURI:     strings.TrimSpace(schema.TokenURI),
		ClientID:     strings.TrimSpace(schema.ClientID),
		ClientSecret: strings.TrimSpace(schema.ClientSecret),
		Scopes:       schema.Scopes,
	}
	if schema.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, schema.Expiry)
		if err != nil {
			return domain.Credentials{}, fmt.Errorf("parse credentials expiry: %w", errors.Join(domain.ErrInvalidCredentials, err))
		}
		creds.Expiry = expiry
	}

	if missing := creds.MissingFields(); len(missing) > 0 {
		return domain.Credentials{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidCredentials, strings.Join(missing, ", "))
	}

	return creds, nil
}

// OAuth2Config builds the refresh configuration described by creds.
func OAuth2Config(creds domain.Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  creds.TokenURI,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: creds.Scopes,
	}
}

// TokenSource returns a reusable source that refreshes the access token as needed.
// A stored access token is only reused when its expiry is known, since x/oauth2
// treats a zero expiry as never expiring. Otherwise a fresh token is fetched on
// first use.
func TokenSource(ctx context.Context, creds domain.Credentials) oauth2.TokenSource {
	token := &oauth2.Token{
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
	}
	if creds.Token != "" && !creds.Expiry.IsZero() {
		token.AccessToken = creds.Token
		token.Expiry = creds.Expiry
	}
	return OAuth2Config(creds).TokenSource(ctx, token)
}
