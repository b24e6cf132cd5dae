package domain

import "time"

// Credentials is the OAuth2 material loaded from the credentials file. It is
// read once at startup and never mutated afterwards.
type Credentials struct {
	Token        string
	RefreshToken string
	TokenURI     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Expiry       time.Time
}

func (c Credentials) MissingFields() []string {
	var missing []string
	if c.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if c.TokenURI == "" {
		missing = append(missing, "token_uri")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	return missing
}
