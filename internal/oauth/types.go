package oauth

import (
	"time"

	"golang.org/x/oauth2"
)

// DefaultExpiryMargin is subtracted from a token's expiry when deciding
// whether a cached token can still be used.
const DefaultExpiryMargin = 30 * time.Second

// DefaultRegistrationID is the registration used for the task API when none is configured.
const DefaultRegistrationID = "task-api-client"

// Registration is a named OAuth2 client-credentials configuration.
type Registration struct {
	// ID selects the registration, e.g. "task-api-client".
	ID string

	// ClientID and ClientSecret identify the client at the token endpoint.
	// The secret must never be logged.
	ClientID     string
	ClientSecret string

	// TokenURL is the token endpoint.
	TokenURL string

	// Scopes requested with every token request (optional).
	Scopes []string

	// AuthStyle controls how client credentials are sent. The zero value
	// lets x/oauth2 probe the endpoint.
	AuthStyle oauth2.AuthStyle
}

// Token is a bearer token acquired for a registration.
type Token struct {
	// AccessToken is the bearer token used for authorization.
	AccessToken string `json:"access_token"`

	// TokenType is typically "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// ExpiresAt is when the token expires. Zero means no expiry was reported.
	ExpiresAt time.Time `json:"expires_at,omitempty"`

	// Registration is the id of the registration the token was issued for.
	Registration string `json:"registration"`

	// ObtainedAt is when the token endpoint returned this token.
	ObtainedAt time.Time `json:"obtained_at"`
}

// IsExpired checks if the token has expired.
// Returns true if the token is expired or will expire within the given margin.
func (t *Token) IsExpired(margin time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false // Tokens without expiration don't expire
	}
	return time.Now().Add(margin).After(t.ExpiresAt)
}

// AuthorizationHeader returns the value for the Authorization request header.
func (t *Token) AuthorizationHeader() string {
	return "Bearer " + t.AccessToken
}

// Redacted wraps the access token so it can be passed to loggers.
func (t *Token) Redacted() RedactedToken {
	return NewRedactedToken(t.AccessToken)
}

// tokenFromOAuth2 converts a token returned by x/oauth2.
func tokenFromOAuth2(registration string, tok *oauth2.Token) *Token {
	return &Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.Type(),
		ExpiresAt:    tok.Expiry,
		Registration: registration,
		ObtainedAt:   time.Now(),
	}
}

// RedactedToken wraps a sensitive token string to prevent accidental logging.
// All formatting and marshalling paths print "[REDACTED]".
type RedactedToken struct {
	value string
}

// NewRedactedToken creates a new RedactedToken wrapping the given value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the actual token value. Never log the result.
func (t RedactedToken) Value() string {
	return t.value
}

func (t RedactedToken) String() string {
	return "[REDACTED]"
}

func (t RedactedToken) GoString() string {
	return "oauth.RedactedToken{[REDACTED]}"
}

// IsEmpty returns true if the token value is empty.
func (t RedactedToken) IsEmpty() bool {
	return t.value == ""
}

func (t RedactedToken) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}
