package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"taskclient/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for token endpoint requests.
const DefaultHTTPTimeout = 30 * time.Second

// TokenSource yields a valid bearer token, acquiring one when needed.
type TokenSource interface {
	Token(ctx context.Context) (*Token, error)
}

// AcquireError reports a failed token request for a registration.
type AcquireError struct {
	Registration string
	Err          error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("failed to acquire token for registration %q: %v", e.Registration, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// StatusCode returns the token endpoint's HTTP status when it answered with
// an OAuth2 error, or 0 otherwise.
func (e *AcquireError) StatusCode() int {
	var re *oauth2.RetrieveError
	if errors.As(e.Err, &re) && re.Response != nil {
		return re.Response.StatusCode
	}
	return 0
}

// SourceOption configures a ClientCredentialsSource.
type SourceOption func(*ClientCredentialsSource)

// WithHTTPClient sets the client used to call the token endpoint.
func WithHTTPClient(httpClient *http.Client) SourceOption {
	return func(s *ClientCredentialsSource) {
		s.httpClient = httpClient
	}
}

// WithTokenStore sets the cache shared by sources. Defaults to a private MemoryTokenStore.
func WithTokenStore(store TokenStore) SourceOption {
	return func(s *ClientCredentialsSource) {
		s.store = store
	}
}

// WithExpiryMargin sets how long before expiry a cached token is replaced.
func WithExpiryMargin(margin time.Duration) SourceOption {
	return func(s *ClientCredentialsSource) {
		s.margin = margin
	}
}

// ClientCredentialsSource acquires tokens with the OAuth2 client-credentials
// grant and caches them until they are about to expire.
//
// Concurrent callers that miss the cache share a single token request.
type ClientCredentialsSource struct {
	registration Registration
	config       clientcredentials.Config
	httpClient   *http.Client
	store        TokenStore
	margin       time.Duration

	acquireGroup singleflight.Group
}

// NewClientCredentialsSource creates a token source for the registration.
func NewClientCredentialsSource(reg Registration, opts ...SourceOption) (*ClientCredentialsSource, error) {
	if reg.ID == "" {
		return nil, errors.New("registration id is required")
	}
	if reg.TokenURL == "" {
		return nil, fmt.Errorf("registration %q: token URL is required", reg.ID)
	}
	if reg.ClientID == "" {
		return nil, fmt.Errorf("registration %q: client id is required", reg.ID)
	}

	s := &ClientCredentialsSource{
		registration: reg,
		config: clientcredentials.Config{
			ClientID:     reg.ClientID,
			ClientSecret: reg.ClientSecret,
			TokenURL:     reg.TokenURL,
			Scopes:       reg.Scopes,
			AuthStyle:    reg.AuthStyle,
		},
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		margin:     DefaultExpiryMargin,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = NewMemoryTokenStore()
	}
	return s, nil
}

// Registration returns the registration this source serves.
func (s *ClientCredentialsSource) Registration() Registration {
	return s.registration
}

// Token returns the cached token or acquires a new one.
func (s *ClientCredentialsSource) Token(ctx context.Context) (*Token, error) {
	if token := s.store.Get(s.registration.ID, s.margin); token != nil {
		return token, nil
	}

	result, err, shared := s.acquireGroup.Do(s.registration.ID, func() (interface{}, error) {
		// another caller may have finished acquiring while we waited
		if token := s.store.Get(s.registration.ID, s.margin); token != nil {
			return token, nil
		}
		return s.acquire(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug("OAuth", "Shared in-flight token request for registration=%s", s.registration.ID)
	}
	return result.(*Token), nil
}

// Invalidate drops the cached token so the next call acquires a fresh one.
func (s *ClientCredentialsSource) Invalidate() error {
	return s.store.Delete(s.registration.ID)
}

func (s *ClientCredentialsSource) acquire(ctx context.Context) (*Token, error) {
	logging.Debug("OAuth", "Requesting token for registration=%s from %s", s.registration.ID, s.registration.TokenURL)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.config.Token(ctx)
	if err != nil {
		acquireErr := &AcquireError{Registration: s.registration.ID, Err: err}
		logging.Error("OAuth", err, "Token request failed for registration=%s", s.registration.ID)
		return nil, acquireErr
	}

	token := tokenFromOAuth2(s.registration.ID, tok)
	if err := s.store.Store(s.registration.ID, token); err != nil {
		// the token is still usable for this call
		logging.Warn("OAuth", "Failed to cache token for registration=%s: %v", s.registration.ID, err)
	}

	logging.Info("OAuth", "Acquired token for registration=%s (expires: %v)", s.registration.ID, token.ExpiresAt)
	return token, nil
}
