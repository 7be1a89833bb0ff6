package oauth

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"taskclient/internal/pipeline"
)

// Registry maps registration ids to token sources.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]TokenSource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]TokenSource),
	}
}

// Register adds or replaces the source for a registration id.
func (r *Registry) Register(id string, source TokenSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[id] = source
}

// Source returns the token source for a registration id.
func (r *Registry) Source(id string) (TokenSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("unknown OAuth2 registration %q", id)
	}
	return source, nil
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AuthorizeRequests returns a pipeline option that sets
// "Authorization: Bearer <token>" on every outgoing request. A failure to
// obtain a token aborts the request before it is sent.
func AuthorizeRequests(source TokenSource) pipeline.Option {
	return pipeline.WithRequestDecorator(func(req *http.Request) error {
		token, err := source.Token(req.Context())
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", token.AuthorizationHeader())
		return nil
	})
}
