package task

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"taskclient/internal/document"
	"taskclient/pkg/logging"
)

// RequestIDHeader carries a per-fetch correlation id to the task API.
const RequestIDHeader = "X-Request-ID"

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the single outcome delivered by FetchAsync.
type Result struct {
	Task Task
	Err  error
}

// Service fetches tasks from the remote task API.
//
// The HTTP client handed to NewService is expected to attach authorization and
// to run InterceptErrors on every response, which is what NewHTTPClient builds.
// The service never deals with tokens itself.
type Service struct {
	endpoint *url.URL
	client   Doer
	parser   *Parser
}

// NewService creates a Service calling the given endpoint URL.
func NewService(endpoint string, client Doer, parser *Parser) (*Service, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid task API endpoint %q: %w", endpoint, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid task API endpoint %q: URL must be absolute", endpoint)
	}
	if client == nil {
		return nil, errors.New("task API client is required")
	}
	if parser == nil {
		parser = NewParser()
	}

	return &Service{
		endpoint: u,
		client:   client,
		parser:   parser,
	}, nil
}

// Fetch retrieves the task with the given external id.
//
// Non-2xx responses, empty response documents and unsupported entry types fail
// with *HandlingError. Transport and token acquisition failures are returned
// wrapped, with their original type reachable through errors.As.
func (s *Service) Fetch(ctx context.Context, id string) (Task, error) {
	logging.Info("TaskService", "Fetching task: id=%s", id)

	req, err := s.newRequest(ctx, id)
	if err != nil {
		return Task{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		var handlingErr *HandlingError
		if errors.As(err, &handlingErr) {
			return Task{}, handlingErr
		}
		return Task{}, fmt.Errorf("task request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Task{}, fmt.Errorf("failed to read task response: %w", err)
	}

	doc, err := document.Parse(body)
	if err != nil {
		return Task{}, fmt.Errorf("failed to decode task response: %w", err)
	}
	if doc != nil && logging.Enabled(logging.LevelDebug) {
		logging.Debug("TaskService", "Task response received: id=%s, %s=%s, request_id=%s, response_id=%s",
			id, RequestIDHeader, req.Header.Get(RequestIDHeader), doc.Field("request_id"), doc.Field("response_id"))
	}

	return s.parser.Parse(doc)
}

// FetchAsync runs Fetch in its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func (s *Service) FetchAsync(ctx context.Context, id string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		t, err := s.Fetch(ctx, id)
		out <- Result{Task: t, Err: err}
	}()
	return out
}

func (s *Service) newRequest(ctx context.Context, id string) (*http.Request, error) {
	u := *s.endpoint
	query := u.Query()
	query.Set("id", id)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create task request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	logging.Debug("TaskService", "Dispatching task request: id=%s, %s=%s", id, RequestIDHeader, requestID)

	return req, nil
}
