// Package pipeline composes outbound HTTP behaviour as ordered lists of
// request decorators and response interceptors on top of an http.RoundTripper.
//
// A client built from a pipeline runs every decorator, in order, before the
// request is dispatched and every interceptor, in order, on the response
// before it is handed back to the caller:
//
//	client := &http.Client{Transport: pipeline.New(http.DefaultTransport,
//		pipeline.WithRequestDecorator(setUserAgent),
//		pipeline.WithResponseInterceptor(failOnNon2xx),
//	)}
package pipeline

import (
	"fmt"
	"io"
	"net/http"
)

// RequestDecorator mutates an outgoing request before it is sent.
// The request handed in is already a private clone.
type RequestDecorator func(req *http.Request) error

// ResponseInterceptor inspects or transforms a response. Returning an error
// aborts the chain and becomes the round trip's error.
type ResponseInterceptor func(resp *http.Response) (*http.Response, error)

// Option configures a Transport.
type Option func(*Transport)

// WithRequestDecorator appends a request decorator.
func WithRequestDecorator(d RequestDecorator) Option {
	return func(t *Transport) {
		t.decorators = append(t.decorators, d)
	}
}

// WithResponseInterceptor appends a response interceptor.
func WithResponseInterceptor(i ResponseInterceptor) Option {
	return func(t *Transport) {
		t.interceptors = append(t.interceptors, i)
	}
}

// Transport is an http.RoundTripper that runs decorators and interceptors
// around a base transport.
type Transport struct {
	base         http.RoundTripper
	decorators   []RequestDecorator
	interceptors []ResponseInterceptor
}

// New builds a Transport around base. A nil base means http.DefaultTransport.
func New(base http.RoundTripper, opts ...Option) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{base: base}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.decorators) > 0 {
		req = req.Clone(req.Context())
		for _, decorate := range t.decorators {
			if err := decorate(req); err != nil {
				closeRequestBody(req)
				return nil, fmt.Errorf("failed to prepare request: %w", err)
			}
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	for _, intercept := range t.interceptors {
		next, err := intercept(resp)
		if err != nil {
			// the interceptor may already have drained and closed the body
			if next != nil && next.Body != nil {
				next.Body.Close()
			} else if resp.Body != nil {
				resp.Body.Close()
			}
			return nil, err
		}
		resp = next
	}
	return resp, nil
}

func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}

// Drain reads and closes a response body, returning its content as text.
func Drain(resp *http.Response) (string, error) {
	if resp.Body == nil {
		return "", nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return string(body), fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
