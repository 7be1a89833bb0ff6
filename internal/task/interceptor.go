package task

import (
	"net/http"
	"time"

	"taskclient/internal/pipeline"
	"taskclient/pkg/logging"
	textutil "taskclient/pkg/strings"
)

const maxLoggedBodyLen = 512

// InterceptErrors passes 2xx responses through untouched. Any other status
// drains the body into the error message and fails with a HandlingError.
// It has the pipeline.ResponseInterceptor signature.
func InterceptErrors(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return resp, nil
	}

	body, err := pipeline.Drain(resp)
	if err != nil {
		logging.Warn("TaskAPI", "Could not read body of failed response (status %d): %v", resp.StatusCode, err)
	}

	// the log line is abbreviated, the error keeps the full body
	logging.Error("TaskAPI", nil, "Request to task API failed: statusCode=%d, responseBody=%s",
		resp.StatusCode, textutil.Abbreviate(body, maxLoggedBodyLen))
	return nil, NewHandlingError("Request to task API failed: statusCode=%d, responseBody=%s", resp.StatusCode, body)
}

// NewHTTPClient builds the client used for task API calls. The given options
// (typically request authorization) run first and InterceptErrors is always
// installed as the last response interceptor. A zero timeout leaves the
// transport's own limits in charge.
func NewHTTPClient(base http.RoundTripper, timeout time.Duration, opts ...pipeline.Option) *http.Client {
	all := make([]pipeline.Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, pipeline.WithResponseInterceptor(InterceptErrors))

	return &http.Client{
		Transport: pipeline.New(base, all...),
		Timeout:   timeout,
	}
}
