package task

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"taskclient/internal/oauth"
	"taskclient/pkg/logging"
)

const testAccessToken = "NTUxNjdiODUtMGE3Yy00OTFkLWI0NDUtNzdiMjdjYmM5YTI2"

type recordedRequest struct {
	path   string
	query  string
	header http.Header
}

// taskAPI is a fake combining the OAuth2 token endpoint and the task endpoint.
type taskAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recordedRequest

	taskStatus int
	taskBody   string
	tokenFails bool
}

func newTaskAPI(t *testing.T, status int, body string) *taskAPI {
	t.Helper()
	api := &taskAPI{taskStatus: status, taskBody: body}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		if api.tokenFails {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"` + testAccessToken + `","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/task", func(w http.ResponseWriter, r *http.Request) {
		api.record(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(api.taskStatus)
		_, _ = w.Write([]byte(api.taskBody))
	})

	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *taskAPI) record(r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requests = append(a.requests, recordedRequest{path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone()})
}

func (a *taskAPI) recorded() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recordedRequest(nil), a.requests...)
}

// newService wires the service the way the application does: a
// client-credentials token source authorizing requests on a client that
// intercepts task API errors.
func (a *taskAPI) newService(t *testing.T) *Service {
	t.Helper()
	source, err := oauth.NewClientCredentialsSource(oauth.Registration{
		ID:           oauth.DefaultRegistrationID,
		ClientID:     "task-api",
		ClientSecret: "task-api-secret-test",
		TokenURL:     a.server.URL + "/api/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInHeader,
	}, oauth.WithHTTPClient(a.server.Client()))
	require.NoError(t, err)

	client := NewHTTPClient(a.server.Client().Transport, 5*time.Second, oauth.AuthorizeRequests(source))
	service, err := NewService(a.server.URL+"/api/task", client, nil)
	require.NoError(t, err)
	return service
}

const validTaskBody = `{"data":{"type":"task","id":"TSTDT-77385","details":{"title":"Implement tests for response handling","desc":"TBA"}}}`

func TestService_Fetch_Success(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, validTaskBody)
	service := api.newService(t)

	task, err := service.Fetch(context.Background(), "TSTDT-77385")
	require.NoError(t, err)
	assert.Equal(t, Task{
		ID:          "TSTDT-77385",
		Title:       "Implement tests for response handling",
		Description: "TBA",
	}, task)

	requests := api.recorded()
	require.Len(t, requests, 2, "one token request and one task request")
	assert.Equal(t, "/api/oauth2/token", requests[0].path)
	assert.Equal(t, "/api/task", requests[1].path)
	assert.Equal(t, "id=TSTDT-77385", requests[1].query)
	assert.Equal(t, "application/json", requests[1].header.Get("Accept"))
	assert.Equal(t, "Bearer "+testAccessToken, requests[1].header.Get("Authorization"))

	_, err = uuid.Parse(requests[1].header.Get(RequestIDHeader))
	assert.NoError(t, err, "request id header must be a UUID")
}

func TestService_Fetch_LogsRequestIDWithEnvelopeIDs(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelDebug, &buf)
	defer logging.InitForCLI(logging.LevelWarn, io.Discard)

	api := newTaskAPI(t, http.StatusOK,
		`{"response_id":"RESP-1","request_id":"REQ-1","data":{"type":"task","id":"TSTDT-77385","details":{"title":"t","desc":"d"}}}`)
	service := api.newService(t)

	_, err := service.Fetch(context.Background(), "TSTDT-77385")
	require.NoError(t, err)

	requestID := api.recorded()[1].header.Get(RequestIDHeader)
	var line string
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, "Task response received") {
			line = l
		}
	}
	require.NotEmpty(t, line)
	assert.Contains(t, line, RequestIDHeader+"="+requestID)
	assert.Contains(t, line, "request_id=REQ-1")
	assert.Contains(t, line, "response_id=RESP-1")
}

func TestService_Fetch_ReusesCachedToken(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, validTaskBody)
	service := api.newService(t)

	for i := 0; i < 3; i++ {
		_, err := service.Fetch(context.Background(), "TSTDT-77385")
		require.NoError(t, err)
	}

	requests := api.recorded()
	require.Len(t, requests, 4)
	assert.Equal(t, "/api/oauth2/token", requests[0].path)
	for _, r := range requests[1:] {
		assert.Equal(t, "/api/task", r.path)
	}
}

func TestService_Fetch_ErrorStatus(t *testing.T) {
	api := newTaskAPI(t, http.StatusBadRequest, "Something went wrong... we have no idea how to help you")
	service := api.newService(t)

	_, err := service.Fetch(context.Background(), "TSTDT-77385")
	require.Error(t, err)

	var handlingErr *HandlingError
	require.True(t, errors.As(err, &handlingErr))
	assert.Contains(t, handlingErr.Message, "statusCode=400")
	assert.Contains(t, handlingErr.Message, "Something went wrong... we have no idea how to help you")
}

func TestService_Fetch_UnsupportedEntryType(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, `{"data":{"type":"incident","id":"INC-1","details":{"title":"Outage","desc":"TBA"}}}`)
	service := api.newService(t)

	_, err := service.Fetch(context.Background(), "INC-1")
	require.Error(t, err)
	assert.True(t, IsHandlingError(err))
	assert.Contains(t, err.Error(), "Unsupported entry type: 'incident', 'task' expected")
}

func TestService_Fetch_EmptyBody(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, "")
	service := api.newService(t)

	_, err := service.Fetch(context.Background(), "TSTDT-77385")
	require.Error(t, err)
	assert.True(t, IsHandlingError(err))
	assert.Equal(t, "No data found in response", err.Error())
}

func TestService_Fetch_MalformedBody(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, `{"data":`)
	service := api.newService(t)

	_, err := service.Fetch(context.Background(), "TSTDT-77385")
	require.Error(t, err)
	assert.False(t, IsHandlingError(err))
	assert.Contains(t, err.Error(), "failed to decode task response")
}

func TestService_Fetch_TokenFailureIsNotHandlingError(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, validTaskBody)
	api.tokenFails = true
	service := api.newService(t)

	_, err := service.Fetch(context.Background(), "TSTDT-77385")
	require.Error(t, err)
	assert.False(t, IsHandlingError(err))

	var acquireErr *oauth.AcquireError
	require.True(t, errors.As(err, &acquireErr))
	assert.Equal(t, http.StatusUnauthorized, acquireErr.StatusCode())

	for _, r := range api.recorded() {
		assert.NotEqual(t, "/api/task", r.path, "task endpoint must not be called without a token")
	}
}

func TestService_FetchAsync(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, validTaskBody)
	service := api.newService(t)

	results := service.FetchAsync(context.Background(), "TSTDT-77385")

	select {
	case result, ok := <-results:
		require.True(t, ok)
		require.NoError(t, result.Err)
		assert.Equal(t, "TSTDT-77385", result.Task.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fetch result")
	}

	_, ok := <-results
	assert.False(t, ok, "channel must be closed after the single result")
}

func TestService_FetchAsync_Concurrent(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, validTaskBody)
	service := api.newService(t)

	channels := make([]<-chan Result, 5)
	for i := range channels {
		channels[i] = service.FetchAsync(context.Background(), "TSTDT-77385")
	}
	for _, ch := range channels {
		result := <-ch
		require.NoError(t, result.Err)
	}

	tokenCalls := 0
	for _, r := range api.recorded() {
		if r.path == "/api/oauth2/token" {
			tokenCalls++
		}
	}
	assert.Equal(t, 1, tokenCalls)
}

func TestNewService_Validation(t *testing.T) {
	client := &http.Client{}

	_, err := NewService("/relative", client, nil)
	assert.ErrorContains(t, err, "URL must be absolute")

	_, err = NewService("http://[::1", client, nil)
	assert.Error(t, err)

	_, err = NewService("http://localhost/api/task", nil, nil)
	assert.ErrorContains(t, err, "client is required")
}

func TestService_Fetch_CanceledContext(t *testing.T) {
	api := newTaskAPI(t, http.StatusOK, validTaskBody)
	service := api.newService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Fetch(ctx, "TSTDT-77385")
	require.Error(t, err)
	assert.False(t, IsHandlingError(err))
	assert.True(t, errors.Is(err, context.Canceled))
}
