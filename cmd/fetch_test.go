package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskclient/internal/task"
)

// newTaskAPIConfig starts a fake token endpoint and task API and writes a
// config file pointing at it. taskStatus and taskBody shape the task response.
func newTaskAPIConfig(t *testing.T, taskStatus int, taskBody string) (configPath, cachePath string) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"cli-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/task", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cli-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(taskStatus)
		_, _ = w.Write([]byte(taskBody))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	cachePath = filepath.Join(dir, "tokens.db")
	configPath = filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
taskApi:
  endpoint: %[1]s/api/task
oauth2:
  registrations:
    task-api-client:
      clientId: task-api
      clientSecret: task-api-secret-test
      tokenUrl: %[1]s/api/oauth2/token
tokenCache:
  path: %[2]q
`, server.URL, cachePath)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))
	return configPath, cachePath
}

const cliTaskBody = `{"data":{"type":"task","id":"TSTDT-77385","details":{"title":"Implement tests for response handling","desc":"TBA"}}}`

func TestFetchCommand_JSON(t *testing.T) {
	configPath, _ := newTaskAPIConfig(t, http.StatusOK, cliTaskBody)

	stdout, _, err := executeCommand(t, "--config", configPath, "fetch", "TSTDT-77385", "-o", "json", "-q")
	require.NoError(t, err)

	var got task.Task
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, task.Task{ID: "TSTDT-77385", Title: "Implement tests for response handling", Description: "TBA"}, got)
}

func TestFetchCommand_Template(t *testing.T) {
	configPath, _ := newTaskAPIConfig(t, http.StatusOK, cliTaskBody)

	stdout, _, err := executeCommand(t, "--config", configPath, "fetch", "TSTDT-77385", "-q",
		"--template", "{{ .ID }} {{ .Description | lower }}")
	require.NoError(t, err)
	assert.Equal(t, "TSTDT-77385 tba\n", stdout)
}

func TestFetchCommand_Table(t *testing.T) {
	configPath, _ := newTaskAPIConfig(t, http.StatusOK, cliTaskBody)

	stdout, _, err := executeCommand(t, "--config", configPath, "fetch", "TSTDT-77385", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Implement tests for response handling")
}

func TestFetchCommand_Errors(t *testing.T) {
	configPath, _ := newTaskAPIConfig(t, http.StatusBadRequest, "Something went wrong... we have no idea how to help you")

	_, _, err := executeCommand(t, "--config", configPath, "fetch", "TSTDT-77385", "-q")
	require.Error(t, err)
	assert.Equal(t, ExitCodeTaskError, getExitCode(err))
	assert.Contains(t, err.Error(), "statusCode=400")

	_, _, err = executeCommand(t, "--config", configPath, "fetch", "TSTDT-77385", "-q", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")

	_, _, err = executeCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "fetch", "X", "-q")
	require.Error(t, err)
	assert.Equal(t, ExitCodeConfigError, getExitCode(err))

	_, _, err = executeCommand(t, "--config", configPath, "fetch")
	assert.Error(t, err, "task id is required")
}

func TestFetchCommand_EndpointFlagOverridesConfig(t *testing.T) {
	configPath, _ := newTaskAPIConfig(t, http.StatusOK, cliTaskBody)

	_, _, err := executeCommand(t, "--config", configPath, "--endpoint", "not a url", "fetch", "TSTDT-77385", "-q")
	require.Error(t, err)
	assert.Equal(t, ExitCodeConfigError, getExitCode(err))
}

func TestTokenCommands(t *testing.T) {
	configPath, _ := newTaskAPIConfig(t, http.StatusOK, cliTaskBody)

	stdout, _, err := executeCommand(t, "--config", configPath, "token", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"registration": "task-api-client"`)
	assert.Contains(t, stdout, `"token": "[REDACTED]"`)
	assert.NotContains(t, stdout, "cli-token")

	stdout, _, err = executeCommand(t, "--config", configPath, "token", "list", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stdout, "task-api-client")
	assert.NotContains(t, stdout, "cli-token")

	stdout, _, err = executeCommand(t, "--config", configPath, "token", "clear", "--registration", "task-api-client")
	require.NoError(t, err)
	assert.Equal(t, "Cleared cached token for task-api-client\n", stdout)

	stdout, _, err = executeCommand(t, "--config", configPath, "token", "list", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "No cached tokens\n", stdout)

	stdout, _, err = executeCommand(t, "--config", configPath, "token", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Cleared all cached tokens\n", stdout)
}
