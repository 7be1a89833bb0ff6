// Package logging provides subsystem-tagged structured logging for taskclient.
//
// The package wraps Go's log/slog with printf-style helpers. Every entry carries
// a "subsystem" attribute so output from the OAuth layer, the HTTP pipeline and
// the task service can be told apart.
//
// # Initialization
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	// or JSON output, e.g. when the client runs inside a batch job
//	logging.Init(logging.LevelDebug, logging.FormatJSON, os.Stderr)
//
// # Logging
//
//	logging.Info("TaskService", "Fetching task: id=%s", id)
//	logging.Debug("TaskParser", "Task parsed: id=%s, title=%s", id, title)
//	logging.Error("TaskAPI", err, "Request to task API failed")
//
// Use Enabled to skip building expensive diagnostic strings:
//
//	if logging.Enabled(logging.LevelDebug) {
//		logging.Debug("TaskParser", "Parsing response body: %s", describe(doc))
//	}
//
// Secrets must never be passed to these helpers. Wrap bearer tokens in
// oauth.RedactedToken before formatting them.
package logging
