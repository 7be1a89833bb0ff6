// Package app wires configuration, secrets, token caching and the task API
// client into a single Application used by the CLI commands.
package app
