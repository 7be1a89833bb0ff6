// Package formatting renders fetched tasks and cached tokens for the CLI in
// table, JSON, YAML or Go template form.
package formatting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable    OutputFormat = "table"    // Rich table output
	FormatJSON     OutputFormat = "json"     // JSON output
	FormatYAML     OutputFormat = "yaml"     // YAML output
	FormatTemplate OutputFormat = "template" // Go text/template with sprig functions
)

// Options configures the formatter behavior
type Options struct {
	Format   OutputFormat
	Template string // Template text, required for FormatTemplate
	Quiet    bool   // Compact output without decoration
	Color    bool   // Enable colored output
}

// Formatter writes tasks and token status to an output stream.
type Formatter interface {
	FormatTask(w io.Writer, t task.Task) error
	FormatTokens(w io.Writer, tokens []*oauth.Token) error
}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatTemplate:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json, yaml or template)", s)
	}
}

// New creates the formatter selected by options.
func New(options Options) (Formatter, error) {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options), nil
	case FormatYAML:
		return NewYAMLFormatter(options), nil
	case FormatTemplate:
		return NewTemplateFormatter(options)
	case FormatTable, "":
		return NewTableFormatter(options), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", options.Format)
	}
}

// TokenStatus is the printable view of a cached token. The access token
// itself is always redacted.
type TokenStatus struct {
	Registration string              `json:"registration" yaml:"registration"`
	TokenType    string              `json:"tokenType" yaml:"tokenType"`
	Token        oauth.RedactedToken `json:"token" yaml:"token"`
	ObtainedAt   time.Time           `json:"obtainedAt" yaml:"obtainedAt"`
	ExpiresAt    *time.Time          `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	Valid        bool                `json:"valid" yaml:"valid"`
}

// NewTokenStatus builds the printable view of tok.
func NewTokenStatus(tok *oauth.Token) TokenStatus {
	status := TokenStatus{
		Registration: tok.Registration,
		TokenType:    tok.TokenType,
		Token:        tok.Redacted(),
		ObtainedAt:   tok.ObtainedAt,
		Valid:        !tok.IsExpired(oauth.DefaultExpiryMargin),
	}
	if !tok.ExpiresAt.IsZero() {
		expiresAt := tok.ExpiresAt
		status.ExpiresAt = &expiresAt
	}
	return status
}

func tokenStatuses(tokens []*oauth.Token) []TokenStatus {
	statuses := make([]TokenStatus, 0, len(tokens))
	for _, tok := range tokens {
		statuses = append(statuses, NewTokenStatus(tok))
	}
	return statuses
}
