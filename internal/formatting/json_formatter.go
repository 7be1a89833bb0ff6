package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

func (f *JSONFormatter) FormatTask(w io.Writer, t task.Task) error {
	return f.write(w, t)
}

func (f *JSONFormatter) FormatTokens(w io.Writer, tokens []*oauth.Token) error {
	return f.write(w, tokenStatuses(tokens))
}

func (f *JSONFormatter) write(w io.Writer, data interface{}) error {
	if !f.options.Quiet {
		_, err := fmt.Fprintln(w, PrettyJSON(data))
		return err
	}

	// Compact JSON for quiet mode
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
