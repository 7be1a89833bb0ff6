package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

func (f *YAMLFormatter) FormatTask(w io.Writer, t task.Task) error {
	return f.write(w, t)
}

func (f *YAMLFormatter) FormatTokens(w io.Writer, tokens []*oauth.Token) error {
	return f.write(w, tokenStatuses(tokens))
}

func (f *YAMLFormatter) write(w io.Writer, data interface{}) error {
	yamlBytes, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}
