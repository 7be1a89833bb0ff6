package formatting

import (
	"errors"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// TemplateFormatter renders data through a user supplied Go template. The
// sprig function library is available, e.g. {{ .Title | upper }}.
type TemplateFormatter struct {
	options Options
	tmpl    *template.Template
}

// NewTemplateFormatter parses options.Template.
func NewTemplateFormatter(options Options) (Formatter, error) {
	if options.Template == "" {
		return nil, errors.New("template output requires a template")
	}

	tmpl, err := template.New("output").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(options.Template)
	if err != nil {
		return nil, fmt.Errorf("invalid output template: %w", err)
	}

	return &TemplateFormatter{options: options, tmpl: tmpl}, nil
}

// FormatTask executes the template with the task as dot.
func (f *TemplateFormatter) FormatTask(w io.Writer, t task.Task) error {
	return f.execute(w, t)
}

// FormatTokens executes the template with the slice of TokenStatus as dot.
func (f *TemplateFormatter) FormatTokens(w io.Writer, tokens []*oauth.Token) error {
	return f.execute(w, tokenStatuses(tokens))
}

func (f *TemplateFormatter) execute(w io.Writer, data interface{}) error {
	if err := f.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render output template: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}
