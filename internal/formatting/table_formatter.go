package formatting

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"taskclient/internal/oauth"
	"taskclient/internal/task"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatTask prints the task as a two column field/value table.
func (f *TableFormatter) FormatTask(w io.Writer, t task.Task) error {
	tw := f.createTable(w)
	tw.AppendHeader(table.Row{f.header("FIELD"), f.header("VALUE")})
	tw.AppendRows([]table.Row{
		{f.key("ID"), t.ID},
		{f.key("Title"), t.Title},
		{f.key("Description"), t.Description},
	})
	tw.Render()
	return nil
}

// FormatTokens prints one row per cached token.
func (f *TableFormatter) FormatTokens(w io.Writer, tokens []*oauth.Token) error {
	if len(tokens) == 0 {
		_, err := fmt.Fprintln(w, f.colorize(text.FgYellow, "No cached tokens"))
		return err
	}

	tw := f.createTable(w)
	tw.AppendHeader(table.Row{
		f.header("REGISTRATION"),
		f.header("TYPE"),
		f.header("TOKEN"),
		f.header("EXPIRES"),
		f.header("STATUS"),
	})

	for _, tok := range tokens {
		status := NewTokenStatus(tok)

		expires := "never"
		if status.ExpiresAt != nil {
			expires = status.ExpiresAt.Format(time.RFC3339)
		}

		state := f.colorize(text.FgGreen, "valid")
		if !status.Valid {
			state = f.colorize(text.FgRed, "expired")
		}

		tw.AppendRow(table.Row{status.Registration, status.TokenType, status.Token.String(), expires, state})
	}

	tw.Render()
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f.options.Quiet {
		t.SetStyle(table.StyleLight)
		t.Style().Options.DrawBorder = false
		t.Style().Options.SeparateColumns = false
		t.Style().Options.SeparateHeader = false
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func (f *TableFormatter) header(s string) string {
	return f.colorize(text.FgHiCyan, s)
}

func (f *TableFormatter) key(s string) string {
	return f.colorize(text.FgHiCyan, s)
}

func (f *TableFormatter) colorize(color text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return color.Sprint(s)
}
