package cmd

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"taskclient/internal/formatting"
	"taskclient/internal/task"
)

type outputOptions struct {
	format   string
	template string
	quiet    bool
	noColor  bool
}

func (o *outputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "output", "o", "table", "output format: table, json, yaml or template")
	cmd.Flags().StringVar(&o.template, "template", "", "Go template for --output template, sprig functions available")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "compact output without progress indicator")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable colored output")
}

func (o *outputOptions) formatter() (formatting.Formatter, error) {
	format, err := formatting.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	if o.template != "" && format == formatting.FormatTable {
		format = formatting.FormatTemplate
	}
	return formatting.New(formatting.Options{
		Format:   format,
		Template: o.template,
		Quiet:    o.quiet,
		Color:    !o.noColor,
	})
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <task-id>",
		Short: "Fetch a task by id",
		Long: `Fetch a single task from the task API and print it.

An access token for the configured registration is acquired first if none
is cached.

Examples:
  taskclient fetch TSTDT-77385
  taskclient fetch TSTDT-77385 -o json
  taskclient fetch TSTDT-77385 --template '{{ .ID }}: {{ .Title | upper }}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := out.formatter()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			application, err := root.newApplication(ctx, cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			var s *spinner.Spinner
			if !out.quiet {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				s.Suffix = " Fetching task " + args[0] + "..."
				s.Start()
			}

			var result task.Result
			select {
			case result = <-application.FetchAsync(ctx, args[0]):
			case <-ctx.Done():
				result.Err = ctx.Err()
			}

			if s != nil {
				if result.Err != nil && !out.noColor {
					s.FinalMSG = text.FgRed.Sprint("Failed to fetch task") + "\n"
				}
				s.Stop()
			}
			if result.Err != nil {
				return result.Err
			}

			return formatter.FormatTask(cmd.OutOrStdout(), result.Task)
		},
	}

	out.addFlags(cmd)
	return cmd
}
