package commands

import (
	"github.com/de-tools/sales-report/pkg/runtime/export"
	termexport "github.com/de-tools/sales-report/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type FormatsCmd struct {
	week     int
	writers  export.Registry
	reporter *termexport.Reporter
}

func NewFormatsCmd(writers export.Registry, reporter *termexport.Reporter) *cobra.Command {
	fc := &FormatsCmd{writers: writers, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported output formats",
		RunE:  fc.run,
	}

	cmd.Flags().IntVar(&fc.week, "week", 1, "Week number used for the example file names")

	return cmd
}

func (fc *FormatsCmd) run(_ *cobra.Command, _ []string) error {
	var rows []termexport.FormatRow
	for _, f := range fc.writers.Formats() {
		w, err := fc.writers.Get(f)
		if err != nil {
			return err
		}
		rows = append(rows, termexport.FormatRow{
			Name:        string(f),
			Filename:    w.Filename(fc.week),
			ContentType: w.ContentType(),
		})
	}
	return fc.reporter.HandleFormats(rows)
}
