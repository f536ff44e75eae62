package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/sales-report/pkg/runtime/export"
	"github.com/de-tools/sales-report/pkg/runtime/terminal/commands"
	termexport "github.com/de-tools/sales-report/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-report/pkg/services/report"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	renderer report.Renderer
	writers  export.Registry
	reporter *termexport.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Renderer report.Renderer
	Writers  export.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Writers == nil {
		opts.Writers = export.DefaultRegistry()
	}
	if opts.Renderer == nil {
		opts.Renderer = report.NewService(report.Config{
			Dependencies: report.Dependencies{Writers: opts.Writers},
		})
	}

	cli := &CLI{
		renderer: opts.Renderer,
		writers:  opts.Writers,
		reporter: termexport.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the CLI with a context carrying the logger.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides the command line arguments, used by tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

// SetInput sets the reader used when the input file is "-".
func (cli *CLI) SetInput(in io.Reader) {
	cli.rootCmd.SetIn(in)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salesreport",
		Short:         "Weekly sales report generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewRenderCmd(cli.renderer, cli.reporter))
	cmd.AddCommand(commands.NewSampleCmd())
	cmd.AddCommand(commands.NewFormatsCmd(cli.writers, cli.reporter))

	return cmd
}
