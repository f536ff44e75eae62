package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	termexport "github.com/de-tools/sales-report/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-report/pkg/services/report"
	"github.com/spf13/cobra"
)

type RenderCmd struct {
	inputPath string
	format    string
	outPath   string
	timeout   time.Duration
	renderer  report.Renderer
	reporter  *termexport.Reporter
}

func NewRenderCmd(renderer report.Renderer, reporter *termexport.Reporter) *cobra.Command {
	rc := &RenderCmd{renderer: renderer, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a weekly sales report from a JSON or YAML file",
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.inputPath, "input", "i", "", "Report input file (.json, .yaml), - for stdin")
	cmd.Flags().StringVarP(&rc.format, "format", "f", string(export.FormatDocx), "Output format (docx, html, md, txt, pdf)")
	cmd.Flags().StringVarP(&rc.outPath, "out", "o", ".", "Output directory, - for stdout")
	cmd.Flags().DurationVar(&rc.timeout, "timeout", 30*time.Second, "Render timeout")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (rc *RenderCmd) run(cmd *cobra.Command, _ []string) error {
	if rc.timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", rc.timeout)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()

	format, err := export.ParseFormat(rc.format)
	if err != nil {
		return err
	}

	req, err := readInput(rc.inputPath, cmd.InOrStdin())
	if err != nil {
		return rc.rejected(err)
	}

	weekly, err := req.ToDomain()
	if err != nil {
		return rc.rejected(err)
	}

	artifact, err := rc.renderer.Render(ctx, weekly, format)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("render did not finish within %s: %w", rc.timeout, err)
	}
	if err != nil {
		return rc.rejected(err)
	}

	if rc.outPath == "-" {
		_, err := cmd.OutOrStdout().Write(artifact.Body)
		return err
	}

	if err := os.MkdirAll(rc.outPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(rc.outPath, artifact.Filename)
	if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return rc.reporter.HandleWritten(termexport.Written{
		ID:       artifact.ID,
		Path:     path,
		Format:   string(format),
		Bytes:    len(artifact.Body),
		Week:     weekly.WeekNumber,
		Warnings: weekly.DirectionMismatches(),
	})
}

// rejected prints validation problems as a table before failing the command.
func (rc *RenderCmd) rejected(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		if perr := rc.reporter.HandleValidation(verr); perr != nil {
			return perr
		}
	}
	return err
}
