package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/de-tools/sales-report/pkg/metrics"
	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Artifact is a rendered report ready to be downloaded or saved.
type Artifact struct {
	ID          string
	Filename    string
	ContentType string
	Body        []byte
}

// Renderer turns a weekly report into a downloadable artifact.
type Renderer interface {
	Render(ctx context.Context, r domain.WeeklyReport, format export.Format) (*Artifact, error)
	Formats() []export.Format
}

type Dependencies struct {
	Writers export.Registry
	Metrics *metrics.Metrics
}

type Config struct {
	// Currency is used for reports that do not carry their own label.
	Currency     string
	Dependencies Dependencies
}

// Service validates, builds and serializes reports. It holds no per request
// state and is safe for concurrent use.
type Service struct {
	writers  export.Registry
	metrics  *metrics.Metrics
	currency string
}

func NewService(config Config) *Service {
	writers := config.Dependencies.Writers
	if writers == nil {
		writers = export.DefaultRegistry()
	}
	return &Service{
		writers:  writers,
		metrics:  config.Dependencies.Metrics,
		currency: config.Currency,
	}
}

func (s *Service) Formats() []export.Format {
	return s.writers.Formats()
}

// Render validates the report and serializes it in the requested format.
// Validation failures are returned as *domain.ValidationError; a cancelled
// or expired ctx aborts the render with ctx.Err() wrapped.
func (s *Service) Render(ctx context.Context, r domain.WeeklyReport, format export.Format) (*Artifact, error) {
	logger := zerolog.Ctx(ctx)

	w, err := s.writers.Get(format)
	if err != nil {
		return nil, err
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	if r.Currency == "" {
		r.Currency = s.currency
	}

	for _, field := range r.DirectionMismatches() {
		logger.Warn().
			Str("field", field).
			Int("week", r.WeekNumber).
			Msg("change percent sign disagrees with sales movement")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render of %s report cancelled: %w", format, err)
	}

	start := time.Now()
	var buf bytes.Buffer
	err = w.Write(&buf, Build(r))
	if err == nil {
		err = ctx.Err()
	}
	s.metrics.ObserveRender(string(format), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", format, err)
	}

	artifact := &Artifact{
		ID:          uuid.NewString(),
		Filename:    w.Filename(r.WeekNumber),
		ContentType: w.ContentType(),
		Body:        buf.Bytes(),
	}

	logger.Info().
		Str("report_id", artifact.ID).
		Str("format", string(format)).
		Int("week", r.WeekNumber).
		Int("executives", len(r.Executives)).
		Int("bytes", len(artifact.Body)).
		Dur("elapsed", time.Since(start)).
		Msg("report rendered")

	return artifact, nil
}

// RenderRich produces the Word document of a report.
func RenderRich(r domain.WeeklyReport) ([]byte, error) {
	return renderWith(export.NewDocxWriter(), r)
}

// RenderMarkup produces the standalone HTML page of a report.
func RenderMarkup(r domain.WeeklyReport) (string, error) {
	out, err := renderWith(export.NewHTMLWriter(), r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func renderWith(w export.Writer, r domain.WeeklyReport) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := w.Write(&buf, Build(r)); err != nil {
		return nil, fmt.Errorf("failed to render %s report: %w", w.Format(), err)
	}
	return buf.Bytes(), nil
}
