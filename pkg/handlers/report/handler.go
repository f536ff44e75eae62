package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/de-tools/sales-report/pkg/metrics"
	"github.com/de-tools/sales-report/pkg/models/api"
	"github.com/de-tools/sales-report/pkg/models/domain"
	"github.com/de-tools/sales-report/pkg/runtime/export"
	reportsvc "github.com/de-tools/sales-report/pkg/services/report"
	"github.com/rs/zerolog"
)

const defaultMaxBodyBytes = 1 << 20

//go:embed templates/form.html.tmpl
var templateFS embed.FS

var formTemplate = template.Must(template.New("form.html.tmpl").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(templateFS, "templates/form.html.tmpl"))

type formView struct {
	Values  formValues
	Errors  []domain.FieldError
	Formats []string
	Format  string
}

type Config struct {
	DefaultFormat export.Format
	MaxBodyBytes  int64
}

type Handler struct {
	renderer      reportsvc.Renderer
	metrics       *metrics.Metrics
	defaultFormat export.Format
	maxBodyBytes  int64
}

func NewHandler(renderer reportsvc.Renderer, m *metrics.Metrics, config Config) *Handler {
	if config.DefaultFormat == "" {
		config.DefaultFormat = export.FormatDocx
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		renderer:      renderer,
		metrics:       m,
		defaultFormat: config.DefaultFormat,
		maxBodyBytes:  config.MaxBodyBytes,
	}
}

// Form serves the report form pre-filled with the sample week.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, newFormValues(domain.SampleReport()), string(h.defaultFormat), nil)
}

// SubmitForm renders the submitted form and returns the report as a download.
// Rejected input is answered with the form and the list of problems.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := h.parseForm(r); err != nil {
		logger.Warn().Err(err).Msg("failed to parse report form")
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	values := readFormValues(r.PostForm)
	formatName := strings.TrimSpace(r.PostForm.Get("format"))
	if formatName == "" {
		formatName = string(h.defaultFormat)
	}

	verr := &domain.ValidationError{}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		verr.Add("format", domain.CodeInvalidValue, err.Error())
	}

	report, err := values.toDomain()
	if err != nil {
		var fieldErrs *domain.ValidationError
		if !errors.As(err, &fieldErrs) {
			h.internalError(w, r, err)
			return
		}
		verr.Merge(fieldErrs)
	}

	if len(verr.Fields) > 0 {
		h.rejectForm(w, r, values, formatName, verr)
		return
	}

	artifact, err := h.renderer.Render(ctx, report, format)
	if err != nil {
		var fieldErrs *domain.ValidationError
		if errors.As(err, &fieldErrs) {
			h.rejectForm(w, r, values, formatName, fieldErrs)
			return
		}
		h.internalError(w, r, err)
		return
	}

	h.writeArtifact(w, r, artifact)
}

func (h *Handler) parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(h.maxBodyBytes)
	}
	return r.ParseForm()
}

func (h *Handler) rejectForm(w http.ResponseWriter, r *http.Request, values formValues, format string, verr *domain.ValidationError) {
	zerolog.Ctx(r.Context()).Info().
		Int("errors", len(verr.Fields)).
		Msg("report form rejected")
	h.metrics.ObserveValidationFailure("form")
	h.renderForm(w, r, http.StatusUnprocessableEntity, values.withBlankRows(), format, verr.Fields)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, values formValues, format string, fieldErrs []domain.FieldError) {
	view := formView{
		Values: values,
		Errors: fieldErrs,
		Format: format,
	}
	for _, f := range h.renderer.Formats() {
		view.Formats = append(view.Formats, string(f))
	}

	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, view); err != nil {
		h.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write form")
	}
}

// CreateReport renders a report from a JSON document. The format is taken
// from the format query parameter.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	format := h.defaultFormat
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			h.writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		format = f
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read report request")
		h.writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: "failed to read request body"})
		return
	}

	req, err := api.DecodeReportRequest(body)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	report, err := req.ToDomain()
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	artifact, err := h.renderer.Render(ctx, report, format)
	if err != nil {
		h.apiError(w, r, err)
		return
	}

	h.writeArtifact(w, r, artifact)
}

func (h *Handler) apiError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.metrics.ObserveValidationFailure("api")
		h.writeJSON(w, r, http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, api.ErrMalformedRequest):
		h.writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, export.ErrUnsupportedFormat):
		h.writeJSON(w, r, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render report")
		h.writeJSON(w, r, http.StatusInternalServerError, api.ErrorResponse{Error: "failed to render report"})
	}
}

func (h *Handler) ListFormats(w http.ResponseWriter, r *http.Request) {
	response := api.FormatsResponse{Default: string(h.defaultFormat)}
	for _, f := range h.renderer.Formats() {
		response.Formats = append(response.Formats, string(f))
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

// Sample returns the pre-filled form values as a JSON report request.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, api.NewReportRequest(domain.SampleReport()))
}

func (h *Handler) writeArtifact(w http.ResponseWriter, r *http.Request, artifact *reportsvc.Artifact) {
	header := w.Header()
	header.Set("Content-Type", artifact.ContentType)
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": artifact.Filename,
	}))
	header.Set("Content-Length", strconv.Itoa(len(artifact.Body)))
	header.Set("Cache-Control", "no-store")
	header.Set("X-Report-ID", artifact.ID)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(artifact.Body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("report_id", artifact.ID).
			Msg("failed to write report")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render report")
	http.Error(w, "failed to render report", http.StatusInternalServerError)
}
