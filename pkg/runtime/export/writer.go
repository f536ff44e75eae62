package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/de-tools/sales-report/pkg/models/domain"
)

// Format identifies an output format of a report.
type Format string

const (
	FormatDocx     Format = "docx"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatPDF      Format = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported report format")

// ParseFormat maps user input ("DOCX", "markdown", ".html") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "docx", "word":
		return FormatDocx, nil
	case "html", "htm":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Writer serializes a document tree into one output format.
type Writer interface {
	Format() Format
	// ContentType is the MIME type the artifact is served with.
	ContentType() string
	// Filename is the download name of the report for the given week.
	Filename(week int) string
	Write(w io.Writer, doc *domain.Document) error
}

// Registry manages the writers available to the service.
type Registry interface {
	// Register adds a writer; a format can be registered once
	Register(w Writer) error
	// Get returns the writer of a format
	Get(format Format) (Writer, error)
	// Formats returns the registered formats, sorted
	Formats() []Format
}

type registry struct {
	mu      sync.RWMutex
	writers map[Format]Writer
}

// NewRegistry creates an empty writer registry.
func NewRegistry() Registry {
	return &registry{
		writers: make(map[Format]Writer),
	}
}

// DefaultRegistry returns a registry holding every built-in writer.
func DefaultRegistry() Registry {
	r := NewRegistry()
	for _, w := range []Writer{
		NewDocxWriter(),
		NewHTMLWriter(),
		NewMarkdownWriter(),
		NewTextWriter(),
		NewPDFWriter(),
	} {
		// built-in formats are distinct
		_ = r.Register(w)
	}
	return r
}

func (r *registry) Register(w Writer) error {
	if w == nil {
		return fmt.Errorf("writer cannot be nil")
	}
	if w.Format() == "" {
		return fmt.Errorf("writer format cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.writers[w.Format()]; exists {
		return fmt.Errorf("format %q is already registered", w.Format())
	}

	r.writers[w.Format()] = w
	return nil
}

func (r *registry) Get(format Format) (Writer, error) {
	r.mu.RLock()
	w, exists := r.writers[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return w, nil
}

func (r *registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.writers))
	for f := range r.writers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// bullet is the marker written before bulleted lines by the plain formats.
const bullet = "• "
