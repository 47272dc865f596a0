// Package loader extracts plain text from documents, keyed by file extension.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/viant/afs"

	"github.com/viant/sovereign/document"
)

// ErrUnsupported reports a document type no loader can extract text from.
var ErrUnsupported = errors.New("loader: unsupported document type")

// Loader extracts text from document content.
type Loader interface {
	Load(ctx context.Context, name string, data []byte) (*document.Source, error)
}

// Func adapts a function to Loader.
type Func func(ctx context.Context, name string, data []byte) (*document.Source, error)

// Load calls f.
func (f Func) Load(ctx context.Context, name string, data []byte) (*document.Source, error) {
	return f(ctx, name, data)
}

// Registry dispatches loading by extension.
type Registry struct {
	fs    afs.Service
	byExt map[string]Loader
}

// Option configures a Registry.
type Option func(*Registry)

// WithFS sets the storage service used to read documents.
func WithFS(fs afs.Service) Option {
	return func(r *Registry) { r.fs = fs }
}

// WithLoader registers (or overrides) a loader for an extension such as ".pdf".
func WithLoader(ext string, loader Loader) Option {
	return func(r *Registry) { r.Register(ext, loader) }
}

// New creates a registry with pdf, docx, xlsx, xls, txt and md loaders.
func New(opts ...Option) *Registry {
	r := &Registry{byExt: map[string]Loader{}}
	r.Register(".pdf", Func(loadPDF))
	r.Register(".docx", Func(loadDOCX))
	r.Register(".xlsx", Func(loadExcel))
	r.Register(".xlsm", Func(loadExcel))
	r.Register(".xls", Func(loadXLS))
	r.Register(".txt", Func(loadText))
	r.Register(".md", Func(loadText))
	r.Register(".markdown", Func(loadText))
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = afs.New()
	}
	return r
}

// Register maps an extension to a loader.
func (r *Registry) Register(ext string, loader Loader) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.byExt[ext] = loader
}

// Supports reports whether the path has a recognised extension.
func (r *Registry) Supports(location string) bool {
	_, ok := r.byExt[extension(location)]
	return ok
}

// Extensions returns recognised extensions in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Load reads the document at location and extracts its text.
func (r *Registry) Load(ctx context.Context, location string) (*document.Source, error) {
	data, err := r.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", location, err)
	}
	return r.LoadContent(ctx, location, data)
}

// LoadContent extracts text from data; name selects the loader by extension,
// falling back to content sniffing for unknown extensions.
func (r *Registry) LoadContent(ctx context.Context, name string, data []byte) (*document.Source, error) {
	loader, ok := r.byExt[extension(name)]
	if !ok {
		loader, ok = r.sniff(data)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path.Base(name))
	}
	src, err := loader.Load(ctx, name, data)
	if err != nil {
		return nil, err
	}
	src.Path = name
	return src, nil
}

func (r *Registry) sniff(data []byte) (Loader, bool) {
	if len(data) == 0 {
		return nil, false
	}
	detected := mimetype.Detect(data)
	switch {
	case detected.Is("application/pdf"):
		loader, ok := r.byExt[".pdf"]
		return loader, ok
	case strings.HasPrefix(detected.String(), "text/"):
		loader, ok := r.byExt[".txt"]
		return loader, ok
	}
	return nil, false
}

func extension(location string) string {
	return strings.ToLower(path.Ext(location))
}

// newSource builds a Source from per-page texts joined by a blank line.
func newSource(pages []string) *document.Source {
	src := &document.Source{}
	var b strings.Builder
	offset := 0
	for i, text := range pages {
		if i > 0 {
			b.WriteString("\n\n")
			offset += 2
		}
		b.WriteString(text)
		n := len([]rune(text))
		src.Pages = append(src.Pages, document.Page{Number: i + 1, Start: offset, End: offset + n})
		offset += n
	}
	src.Text = b.String()
	return src
}
