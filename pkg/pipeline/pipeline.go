// Package pipeline provides the imposition pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: build a disposition from a kind and its options, size it for
//     the document and collect every spread of the requested layout
//  2. Render: draw the spreads as SVG, PNG or PDF, or encode them as JSON
//
// Both stages are cached through a [cache.Cache] by the [Runner].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:    "signature",
//	    Options: disposition.Options{Signature: &sig},
//	    Pages:   32,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/laidout/impose/pkg/cache"
	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultKind is the disposition used when none is named.
	DefaultKind = "booklet"

	// DefaultLayout shows printed sheets, the view imposition is for.
	DefaultLayout = "paper"

	// DefaultPages is the document size when none is given.
	DefaultPages = 16

	// MaxPages bounds the document size accepted from callers.
	MaxPages = 10000

	// DefaultScale is the render resolution in pixels per inch.
	DefaultScale = 36.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	// FormatDOT is the face graph of a net in Graphviz syntax.
	FormatDOT = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Kind    string              `json:"kind"`
	Options disposition.Options `json:"options"`
	Layout  string              `json:"layout,omitempty"`
	Pages   int                 `json:"pages,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	NoMarks bool     `json:"no_marks,omitempty"`
	Title   string   `json:"title,omitempty"`

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	layout    disposition.Layout
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document holds the spreads of the requested layout.
	Document render.Document

	// ConfigHash identifies the disposition configuration.
	ConfigHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Pages      int
	Papers     int
	Spreads    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKind checks that a disposition kind is registered.
func ValidateKind(kind string) error {
	if !slices.Contains(disposition.Kinds(), kind) {
		return errors.New(errors.ErrCodeUnsupported, "invalid kind: %q (must be one of: %s)",
			kind, strings.Join(disposition.Kinds(), ", "))
	}
	return nil
}

// ParseFormats splits a comma-separated format list, defaulting to SVG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Kind == "" {
		o.Kind = DefaultKind
	}
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	l, err := disposition.ParseLayout(o.Layout)
	if err != nil {
		return err
	}
	o.layout = l
	o.Layout = l.String()

	if o.Pages == 0 {
		o.Pages = DefaultPages
	}
	if o.Pages < 0 || o.Pages > MaxPages {
		return errors.New(errors.ErrCodeInvalidInput, "pages must be between 1 and %d, got %d", MaxPages, o.Pages)
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if slices.Contains(o.Formats, FormatDOT) && o.Kind != "net" {
		return errors.New(errors.ErrCodeUnsupported, "format dot needs the net kind, not %q", o.Kind)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", o.Scale)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ConfigHash identifies the disposition configuration independent of the
// page count and rendering.
func (o *Options) ConfigHash() (string, error) {
	h, err := cache.HashJSON(struct {
		Kind    string              `json:"kind"`
		Options disposition.Options `json:"options"`
	}{o.Kind, o.Options})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash options")
	}
	return h, nil
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Kind: o.Kind, Layout: o.Layout, Pages: o.Pages, Title: o.Title}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: o.Labels,
		Marks:  !o.NoMarks,
		Title:  o.Title != "",
	}
}

// RenderOptions converts the render fields into render options.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{render.WithScale(o.Scale)}
	if o.Labels {
		opts = append(opts, render.WithLabels())
	}
	if o.NoMarks {
		opts = append(opts, render.WithoutMarks())
	}
	if o.Title != "" {
		opts = append(opts, render.WithTitle())
	}
	return opts
}
