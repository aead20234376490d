package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/pipeline"
	"github.com/laidout/impose/pkg/signature"
)

// sourceFlags select the disposition to impose with. At most one of preset,
// signature and net may be set; otherwise kind is used.
type sourceFlags struct {
	kind      string
	preset    string
	signature string
	net       string
	mongoURI  string
	creep     float64
	vertical  bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", pipeline.DefaultKind, "disposition: singles, double-sided, booklet, signature, net")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "impose with a saved preset")
	cmd.Flags().StringVarP(&f.signature, "signature", "s", "", "signature file (.toml or attribute format) or built-in name")
	cmd.Flags().StringVar(&f.net, "net", "", "built-in polyhedron net: "+strings.Join(netNames(), ", "))
	cmd.Flags().Float64Var(&f.creep, "creep", 0, "creep allowance for booklets and signatures")
	cmd.Flags().BoolVar(&f.vertical, "vertical", false, "stack facing pages top to bottom")
}

// resolve fills opts.Kind and opts.Options from the flags.
func (f *sourceFlags) resolve(ctx context.Context, cmd *cobra.Command, opts *pipeline.Options) error {
	set := 0
	for _, v := range []string{f.preset, f.signature, f.net} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--preset, --signature and --net are mutually exclusive")
	}

	opts.Kind = f.kind
	switch {
	case f.preset != "":
		st, err := openStore(ctx, f.mongoURI)
		if err != nil {
			return err
		}
		defer st.Close()
		p, err := st.Get(ctx, f.preset)
		if err != nil {
			return err
		}
		opts.Kind, opts.Options = p.Kind, p.Options
	case f.signature != "":
		sig, err := resolveSignature(f.signature)
		if err != nil {
			return err
		}
		opts.Kind = "signature"
		opts.Options.Signature = &sig
	case f.net != "":
		opts.Kind = "net"
		opts.Options.NetName = f.net
	}

	if cmd.Flags().Changed("creep") {
		opts.Options.Creep = f.creep
	}
	if cmd.Flags().Changed("vertical") {
		opts.Options.Vertical = f.vertical
	}
	return nil
}

// resolveSignature loads arg as a file when it exists, falling back to the
// built-in signature of that name.
func resolveSignature(arg string) (signature.Signature, error) {
	if _, err := os.Stat(arg); err == nil {
		return signature.Load(arg)
	}
	if sig, err := signature.Builtin(arg); err == nil {
		return sig, nil
	}
	return signature.Load(arg)
}

// renderCommand creates the render command, the one-shot path from a
// disposition to files on disk.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src        sourceFlags
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{
		Layout: pipeline.DefaultLayout,
		Pages:  pipeline.DefaultPages,
		Scale:  pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"impose"},
		Short:   "Impose a document and render the printed sheets",
		Long: `Impose a document and render the printed sheets.

The disposition comes from --kind, a saved --preset, a --signature file or a
built-in --net. The paper layout (default) shows each printed side with its
pages placed, rotated and marked; the page layout shows reader spreads.

Results are cached locally for faster subsequent runs.`,
		Example: `  impose render --signature octavo --pages 32 -f svg,pdf
  impose render --kind booklet --pages 12 --layout page -o spreads.svg
  impose render --net dodecahedron -f png --labels`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = pipeline.ParseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := src.resolve(cmd.Context(), cmd, &opts); err != nil {
				return err
			}
			if err := c.runRender(cmd.Context(), opts, output, noCache); err != nil {
				return err
			}
			if src.signature != "" {
				printNewline()
				printNextStep("Step through the folds", "impose preview "+src.signature)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&src.mongoURI, "mongo-uri", envOr(envMongoURI, ""), "MongoDB URI for presets (default: local preset directory)")

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Layout flags
	cmd.Flags().IntVarP(&opts.Pages, "pages", "n", opts.Pages, "number of document pages")
	cmd.Flags().StringVarP(&opts.Layout, "layout", "l", opts.Layout, "spread layout: paper (default), page, single")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "pixels per inch")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw page numbers")
	cmd.Flags().BoolVar(&opts.NoMarks, "no-marks", false, "omit cut and fold marks")
	cmd.Flags().StringVar(&opts.Title, "title", "", "document title drawn above the spreads")

	return cmd
}

// runRender imposes and renders opts, then writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Imposing %d pages...", opts.Pages))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Imposition failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(opts.Formats, output, slug(result.Document.Name))
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[format], err)
		}
	}

	printSuccess("Imposed %s", StyleHighlight.Render(result.Document.Name))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Pages, result.Stats.Papers, result.Stats.Spreads,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// =============================================================================
// Output Helpers
// =============================================================================

// basePath derives the base output path. If output is empty, fallback is
// used; a known format extension on output is stripped.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format is written to
// output verbatim when one is given.
func outputPaths(formats []string, output, fallback string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, fallback)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// slug turns a document name into a file name stem.
func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, strings.TrimSpace(name))
	if s = strings.Trim(s, "-"); s == "" {
		return "imposition"
	}
	return s
}
