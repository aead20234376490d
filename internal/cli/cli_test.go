package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/pipeline"
)

// runCLI executes the root command with args and returns what was printed
// to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		var b bytes.Buffer
		io.Copy(&b, r)
		done <- b.String()
	}()

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	runErr := root.ExecuteContext(context.Background())

	w.Close()
	return <-done, runErr
}

// isolate points every per-user directory at a temp dir and clears the
// backend environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv(envMongoURI, "")
	t.Setenv(envRedisAddr, "")
	return dir
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"render", "fold", "preview", "validate", "net", "preset", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if cmd, _, _ := root.Find([]string{"impose"}); cmd.Name() != "render" {
		t.Errorf("alias impose resolves to %q, want render", cmd.Name())
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		output  string
		want    map[string]string
	}{
		{"default name", []string{"svg"}, "", map[string]string{"svg": "booklet.svg"}},
		{"single output verbatim", []string{"png"}, "out/sheet.image", map[string]string{"png": "out/sheet.image"}},
		{"multiple strip extension", []string{"svg", "pdf"}, "out/sheets.svg", map[string]string{"svg": "out/sheets.svg", "pdf": "out/sheets.pdf"}},
		{"multiple keep unknown extension", []string{"svg", "json"}, "v1.2", map[string]string{"svg": "v1.2.svg", "json": "v1.2.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.output, "booklet")
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("outputPaths[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"booklet":          "booklet",
		"Field Guide":      "field-guide",
		"  Octavo (A5)  ":  "octavo--a5",
		"":                 "imposition",
		"../../etc/passwd": "etc-passwd",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveSignature(t *testing.T) {
	if sig, err := resolveSignature("octavo"); err != nil || sig.Name != "octavo" {
		t.Errorf("built-in: sig %q, err %v", sig.Name, err)
	}

	path := filepath.Join(t.TempDir(), "custom.toml")
	body := `[signature]
name = "custom"
paper_width = 11
paper_height = 8.5

[[signature.folds]]
direction = "r"
index = 1
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	sig, err := resolveSignature(path)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Name != "custom" || len(sig.Folds) != 1 {
		t.Errorf("file: %+v", sig)
	}

	if _, err := resolveSignature("no-such-signature"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing: err = %v, want NOT_FOUND", err)
	}
}

func TestSourceFlagsResolve(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	newCmd := func(args ...string) (*cobra.Command, *sourceFlags) {
		var src sourceFlags
		cmd := &cobra.Command{Use: "x"}
		src.register(cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}
		return cmd, &src
	}

	cmd, src := newCmd("--net", "cube", "--signature", "octavo")
	if err := src.resolve(ctx, cmd, &pipeline.Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("two sources: err = %v, want INVALID_INPUT", err)
	}

	cmd, src = newCmd("--net", "cube")
	var opts pipeline.Options
	if err := src.resolve(ctx, cmd, &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Kind != "net" || opts.Options.NetName != "cube" {
		t.Errorf("net: kind %q, net %q", opts.Kind, opts.Options.NetName)
	}

	cmd, src = newCmd("--signature", "quarto", "--creep", "0.05")
	opts = pipeline.Options{}
	if err := src.resolve(ctx, cmd, &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Kind != "signature" || opts.Options.Signature == nil || opts.Options.Creep != 0.05 {
		t.Errorf("signature: %+v", opts)
	}

	cmd, src = newCmd()
	opts = pipeline.Options{}
	if err := src.resolve(ctx, cmd, &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Kind != pipeline.DefaultKind {
		t.Errorf("default kind = %q, want %q", opts.Kind, pipeline.DefaultKind)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "sheets.svg")

	printed, err := runCLI(t, "render", "--kind", "booklet", "--pages", "8", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not SVG")
	}
	if !strings.Contains(printed, "4 papers") {
		t.Errorf("stats line missing from %q", printed)
	}

	printed, err = runCLI(t, "render", "--kind", "booklet", "--pages", "8", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(printed, iconCached) {
		t.Errorf("second render not cached: %q", printed)
	}
}

func TestRenderCommandMultipleFormats(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "octavo")

	if _, err := runCLI(t, "render", "--signature", "octavo", "-n", "24", "-f", "svg,json", "-o", base, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".svg", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s output: %v", ext, err)
		}
	}
}

func TestRenderCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", "-f", "gif"}, errors.ErrCodeUnsupported},
		{"unknown kind", []string{"render", "--kind", "scroll"}, errors.ErrCodeUnsupported},
		{"unknown preset", []string{"render", "--preset", "missing"}, errors.ErrCodeNotFound},
		{"too many pages", []string{"render", "-n", "20000"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "validate", "quarto", "octavo"); err != nil {
		t.Errorf("built-ins should validate: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.sig")
	if err := os.WriteFile(bad, []byte("fold 1 Right\nfold 1 Right\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	printed, err := runCLI(t, "validate", "quarto", bad)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT summary", err)
	}
	if !strings.Contains(printed, bad) {
		t.Errorf("failing file not reported: %q", printed)
	}

	printed, err = runCLI(t, "validate", "quarto", "--convert", "toml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(printed, "[signature]") || !strings.Contains(printed, "[[signature.folds]]") {
		t.Errorf("TOML conversion = %q", printed)
	}
}

func TestFoldCommand(t *testing.T) {
	isolate(t)
	printed, err := runCLI(t, "fold", "quarto")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"quarto", "Paper 0", "Paper 1", "8"} {
		if !strings.Contains(printed, want) {
			t.Errorf("fold output missing %q:\n%s", want, printed)
		}
	}

	if _, err := runCLI(t, "fold", "quarto", "--level", "7"); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("bad level: err = %v, want OUT_OF_RANGE", err)
	}
}

func TestNetCommands(t *testing.T) {
	dir := isolate(t)

	printed, err := runCLI(t, "net", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(printed, "dodecahedron") || !strings.Contains(printed, "12 faces") {
		t.Errorf("net list = %q", printed)
	}

	out := filepath.Join(dir, "cube.dot")
	if _, err := runCLI(t, "net", "graph", "cube", "-o", out, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("graph G {")) {
		t.Errorf("cube.dot starts with %q", data[:min(20, len(data))])
	}
}

func TestPresetCommands(t *testing.T) {
	isolate(t)

	if _, err := runCLI(t, "preset", "put", "wide", "--kind", "booklet", "--vertical", "-d", "tall booklet"); err != nil {
		t.Fatal(err)
	}
	printed, err := runCLI(t, "preset", "get", "wide")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(printed, `"vertical": true`) || !strings.Contains(printed, `"description": "tall booklet"`) {
		t.Errorf("preset get = %s", printed)
	}

	if _, err := runCLI(t, "render", "--preset", "wide", "-n", "4", "--no-cache", "-o", filepath.Join(t.TempDir(), "w.svg")); err != nil {
		t.Errorf("render with preset: %v", err)
	}

	if _, err := runCLI(t, "preset", "put", "bad..name", "--kind", "booklet"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad name: err = %v, want INVALID_INPUT", err)
	}

	if _, err := runCLI(t, "preset", "seed"); err != nil {
		t.Fatal(err)
	}
	printed, err = runCLI(t, "preset", "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"wide", "sig-octavo", "net-cube"} {
		if !strings.Contains(printed, want) {
			t.Errorf("preset list missing %q", want)
		}
	}

	if _, err := runCLI(t, "preset", "delete", "wide"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "preset", "get", "wide"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("get after delete: err = %v, want NOT_FOUND", err)
	}
}

func TestErrorLine(t *testing.T) {
	line := ErrorLine(errors.New(errors.ErrCodeNotFound, "preset %q not found", "wide"))
	if !strings.Contains(line, `preset "wide" not found`) || !strings.Contains(line, "(NOT_FOUND)") {
		t.Errorf("ErrorLine = %q", line)
	}
	if line := ErrorLine(stderrors.New("boom")); !strings.Contains(line, "boom") {
		t.Errorf("ErrorLine(plain) = %q", line)
	}
}
