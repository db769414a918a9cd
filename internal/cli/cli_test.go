package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/swimlane/pkg/config"
	"github.com/matzehuels/swimlane/pkg/diagram"
	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// Lanes a and b are 100 high with a gap of 10. Build sits at (100,20)-(200,70)
// and Test at (400,20)-(500,70).
const testConfig = `
[lanes]
gap = 10
default_height = 100
header_width = 40
width = 1000

[nodes]
width = 100
height = 50
port_radius = 8
`

const testDiagram = `{
  "lanes": [{"id": "a", "order": 0, "h": 100}, {"id": "b", "order": 1, "h": 100}],
  "nodes": [
    {"id": "A", "laneId": "a", "x": 100, "y": 20, "label": "Build"},
    {"id": "B", "laneId": "a", "x": 400, "y": 20, "label": "Test"}
  ],
  "edges": []
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with the test config.
func runCLI(t *testing.T, dir string, out io.Writer, args ...string) error {
	t.Helper()
	cfg := writeFile(t, dir, "config.toml", testConfig)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", cfg}, args...))
	root.SetOut(out)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readGraph(t *testing.T, path string) *diagram.Graph {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	g, err := diagram.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestReplayDrag(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "flow.json", testDiagram)
	script := writeFile(t, dir, "drag.toml", `
[[events]]
type = "pointerdown"
x = 150
y = 45

[[events]]
type = "pointermove"
x = 250
y = 45

[[events]]
type = "pointerup"
x = 250
y = 45
`)
	out := filepath.Join(dir, "out", "flow.json")
	svg := filepath.Join(dir, "flow.svg")

	if err := runCLI(t, dir, io.Discard, "replay", in, script, "-o", out, "--svg", svg); err != nil {
		t.Fatalf("replay: %v", err)
	}

	g := readGraph(t, out)
	a, _ := g.Node("A")
	if a.X != 200 || a.LaneID != "a" {
		t.Errorf("A = (%v, %s), want (200, a)", a.X, a.LaneID)
	}
	if orig := readGraph(t, in); orig.Nodes[0].X != 100 {
		t.Errorf("input file modified: A.X = %v", orig.Nodes[0].X)
	}
	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("svg output missing root element")
	}
}

func TestReplayConnect(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "flow.json", testDiagram)
	script := writeFile(t, dir, "connect.toml", `
mode = "EDIT"

[[events]]
type = "pointerdown"
x = 200
y = 45

[[events]]
type = "pointermove"
x = 399
y = 45

[[events]]
type = "pointerup"
x = 399
y = 45
`)
	out := filepath.Join(dir, "connected.json")

	if err := runCLI(t, dir, io.Discard, "replay", in, script, "-o", out); err != nil {
		t.Fatalf("replay: %v", err)
	}

	g := readGraph(t, out)
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(g.Edges))
	}
	e := g.Edges[0]
	if e.SourceID != "A" || e.TargetID != "B" || e.SourceDir != diagram.DirRight || e.TargetDir != diagram.DirLeft {
		t.Errorf("edge = %+v", e)
	}
}

func TestReplayRejects(t *testing.T) {
	tests := []struct {
		name   string
		script string
		code   errs.Code
	}{
		{"unknown key", "[[events]]\ntype = \"pointerdown\"\nwiggle = 1\n", errs.ErrCodeInvalidInput},
		{"bad mode", "mode = \"DRAW\"\n[[events]]\ntype = \"blur\"\n", errs.ErrCodeInvalidMode},
		{"no events", "mode = \"EDIT\"\n", errs.ErrCodeInvalidInput},
		{"unknown input", "[[events]]\ntype = \"wiggle\"\n", errs.ErrCodeInvalidInput},
		{"commit without edit", "[[events]]\ntype = \"commit\"\n", errs.ErrCodeInvalidOperation},
		{"syntax", "[[events]\n", errs.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeFile(t, dir, "flow.json", testDiagram)
			script := writeFile(t, dir, "script.toml", tt.script)
			err := runCLI(t, dir, io.Discard, "replay", in, script, "-o", filepath.Join(dir, "out.json"))
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "flow.json", testDiagram)
	base := filepath.Join(dir, "export")

	if err := runCLI(t, dir, io.Discard, "render", in, "-f", "svg,dot", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("Build")) {
		t.Errorf("svg missing node label")
	}
	src, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(src), "digraph G {") {
		t.Errorf("dot output = %.40q", src)
	}
}

func TestRenderDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "flow.json", testDiagram)

	if err := runCLI(t, dir, io.Discard, "render", in); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "flow.svg")); err != nil {
		t.Errorf("expected flow.svg next to the input: %v", err)
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "flow.json", testDiagram)

	err := runCLI(t, dir, io.Discard, "render", in, "-f", "svg,gif")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"svg,dot-svg,png", []string{"svg", "dot-svg", "png"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatExt(t *testing.T) {
	for format, want := range map[string]string{
		formatSVG:    "svg",
		formatDOT:    "dot",
		formatDOTSVG: "dot.svg",
		formatDOTPNG: "dot.png",
	} {
		if got := formatExt(format); got != want {
			t.Errorf("formatExt(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestReadDocumentRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"nodes": [{"id": "A", "laneId": "ghost"}]}`)

	if _, err := readDocument(path); err == nil {
		t.Error("expected error for a node in an unknown lane")
	}
	if _, err := readDocument(filepath.Join(dir, "missing.json")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	if err := runCLI(t, dir, &buf, "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}
	var cfg config.Config
	if err := config.Decode(buf.Bytes(), &cfg); err != nil {
		t.Fatalf("output does not decode: %v\n%s", err, buf.String())
	}
	if cfg.Lanes.DefaultHeight != 100 || cfg.Nodes.NodeWidth != 100 {
		t.Errorf("show did not reflect the loaded file: %+v %+v", cfg.Lanes, cfg.Nodes)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swimlane", "config.toml")
	run := func(args ...string) error {
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		root.SetArgs(append([]string{"--config", path, "config", "init"}, args...))
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		return root.Execute()
	}

	if err := run(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if err := run(); !errs.Is(err, errs.ErrCodeInvalidOperation) {
		t.Errorf("second init err = %v, want INVALID_OPERATION", err)
	}
	if err := run("--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestLoadConfigAppliesLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.toml", "[log]\nlevel = \"debug\"\n")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "config", "show"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
