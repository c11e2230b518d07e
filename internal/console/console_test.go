package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/netpbm-tools-mcp/internal/netpbm"
	"github.com/ironsheep/netpbm-tools-mcp/internal/session"
	"github.com/ironsheep/netpbm-tools-mcp/internal/workspace"
)

// newTestConsole returns a console over a temporary workspace holding
// a.pgm (2x1), b.pgm (2x1), c.ppm (1x1) and huge.pbm (a truncated header
// claiming an enormous height), and the output directory.
func newTestConsole(t *testing.T, input string) (*Console, *bytes.Buffer, string) {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"a.pgm":    "P2\n2 1\n255\n0 200\n",
		"b.pgm":    "P2\n2 1\n255\n10 20\n",
		"c.ppm":    "P3\n1 1\n255\n1 2 3\n",
		"huge.pbm": "P1\n1 1000000000000000\n0\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	out := filepath.Join(dir, "out")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := workspace.NewStore(
		workspace.NewResolver([]string{dir}, []string{".ppm", ".pgm", ".pbm"}),
		workspace.NewWriter(out),
		netpbm.DecodeOptions{MaxHeaderLines: 64},
		logger,
	)

	var buf bytes.Buffer
	mgr := session.NewManager(store, store, logger)
	return New(mgr, strings.NewReader(input), &buf, logger), &buf, out
}

func TestRun_Script(t *testing.T) {
	script := strings.Join([]string{
		"load a.pgm missing.pgm",
		"negative",
		"rotate up",
		"ROTATE left",
		"",
		"undo",
		"save",
		"bogus",
		"close extra",
		"close",
		"exit",
		"load b",
	}, "\n")

	c, buf, out := newTestConsole(t, script)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got := buf.String()

	wantLines := []string{
		`Image "a.pgm" added`,
		"Session with ID: 1 started",
		"Warning: 1 file(s) could not be loaded: missing.pgm (",
		"Queued negative transformation for all images",
		"Error: invalid rotation direction. Use 'left' or 'right'",
		"Queued left rotation transformation",
		"Undid last transformation: rotate_left",
		"Remaining transformations: 1",
		"Applying pending transformations to all images...",
		"Saved all images successfully!",
		"Error: unknown command: bogus. Type 'help' for available commands",
		"Error: close command does not accept any arguments",
		"Session 1 closed successfully",
		"No active sessions remaining",
		"Goodbye!",
	}
	pos := 0
	for _, want := range wantLines {
		i := strings.Index(got[pos:], want)
		if i < 0 {
			t.Fatalf("output missing %q after offset %d:\n%s", want, pos, got)
		}
		pos += i + len(want)
	}

	if strings.Contains(got, `Image "b.pgm" added`) {
		t.Error("commands after exit should not run")
	}

	data, err := os.ReadFile(filepath.Join(out, "a.pgm"))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "P2\n2 1\n255\n255 55\n" {
		t.Errorf("saved file: got %q", data)
	}
}

func TestRun_Prompt(t *testing.T) {
	c, buf, _ := newTestConsole(t, "exit\n")
	WithPrompt()(c)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(buf.String(), "> Goodbye!") {
		t.Errorf("prompt missing:\n%s", buf.String())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	c, buf, _ := newTestConsole(t, "load a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Run(ctx); err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if strings.Contains(buf.String(), "added") {
		t.Error("no command should run after cancellation")
	}
}

func TestExecute_ArgumentCounts(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"load", "invalid arguments for load. Usage: load <file> [file2 ...]"},
		{"add", "invalid arguments for add"},
		{"add a b", "invalid arguments for add"},
		{"saveas", "invalid arguments for saveas"},
		{"rotate", "invalid arguments for rotate"},
		{"switch", "invalid arguments for switch"},
		{"collage horizontal a b", "invalid arguments for collage"},
		{"grayscale now", "grayscale command does not accept any arguments"},
		{"undo 2", "undo command does not accept any arguments"},
		{"sessioninfo all", "sessioninfo command does not accept any arguments"},
		{"save x", "save command does not accept any arguments"},
	}

	c, _, _ := newTestConsole(t, "")
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := c.Execute(tt.line)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestExecute_NoActiveSession(t *testing.T) {
	c, _, _ := newTestConsole(t, "")
	for _, line := range []string{"add a", "save", "saveas x.pgm", "negative", "rotate left", "undo", "sessioninfo", "close", "collage horizontal a b c.pgm"} {
		t.Run(line, func(t *testing.T) {
			_, err := c.Execute(line)
			if err == nil || !strings.Contains(err.Error(), "no active session") {
				t.Errorf("got %v, want a no active session error", err)
			}
		})
	}
}

func TestExecute_SessionInfoYAML(t *testing.T) {
	c, buf, _ := newTestConsole(t, "")
	for _, line := range []string{"load a b", "monochrome", "rotate right"} {
		if _, err := c.Execute(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}

	buf.Reset()
	if _, err := c.Execute("sessioninfo"); err != nil {
		t.Fatalf("sessioninfo: %v", err)
	}

	var got session.Summary
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("sessioninfo is not YAML: %v\n%s", err, buf.String())
	}
	want := session.Summary{
		ID:     1,
		Active: true,
		Images: []session.ImageSummary{
			{Name: "a.pgm", Format: "pgm", Width: 2, Height: 1, MaxValue: 255},
			{Name: "b.pgm", Format: "pgm", Width: 2, Height: 1, MaxValue: 255},
		},
		Pending: []string{"monochrome", "rotate_right"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sessioninfo mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_SwitchAndClose(t *testing.T) {
	c, buf, _ := newTestConsole(t, "")
	for _, line := range []string{"load a", "load b", "negative", "load c"} {
		if _, err := c.Execute(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}

	if _, err := c.Execute("switch two"); err == nil || !strings.Contains(err.Error(), "valid number") {
		t.Errorf("switch two: got %v", err)
	}
	if _, err := c.Execute("switch 7"); err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("switch 7: got %v", err)
	}

	buf.Reset()
	if _, err := c.Execute("switch 2"); err != nil {
		t.Fatalf("switch 2: %v", err)
	}
	for _, want := range []string{"Switched to session ID: 2", "Images in session: 1", "Pending transformations: negative"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("switch output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if _, err := c.Execute("close"); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, want := range []string{"Session 2 closed successfully", "Active session: 1", "Available sessions (ID): 1 3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("close output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestExecute_AddCollageSaveAs(t *testing.T) {
	c, buf, out := newTestConsole(t, "")
	for _, line := range []string{"load a", "add b", "collage Vertical a.pgm b.pgm ab.pgm", "negative"} {
		if _, err := c.Execute(line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if !strings.Contains(buf.String(), "Created collage 'ab.pgm' (vertical)") {
		t.Errorf("collage output:\n%s", buf.String())
	}

	if _, err := c.Execute("add c"); err != nil {
		t.Fatalf("add c: %v", err)
	}
	if _, err := c.Execute("collage horizontal a.pgm c.ppm x.pgm"); err == nil {
		t.Error("collage of different formats should fail")
	}
	if _, err := c.Execute("add a.pgm"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate add: got %v", err)
	}

	if _, err := c.Execute("saveas first.ppm"); err == nil || !strings.Contains(err.Error(), "must end with .pgm") {
		t.Errorf("saveas with wrong extension: got %v", err)
	}
	if _, err := c.Execute("saveas first.pgm"); err != nil {
		t.Fatalf("saveas: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "first.pgm"))
	if err != nil {
		t.Fatalf("saveas file missing: %v", err)
	}
	if string(data) != "P2\n2 1\n255\n255 55\n" {
		t.Errorf("saveas file: got %q", data)
	}
}

func TestRun_RecoversFromPanickingCommand(t *testing.T) {
	c, buf, _ := newTestConsole(t, "sessioninfo\nhelp\n")
	c.sessions = nil

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "Error: internal error:") {
		t.Errorf("panic not reported:\n%s", got)
	}
	if !strings.Contains(got, "Available commands:") {
		t.Errorf("loop stopped after the panic:\n%s", got)
	}
}

func TestExecute_LoadOversizedFile(t *testing.T) {
	c, buf, _ := newTestConsole(t, "")

	if _, err := c.Execute("load huge.pbm a"); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := buf.String()
	for _, want := range []string{`Image "a.pgm" added`, "Session with ID: 1 started", "Warning: 1 file(s) could not be loaded: huge.pbm ("} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestHelp(t *testing.T) {
	c, buf, _ := newTestConsole(t, "")
	if _, err := c.Execute("HELP"); err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range append(commandOrder, "help", "exit") {
		if !strings.Contains(buf.String(), "  "+name) {
			t.Errorf("help missing %s:\n%s", name, buf.String())
		}
	}
}
