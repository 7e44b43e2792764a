package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	yaml "gopkg.in/yaml.v2"

	appErrors "shootcopy/internal/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"SHOOTCOPY_SOURCE_DIR",
		"SHOOTCOPY_TARGET_DIR",
		"SHOOTCOPY_GAP_MINUTES",
		"SHOOTCOPY_VERBOSE",
		"SHOOTCOPY_PARALLELISM",
	} {
		t.Setenv(key, "")
	}
	work := t.TempDir()
	t.Chdir(work)
	return work
}

func makeCard(t *testing.T) string {
	t.Helper()
	card := t.TempDir()
	dir := filepath.Join(card, "DCIM", "100_PANA")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		"P1000001.JPG": "jpeg one",
		"P1000001.RW2": "raw one",
		"P1000002.MOV": "movie",
		"notes.txt":    "ignored",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(card, ".Trashes"), 0o755); err != nil {
		t.Fatal(err)
	}
	return card
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestDryRunListsShoots(t *testing.T) {
	isolate(t)
	card := makeCard(t)

	out, _, err := run(t, "", "--dry-run", card)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Found DCIM folder") || !strings.Contains(out, "Detected 1 photoshoots:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Select shoots") {
		t.Fatalf("dry run should not prompt:\n%s", out)
	}
}

func TestBackupWithFlags(t *testing.T) {
	isolate(t)
	card := makeCard(t)
	target := filepath.Join(t.TempDir(), "backup")

	out, _, err := run(t, "", "--select", "all", "--target", target, card)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}

	folders, err := os.ReadDir(target)
	if err != nil || len(folders) != 1 {
		t.Fatalf("expected one shoot folder, got %v (%v)", folders, err)
	}
	shoot := filepath.Join(target, folders[0].Name())
	if !strings.HasSuffix(shoot, "_project_1") {
		t.Fatalf("unexpected folder name %s", shoot)
	}
	for _, rel := range []string{"jpg/P1000001.JPG", "rw2/P1000001.RW2", "mov/P1000002.MOV"} {
		if _, err := os.Stat(filepath.Join(shoot, rel)); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(shoot, "txt")); err == nil {
		t.Fatal("files outside the extension list must not be copied")
	}
	if !strings.Contains(out, "Backing up shoot 1") || !strings.Contains(out, "Backup completed! 3 files") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestBackupPromptsForSelectionAndTarget(t *testing.T) {
	work := isolate(t)
	card := makeCard(t)

	out, _, err := run(t, "1\n\n", card)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Select shoots to backup") || !strings.Contains(out, "leave empty for default './auto-backup'") {
		t.Fatalf("expected prompts:\n%s", out)
	}
	entries, err := os.ReadDir(filepath.Join(work, "auto-backup"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected default target to hold one shoot, got %v (%v)", entries, err)
	}
}

func TestBackupReportsInvalidSelection(t *testing.T) {
	isolate(t)
	card := makeCard(t)
	target := t.TempDir()

	_, errOut, err := run(t, "", "--select", "1 5", "--target", target, card)
	if appErrors.KindOf(err) != appErrors.Incomplete {
		t.Fatalf("expected incomplete error, got %v", err)
	}
	if !strings.Contains(err.Error(), "1 failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !strings.Contains(errOut, "Invalid shoot index: 5") {
		t.Fatalf("expected warning on stderr, got %q", errOut)
	}
}

func TestBackupWithEmptySelectionDoesNothing(t *testing.T) {
	isolate(t)
	card := makeCard(t)
	target := filepath.Join(t.TempDir(), "backup")

	out, _, err := run(t, "none\n", "--target", target, card)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No shoots selected.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(target); err == nil {
		t.Fatal("target should not be created")
	}
}

func TestListYAML(t *testing.T) {
	isolate(t)
	card := makeCard(t)

	out, _, err := run(t, "", "list", "--format", "yaml", "--log-format", "json", filepath.Join(card, "DCIM"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// JSON log lines precede the YAML document
	var doc strings.Builder
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "{") {
			continue
		}
		doc.WriteString(line + "\n")
	}
	var listing []map[string]any
	if err := yaml.Unmarshal([]byte(doc.String()), &listing); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, out)
	}
	if len(listing) != 1 || listing[0]["total"] != 3 {
		t.Fatalf("unexpected listing %v", listing)
	}
}

func TestMissingSource(t *testing.T) {
	isolate(t)

	_, _, err := run(t, "", "--dry-run", filepath.Join(t.TempDir(), "missing"))
	if appErrors.KindOf(err) != appErrors.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Path not found:") {
		t.Fatalf("expected user message, got %q", err.Error())
	}
}

func TestNoSourceWithoutDefaultVolume(t *testing.T) {
	isolate(t)
	if _, err := os.Stat("/Volumes/LUMIX"); err == nil {
		t.Skip("default volume is mounted")
	}

	_, _, err := run(t, "", "--dry-run")
	if appErrors.KindOf(err) != appErrors.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMissingDCIM(t *testing.T) {
	isolate(t)
	card := t.TempDir()

	_, _, err := run(t, "", "--dry-run", card)
	if appErrors.KindOf(err) != appErrors.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvalidFlagValue(t *testing.T) {
	isolate(t)
	card := makeCard(t)

	_, _, err := run(t, "", "--dry-run", "--timestamp-source", "xmp", card)
	if appErrors.KindOf(err) != appErrors.InvalidConfig {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestBackupCountsFilesWithoutTimestamp(t *testing.T) {
	isolate(t)
	card := makeCard(t)
	// a dangling link cannot be timestamped, even by root
	if err := os.Symlink(filepath.Join(card, "gone.JPG"), filepath.Join(card, "DCIM", "100_PANA", "P1000009.JPG")); err != nil {
		t.Fatal(err)
	}
	target := t.TempDir()

	out, errOut, err := run(t, "", "--select", "all", "--target", target, card)
	if appErrors.KindOf(err) != appErrors.Incomplete {
		t.Fatalf("expected incomplete error, got %v\n%s", err, out)
	}
	if !strings.Contains(err.Error(), "1 failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !strings.Contains(errOut, "WARNING: no timestamp for P1000009.JPG") {
		t.Fatalf("expected warning without --verbose, got %q", errOut)
	}
	if !strings.Contains(out, "Skipped 1 unreadable files on the card") {
		t.Fatalf("expected skipped line in summary:\n%s", out)
	}
}
