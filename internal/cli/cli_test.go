package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

// --- expandHome ---

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir in this environment")
	}

	cases := []struct {
		input string
		want  string
	}{
		{"~", home},
		{"~/Library/Caches", filepath.Join(home, "Library/Caches")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~user/path", "~user/path"},
	}
	for _, c := range cases {
		if got := expandHome(c.input); got != c.want {
			t.Errorf("expandHome(%q) = %q, want %q", c.input, got, c.want)
		}
	}
}

// --- resolveWorkDir ---

func TestResolveWorkDir(t *testing.T) {
	if got := resolveWorkDir("/flag", "/config"); got != "/flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := resolveWorkDir("", "/config"); got != "/config" {
		t.Errorf("config should win over default, got %q", got)
	}
	def := resolveWorkDir("", "")
	if !strings.HasSuffix(def, "symimport") {
		t.Errorf("default work dir = %q", def)
	}
}

// --- printRun ---

func sampleRun() domain.ImportRun {
	now := time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC)
	return domain.ImportRun{
		ID:               "run-1",
		OSName:           "ios",
		Source:           domain.SourceIPSW,
		RequestedVersion: "latest",
		StartedAt:        now,
		FinishedAt:       now.Add(3 * time.Minute),
		Jobs: []domain.ImportJob{
			{
				Bundle:           domain.BundleID{OSName: "ios", OSVersion: "16.4", Build: "20E247", Arch: "arm64e", Source: domain.SourceIPSW},
				RequestedVersion: "latest",
				ResolvedVersion:  "16.4",
				Status:           domain.JobSucceeded,
			},
			{
				Bundle:           domain.BundleID{OSName: "ios", OSVersion: "16.4", Build: "20E248", Arch: "arm64e", Source: domain.SourceIPSW},
				RequestedVersion: "latest",
				ResolvedVersion:  "16.4",
				Status:           domain.JobFailed,
				Error:            "tool.symsorter: tool: exit status 1",
			},
		},
	}
}

func TestPrintRunPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := printRun(&buf, sampleRun(), "pretty"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"OS:        ios",
		"[OK]",
		"[FAIL]",
		"resolved: latest -> 16.4",
		"error: tool.symsorter",
		"imported=1 skipped=0 failed=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRunJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printRun(&buf, sampleRun(), "json"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"run-1"`) || !strings.Contains(out, `"20E247"`) {
		t.Errorf("json output = %s", out)
	}
}

func TestPrintRunRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := printRun(&buf, sampleRun(), "yaml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestPrintRunSimulatorsHaveNoOSName(t *testing.T) {
	run := domain.ImportRun{Source: domain.SourceSimulator, RequestedVersion: "local"}
	var buf bytes.Buffer
	if err := printRun(&buf, run, "pretty"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "OS:        simulators") {
		t.Errorf("output = %s", buf.String())
	}
	if !strings.Contains(buf.String(), "Nothing to import.") {
		t.Errorf("output = %s", buf.String())
	}
}

// --- newestBundle ---

func TestNewestBundle(t *testing.T) {
	names := []string{
		"16.4_20E247_arm64e",
		"16.10_20G5_arm64e",
		"simulator_22E261_17.0_21A328_arm64",
		"not-a-bundle",
	}

	got, ok := newestBundle(names)
	if !ok {
		t.Fatal("expected a newest bundle")
	}
	// Semantic ordering: 16.10 > 16.4, and simulator bundles are skipped.
	if got != "16.10 (20G5, arm64e)" {
		t.Fatalf("newestBundle = %q", got)
	}
}

func TestNewestBundleEmptyListing(t *testing.T) {
	if _, ok := newestBundle(nil); ok {
		t.Fatal("expected no newest bundle for an empty listing")
	}
	if _, ok := newestBundle([]string{"simulator_22E261_17.0_21A328_arm64"}); ok {
		t.Fatal("simulator-only listings have no firmware bundle")
	}
}

// --- sortedOSNames ---

func TestSortedOSNames(t *testing.T) {
	devices := map[string][]domain.Device{
		"tvos":  {},
		"ios":   {},
		"macos": {},
	}
	got := sortedOSNames(devices)
	want := []string{"ios", "macos", "tvos"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// --- command surface ---

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()

	want := map[string]bool{
		"firmware": false, "simulators": false, "status": false,
		"serve": false, "version": false,
	}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestFirmwareRejectsSimulatorType(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"firmware", "--os-name", "ios", "--type", "simulator"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for --type simulator")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "symimport") {
		t.Errorf("version output = %q", buf.String())
	}
}
