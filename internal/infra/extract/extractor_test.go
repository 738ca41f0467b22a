package extract

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/getsentry/apple-system-symbols-upload/internal/domain"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls   []call
	outputs map[string]string // keyed by tool name
	errFor  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.errFor[name]
}

func (f *fakeRunner) Output(_ context.Context, _ string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	return f.outputs[name], f.errFor[name]
}

type tmpStager struct {
	base string
}

func (s *tmpStager) TempDir(prefix string) (string, func() error, error) {
	dir, err := os.MkdirTemp(s.base, prefix)
	if err != nil {
		return "", nil, err
	}
	return dir, func() error { return os.RemoveAll(dir) }, nil
}

func (f *fakeRunner) named(name string) []call {
	var out []call
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func TestSymsorterArgs(t *testing.T) {
	got := symsorterArgs("/out", "tvos", "16.4_20L497_arm64", "/dylibs")
	want := []string{"-zz", "--ignore-errors", "-o", "/out", "--prefix", "tvos", "--bundle-id", "16.4_20L497_arm64", "/dylibs"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("symsorterArgs = %v", got)
	}
}

func TestIsSharedCacheFile(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		want   bool
	}{
		{"dyld_shared_cache_arm64e", firmwareCachePrefix, true},
		{"dyld_shared_cache_arm64e.1", firmwareCachePrefix, false},
		{"dyld_shared_cache_arm64e.map", firmwareCachePrefix, false},
		{"other_file", firmwareCachePrefix, false},
		{"dyld_sim_shared_cache_arm64e", simulatorCachePrefix, true},
		{"dyld_sim_shared_cache_arm64e.map", simulatorCachePrefix, false},
	}

	for _, tc := range cases {
		if got := isSharedCacheFile(tc.name, tc.prefix); got != tc.want {
			t.Fatalf("isSharedCacheFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParseAttachOutput(t *testing.T) {
	out := strings.Join([]string{
		"/dev/disk4          \tGUID_partition_scheme          \t",
		"/dev/disk4s1        \tApple_APFS                     \t",
		"/dev/disk4s1s1      \tAPFS Volume                    \t/Volumes/SystemRoot",
	}, "\n")

	if got := parseAttachOutput(out); got != "/Volumes/SystemRoot" {
		t.Fatalf("parseAttachOutput = %q", got)
	}
	if got := parseAttachOutput("no volumes here"); got != "" {
		t.Fatalf("expected empty for no mount point, got %q", got)
	}
}

func simRuntimeDir(t *testing.T) domain.SimRuntime {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{
		"dyld_sim_shared_cache_arm64e",
		"dyld_sim_shared_cache_arm64e.map",
		"dyld_sim_shared_cache_x86_64",
		".DS_Store",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return domain.SimRuntime{
		OSName:       "ios",
		OSVersion:    "16.4",
		Build:        "20E247",
		Arch:         "arm64e",
		MacOSVersion: "22E261",
		Path:         dir,
	}
}

func TestExtractRuntime_ExtractsOnlyTheRuntimeArch(t *testing.T) {
	rt := simRuntimeDir(t)
	run := &fakeRunner{}
	e := NewExtractor(domain.DefaultConfig().Tools, run, &tmpStager{base: t.TempDir()}, nil)

	if err := e.ExtractRuntime(context.Background(), rt, "/staging"); err != nil {
		t.Fatalf("ExtractRuntime: %v", err)
	}

	// The x86_64 cache in the same dir belongs to a sibling runtime.
	dsc := run.named("dyld-shared-cache-extractor")
	if len(dsc) != 1 {
		t.Fatalf("expected one dsc-extractor call, got %d", len(dsc))
	}
	if want := filepath.Join(rt.Path, "dyld_sim_shared_cache_arm64e"); dsc[0].args[0] != want {
		t.Fatalf("dsc input = %q, want %q", dsc[0].args[0], want)
	}

	sorts := run.named("symsorter")
	if len(sorts) != 1 {
		t.Fatalf("expected one symsorter call, got %d", len(sorts))
	}
	joined := strings.Join(sorts[0].args, " ")
	if !strings.Contains(joined, "--bundle-id simulator_22E261_16.4_20E247_arm64e") {
		t.Fatalf("symsorter args missing simulator bundle id: %q", joined)
	}
	if !strings.Contains(joined, "--prefix ios") {
		t.Fatalf("symsorter args missing prefix: %q", joined)
	}
}

func TestExtractRuntime_MissingCacheIsNotFound(t *testing.T) {
	rt := simRuntimeDir(t)
	rt.Arch = "armv7"
	e := NewExtractor(domain.DefaultConfig().Tools, &fakeRunner{}, &tmpStager{base: t.TempDir()}, nil)

	err := e.ExtractRuntime(context.Background(), rt, "/staging")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestExtract_UnknownSourceFails(t *testing.T) {
	e := NewExtractor(domain.DefaultConfig().Tools, &fakeRunner{}, &tmpStager{base: t.TempDir()}, nil)

	_, err := e.Extract(context.Background(), "/a.zip", "/out", domain.Firmware{Source: domain.SourceSimulator})
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestExtractOTA_NoCachesIsToolError(t *testing.T) {
	// The fake ipsw tool extracts nothing, so the payload dir stays empty.
	run := &fakeRunner{}
	e := NewExtractor(domain.DefaultConfig().Tools, run, &tmpStager{base: t.TempDir()}, nil)

	fw := domain.Firmware{
		OSName: "ios", OSVersion: "16.5", Build: "20F66", Arch: "arm64e",
		Source: domain.SourceOTA,
	}
	_, err := e.Extract(context.Background(), "/ota.zip", "/out", fw)
	if !domain.IsKind(err, domain.KindTool) {
		t.Fatalf("expected tool kind, got %v", err)
	}
	if len(run.named("ipsw")) != 1 {
		t.Fatalf("expected the ipsw tool to be invoked")
	}
}
