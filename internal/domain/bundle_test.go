package domain

import "testing"

func TestBundleID_Firmware(t *testing.T) {
	b := BundleID{
		OSName:    "tvos",
		OSVersion: "16.4",
		Build:     "20L497",
		Arch:      "arm64",
		Source:    SourceIPSW,
	}

	if got := b.ID(); got != "16.4_20L497_arm64" {
		t.Fatalf("ID() = %q", got)
	}
	if got := b.BucketPath(); got != "tvos/bundles/16.4_20L497_arm64" {
		t.Fatalf("BucketPath() = %q", got)
	}
}

func TestBundleID_Simulator(t *testing.T) {
	b := BundleID{
		OSName:       "ios",
		OSVersion:    "16.4",
		Build:        "20E247",
		Arch:         "arm64e",
		Source:       SourceSimulator,
		MacOSVersion: "22E261",
	}

	if got := b.ID(); got != "simulator_22E261_16.4_20E247_arm64e" {
		t.Fatalf("ID() = %q", got)
	}
	if got := b.BucketPath(); got != "ios/bundles/simulator_22E261_16.4_20E247_arm64e" {
		t.Fatalf("BucketPath() = %q", got)
	}
}

func TestParseSourceType(t *testing.T) {
	cases := []struct {
		in      string
		want    SourceType
		wantErr bool
	}{
		{"ipsw", SourceIPSW, false},
		{"OTA", SourceOTA, false},
		{" simulator ", SourceSimulator, false},
		{"dmg", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseSourceType(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSourceType(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSourceType(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSourceType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFirmware_BuildKeyDedup(t *testing.T) {
	a := Firmware{OSName: "ios", OSVersion: "16.5", Build: "20F66", Arch: "arm64e", Source: SourceIPSW}
	b := Firmware{OSName: "ios", OSVersion: "16.5", Build: "20F66", Arch: "arm64e", Source: SourceIPSW}
	c := Firmware{OSName: "ios", OSVersion: "16.5", Build: "20F66", Arch: "arm64", Source: SourceIPSW}

	if a.BuildKey() != b.BuildKey() {
		t.Fatalf("expected identical build keys, got %q vs %q", a.BuildKey(), b.BuildKey())
	}
	if a.BuildKey() == c.BuildKey() {
		t.Fatalf("expected distinct build keys for different arch")
	}
}
