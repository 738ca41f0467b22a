package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestOpError_MessageAndUnwrap(t *testing.T) {
	inner := errors.New("exit status 1")
	err := &OpError{
		Op:   "gsutil.stat",
		Kind: KindBucket,
		Path: "tvos/bundles/16.4_20L497_arm64",
		Err:  inner,
	}

	msg := err.Error()
	for _, want := range []string{"gsutil.stat", "bucket", "tvos/bundles", "exit status 1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}

	if !errors.Is(err, inner) {
		t.Fatalf("expected errors.Is to reach the inner error")
	}
}

func TestIsKind(t *testing.T) {
	err := &OpError{Op: "feed.lookup", Kind: KindNetwork, Err: errors.New("timeout")}

	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected KindNetwork")
	}
	if IsKind(err, KindTool) {
		t.Fatalf("did not expect KindTool")
	}
	if IsKind(errors.New("plain"), KindNetwork) {
		t.Fatalf("plain errors have no kind")
	}
}
