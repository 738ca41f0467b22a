package httpclient

import "testing"

func TestFeedConfigHasTotalTimeout(t *testing.T) {
	cfg := FeedConfig()
	if cfg.Timeout <= 0 {
		t.Fatalf("feed requests need a total timeout, got %v", cfg.Timeout)
	}
}

func TestDownloadConfigHasNoTotalTimeout(t *testing.T) {
	cfg := DownloadConfig()
	if cfg.Timeout != 0 {
		t.Fatalf("downloads must not have a total timeout, got %v", cfg.Timeout)
	}
	if cfg.ResponseHeader <= 0 {
		t.Fatalf("downloads still need a response-header timeout")
	}
}

func TestNewBuildsClient(t *testing.T) {
	c := New(FeedConfig())
	if c == nil || c.Transport == nil {
		t.Fatalf("expected a configured client")
	}
	if c.Timeout != FeedConfig().Timeout {
		t.Fatalf("timeout not applied")
	}
}
