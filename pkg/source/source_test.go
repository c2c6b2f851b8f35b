package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"friendsofmonika/masvalidator/pkg/config"
	"friendsofmonika/masvalidator/pkg/telemetry/metrics"
)

func TestNewFetcher(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{mode: ModeHTTP},
		{mode: ModeGit},
		{mode: ModeFile},
		{mode: "ftp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := config.Default().Sources
			cfg.Mode = tt.mode
			cfg.Git.CloneDir = t.TempDir()
			cfg.File.Root = t.TempDir()

			f, err := NewFetcher(&cfg, nil, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFetcher() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && f == nil {
				t.Fatal("NewFetcher() returned nil fetcher")
			}
		})
	}
}

func TestNewFetcher_RecordsMetrics(t *testing.T) {
	root := t.TempDir()
	repo := Repo{Owner: "o", Name: "r", Ref: "master"}
	if err := os.MkdirAll(filepath.Join(root, "o", "r"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "o", "r", "a.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Sources.Mode = ModeFile
	cfg.Sources.File.Root = root
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	f, err := NewFetcher(&cfg.Sources, collector, nil)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	ctx := context.Background()
	f.FetchText(ctx, repo, "a.json")
	f.FetchText(ctx, repo, "b.json")

	count, err := testutil.GatherAndCount(collector.Registry(), "masvalidator_source_fetches_total")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count != 2 {
		t.Errorf("fetch series = %d, want 2 (success and error)", count)
	}
}

func TestRepoString(t *testing.T) {
	r := RepoFromConfig(config.RepoConfig{Owner: "a", Name: "b", Ref: "c", Path: "ignored"})
	if r.String() != "a/b@c" {
		t.Errorf("String() = %q", r.String())
	}
}
