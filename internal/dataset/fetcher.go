package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
)

// Fetcher retrieves sample datasets over HTTP and writes placeholders for
// datasets without a public source.
type Fetcher struct {
	httpClient *http.Client
	clock      clockwork.Clock
	root       string
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher rooted at the workspace directory. The timeout
// bounds each individual download.
func NewFetcher(root string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		clock:      clock,
		root:       root,
		logger:     logger,
	}
}

// FetchAll materializes each dataset independently: a failure is recorded in
// that dataset's Result and logged, and never prevents the remaining datasets
// from being processed.
func (f *Fetcher) FetchAll(ctx context.Context, datasets []Dataset) []Result {
	results := make([]Result, 0, len(datasets))
	for _, ds := range datasets {
		res := f.fetchOne(ctx, ds)
		if res.Err != nil {
			f.logger.Error("dataset fetch failed", "dataset", ds.Name, "error", res.Err)
		}
		results = append(results, res)
	}
	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, ds Dataset) Result {
	start := f.clock.Now()
	res := Result{Dataset: ds, FetchedAt: start}

	dest := filepath.Join(f.root, filepath.FromSlash(ds.Dest))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		res.Err = fmt.Errorf("create dataset directory: %w", err)
		return res
	}

	if ds.SourceURL == "" {
		res.Placeholder = true
		res.Bytes, res.Err = f.writePlaceholder(ds, dest)
		res.Duration = f.clock.Since(start)
		if res.Err == nil {
			f.logger.Info("created dataset placeholder", "dataset", ds.Name, "path", ds.Dest)
		}
		return res
	}

	f.logger.Info("downloading dataset", "dataset", ds.Name, "url", ds.SourceURL)
	res.Bytes, res.Err = f.download(ctx, ds.SourceURL, dest)
	res.Duration = f.clock.Since(start)
	if res.Err == nil {
		f.logger.Info("downloaded dataset",
			"dataset", ds.Name,
			"path", ds.Dest,
			"bytes", res.Bytes,
			"duration", res.Duration,
		)
	}
	return res
}

func (f *Fetcher) download(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create dataset file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return n, fmt.Errorf("write dataset file: %w", err)
	}
	return n, nil
}

func (f *Fetcher) writePlaceholder(ds Dataset, dest string) (int64, error) {
	content := fmt.Sprintf("# Placeholder for the %s dataset.\n# %s\n# Generated by setup at %s.\n",
		ds.Name, ds.Note, f.clock.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("write placeholder: %w", err)
	}
	return int64(len(content)), nil
}
