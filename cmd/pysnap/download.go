package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/sakif/pysnap/internal/artifact"
	"github.com/sakif/pysnap/internal/workspace"
)

// Fetcher streams the bytes at a download URL.
type Fetcher interface {
	Download(ctx context.Context, rawURL string, w io.Writer) (int64, error)
}

// downloader is the terminal's answer to "navigate to the download URL":
// it saves the file into dir under the name the URL ends with.
type downloader struct {
	fetch  Fetcher
	dir    string
	record artifact.Navigator
	logger *slog.Logger
}

func (d *downloader) Navigate(ctx context.Context, rawURL string) error {
	if d.record != nil {
		_ = d.record.Navigate(ctx, rawURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing download url: %w", err)
	}
	name := path.Base(u.Path)
	if err := workspace.ValidateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return err
	}
	// Write next to the target and rename, so a failed transfer never
	// leaves a truncated file behind.
	tmp, err := os.CreateTemp(d.dir, "."+name+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := d.fetch.Download(ctx, rawURL, tmp)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	dest := filepath.Join(d.dir, name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return err
	}
	d.logger.Info("downloaded", slog.String("file", dest), slog.Int64("bytes", n))
	return nil
}
