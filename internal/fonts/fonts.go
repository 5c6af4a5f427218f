// Package fonts fetches and installs the Tex Gyre font archive on systems
// that do not package it.
package fonts

import (
	"archive/tar"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/schollz/progressbar/v3"
	"github.com/ulikunitz/xz"

	"github.com/ndf-zz/metarace-install/internal/fsutil"
	"github.com/ndf-zz/metarace-install/internal/messages"
	"github.com/ndf-zz/metarace-install/internal/runner"
)

// fontExtensions lists the archive members copied out during extraction.
var fontExtensions = map[string]bool{
	".otf": true,
	".ttf": true,
}

// Fetcher downloads and unpacks a font archive into a user font directory.
type Fetcher struct {
	Client *http.Client
	Out    io.Writer
	// Progress disables the download progress bar when false, for
	// non-interactive runs and tests.
	Progress bool
}

// NewFetcher returns a Fetcher with a generously timed client; font archives
// are fetched from a single slow static host.
func NewFetcher(out io.Writer, progress bool) *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: 5 * time.Minute},
		Out:      out,
		Progress: progress,
	}
}

// Install fetches the archive at url and extracts its font files flat into
// destDir. It returns the number of fonts installed.
func (f *Fetcher) Install(url string, destDir string) (int, error) {
	_, _ = fmt.Fprintf(f.Out, messages.FontsFetchFmt, url)
	resp, err := f.Client.Get(url)
	if err != nil {
		return 0, fmt.Errorf(messages.FontsRequestFmt, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf(messages.FontsStatusFmt, url, resp.Status)
	}

	body := io.Reader(resp.Body)
	if f.Progress {
		bar := progressbar.DefaultBytes(resp.ContentLength, "fonts")
		body = io.TeeReader(resp.Body, bar)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, fmt.Errorf(messages.DesktopCreateDirFmt, destDir, err)
	}
	count, err := extract(body, url, destDir)
	if err != nil {
		return 0, err
	}
	_, _ = fmt.Fprintf(f.Out, messages.FontsInstalledFmt, count, destDir)
	return count, nil
}

// extract unpacks the tar stream, decompressed per the archive suffix, and
// writes each font member flat into destDir.
func extract(r io.Reader, url string, destDir string) (int, error) {
	var tarStream io.Reader
	switch {
	case strings.HasSuffix(url, ".tar.xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return 0, fmt.Errorf(messages.FontsExtractFmt, err)
		}
		tarStream = xr
	case strings.HasSuffix(url, ".tar.gz"), strings.HasSuffix(url, ".tgz"):
		gr, err := pgzip.NewReader(r)
		if err != nil {
			return 0, fmt.Errorf(messages.FontsExtractFmt, err)
		}
		defer func() {
			_ = gr.Close()
		}()
		tarStream = gr
	default:
		return 0, fmt.Errorf(messages.FontsUnsupportedFmt, path.Base(url))
	}

	count := 0
	tr := tar.NewReader(tarStream)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf(messages.FontsExtractFmt, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if !fontExtensions[strings.ToLower(filepath.Ext(hdr.Name))] {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return count, fmt.Errorf(messages.FontsExtractFmt, err)
		}
		dest := filepath.Join(destDir, filepath.Base(hdr.Name))
		if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// RefreshCache rebuilds the font cache best-effort; a missing fc-cache only
// delays font visibility until an unrelated cache rebuild.
func RefreshCache(run runner.Runner, out io.Writer) {
	if _, err := run.LookPath("fc-cache"); err != nil {
		_, _ = fmt.Fprintf(out, messages.FontsCacheSkipFmt, err)
		return
	}
	if err := run.Run("fc-cache", "-f"); err != nil {
		_, _ = fmt.Fprintf(out, messages.FontsCacheSkipFmt, err)
	}
}
