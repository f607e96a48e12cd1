package main

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// WriteCounter counts the number of bytes written to a stream.
type WriteCounter struct {
	Total uint64
}

func (wc *WriteCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.Total += uint64(n)
	wc.PrintProgress()
	return n, nil
}

// PrintProgress prints the download progress.
func (wc WriteCounter) PrintProgress() {
	fmt.Printf("\rDownloading... %s complete", humanize.IBytes(wc.Total))
}

// downloadFile downloads a URL to a file. It will overwrite the file if it already exists.
func downloadFile(path string, url string) error {
	out, err := os.Create(path + ".tmp")
	if err != nil {
		return err
	}
	defer out.Close()

	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	counter := &WriteCounter{}
	if _, err := io.Copy(out, io.TeeReader(resp.Body, counter)); err != nil {
		return err
	}
	fmt.Println()

	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(path+".tmp", path)
}

// extractFiles copies the named archive members into destDir, flattening their
// paths. It fails when a member is missing.
func extractFiles(archive, destDir string, members ...string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", archive, err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return err
	}

	wanted := make(map[string]bool, len(members))
	for _, m := range members {
		wanted[m] = true
	}
	for _, f := range r.File {
		if !wanted[f.Name] {
			continue
		}
		if err := extractFile(f, filepath.Join(destDir, filepath.Base(f.Name))); err != nil {
			return err
		}
		delete(wanted, f.Name)
	}
	for m := range wanted {
		return fmt.Errorf("%s not found in %s", m, archive)
	}
	return nil
}

func extractFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
