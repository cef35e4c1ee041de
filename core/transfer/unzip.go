package transfer

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Unzip extracts every regular file of archive into dir and returns the path
// of the first one, which is the feed. Entries escaping dir are rejected.
func Unzip(archive, dir string) (string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return "", &TransferError{Op: "unzip", Path: archive, Err: err}
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return "", &TransferError{Op: "unzip", Path: archive, Err: err}
	}

	first := ""
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(root, f.Name)
		if !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return "", &TransferError{Op: "unzip", Path: archive, Err: fmt.Errorf("entry %q escapes destination", f.Name)}
		}
		if err := extract(f, target); err != nil {
			return "", &TransferError{Op: "unzip", Path: archive, Err: err}
		}
		if first == "" {
			first = target
		}
	}
	if first == "" {
		return "", &TransferError{Op: "unzip", Path: archive, Err: fmt.Errorf("archive is empty")}
	}
	return first, nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
