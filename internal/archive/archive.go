package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when an archive member would escape the
// extraction directory.
var ErrUnsafePath = errors.New("archive: member path escapes extraction directory")

// ExtractAndFlatten expands the tar archive at archivePath into its
// parent directory and flattens the resulting top-level directory: every
// entry directly under <archive-minus-extension>/ is moved up one level,
// merging with existing siblings, and the emptied directory is removed.
// With cleanup set, the archive file itself is removed too; otherwise
// archive and intermediate directory are left in place.
func ExtractAndFlatten(archivePath string, cleanup bool) error {
	parent := filepath.Dir(archivePath)

	if err := extract(archivePath, parent); err != nil {
		return fmt.Errorf("extract %s: %w", archivePath, err)
	}

	subdir := strings.TrimSuffix(archivePath, filepath.Ext(archivePath))
	if err := flatten(subdir, parent); err != nil {
		return fmt.Errorf("flatten %s: %w", subdir, err)
	}

	if cleanup {
		if err := os.Remove(archivePath); err != nil {
			return fmt.Errorf("remove archive: %w", err)
		}
	}

	return nil
}

// extract unpacks every member of the tar archive into dir.
func extract(archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("mkdir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("mkdir %s: %w", filepath.Dir(target), err)
			}
			if err := writeMember(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		default:
			// Symlinks and specials do not occur in tile archives; skip.
		}
	}
}

func writeMember(target string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}

// safeJoin joins name under dir, rejecting traversal outside dir.
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// flatten moves every direct child of subdir into parent and removes the
// emptied subdir. Existing siblings in parent are replaced.
func flatten(subdir, parent string) error {
	entries, err := os.ReadDir(subdir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		src := filepath.Join(subdir, entry.Name())
		dst := filepath.Join(parent, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("move %s: %w", entry.Name(), err)
		}
	}

	if err := os.Remove(subdir); err != nil {
		return fmt.Errorf("remove empty dir: %w", err)
	}

	return nil
}
