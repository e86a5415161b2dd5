package resolver

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/sgrep/pkg/errors"
	"github.com/arthur-debert/sgrep/pkg/paths"
)

// maxArchiveBytes caps total extracted size (500 MB). Prevents
// decompression bombs from a compromised registry mirror.
const maxArchiveBytes = 500 << 20

// extractArchive unpacks a gzip-compressed tarball into a scratch
// directory owned exclusively by this call, then scans the first
// top-level directory inside it. Rule archives from hosting services
// wrap everything in one synthetic top directory; an archive without
// one has no defined layout and is fatal. The scratch directory is
// removed on every exit path once the scan has produced its documents.
func (r *Resolver) extractArchive(url string, stream io.Reader) (ConfigSet, error) {
	if err := os.MkdirAll(paths.CacheDir(), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "cannot create cache directory")
	}
	scratch, err := os.MkdirTemp(paths.CacheDir(), "extract-*")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDirCreate, "cannot create scratch directory")
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	if err := extractTarGz(stream, scratch); err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveExtract,
			"cannot extract archive from %s", url)
	}

	root, err := archiveRoot(scratch, url)
	if err != nil {
		return nil, err
	}
	return r.scanFolder(root, true), nil
}

// archiveRoot locates the first top-level directory of the extracted
// archive, in lexicographic order; loose top-level files are ignored.
func archiveRoot(scratch, url string) (string, error) {
	entries, err := os.ReadDir(scratch)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrArchiveExtract, "cannot read extracted archive")
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(scratch, entry.Name()), nil
		}
	}
	return "", errors.Newf(errors.ErrArchiveLayout,
		"archive from %s has no top-level directory to scan", url)
}

// extractTarGz fully extracts a .tar.gz stream into dest before anything
// reads it. Member paths are confined to dest; symlinks and other
// special entries are skipped.
func extractTarGz(stream io.Reader, dest string) error {
	gz, err := gzip.NewReader(stream)
	if err != nil {
		return err
	}
	defer func() { _ = gz.Close() }()

	var written int64
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := confinePath(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			n, err := writeFileCapped(target, tr, maxArchiveBytes-written)
			written += n
			if err != nil {
				return err
			}
		default:
			// symlinks, devices, etc. have no place in a rule archive
		}
	}
}

// confinePath joins name onto dest and rejects members that would
// escape it.
func confinePath(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrArchiveExtract, "archive member escapes extraction root: %s", name)
	}
	return filepath.Join(dest, cleaned), nil
}

func writeFileCapped(target string, src io.Reader, budget int64) (int64, error) {
	if budget <= 0 {
		return 0, errors.New(errors.ErrArchiveExtract, "archive exceeds extraction size limit")
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	n, err := io.Copy(f, io.LimitReader(src, budget+1))
	if err != nil {
		return n, err
	}
	if n > budget {
		return n, errors.New(errors.ErrArchiveExtract, "archive exceeds extraction size limit")
	}
	return n, nil
}
