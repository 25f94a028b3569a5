package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultMaxEntryBytes caps one decompressed archive member. The national
// 500k county .shp is a few tens of megabytes.
const DefaultMaxEntryBytes int64 = 512 << 20

// ExtractZIP unpacks every member of zipPath under destDir and returns the
// written file paths in archive order. A member that would land outside
// destDir, or that decompresses to more than maxEntryBytes, fails the whole
// extraction. maxEntryBytes <= 0 means DefaultMaxEntryBytes.
func ExtractZIP(zipPath, destDir string, maxEntryBytes int64) ([]string, error) {
	if maxEntryBytes <= 0 {
		maxEntryBytes = DefaultMaxEntryBytes
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var paths []string
	for _, member := range r.File {
		if !filepath.IsLocal(member.Name) {
			return nil, eris.Errorf("zip: illegal path %q (zip slip attempt)", member.Name)
		}
		dest := filepath.Join(destDir, member.Name)

		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return nil, eris.Wrapf(err, "zip: create directory %s", member.Name)
			}
			continue
		}
		if member.UncompressedSize64 > uint64(maxEntryBytes) {
			return nil, eris.Errorf("zip: %s declares %d bytes, limit is %d", member.Name, member.UncompressedSize64, maxEntryBytes)
		}
		if err := writeMember(member, dest, maxEntryBytes); err != nil {
			return nil, err
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

// writeMember copies one member to dest, stopping once it passes limit
// bytes regardless of what the header declared.
func writeMember(member *zip.File, dest string, limit int64) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return eris.Wrapf(err, "zip: create parent of %s", member.Name)
	}

	rc, err := member.Open()
	if err != nil {
		return eris.Wrapf(err, "zip: open %s", member.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "zip: create %s", dest)
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		return eris.Wrapf(err, "zip: write %s", member.Name)
	}
	if n > limit {
		return eris.Errorf("zip: %s exceeds %d bytes", member.Name, limit)
	}
	return nil
}

// FindByExt returns the first path with the given extension, ignoring case.
func FindByExt(paths []string, ext string) (string, bool) {
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ext) {
			return p, true
		}
	}
	return "", false
}
