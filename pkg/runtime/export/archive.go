package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"
)

const contentTypesEntry = "[Content_Types].xml"

// archiveEpoch is stamped on every entry so that equal documents produce
// equal archives.
var archiveEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// normalizeArchive rewrites an OOXML package with sorted entries and fixed
// timestamps. The content types part stays first.
func normalizeArchive(out io.Writer, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	files := append([]*zip.File(nil), zr.File...)
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Name == contentTypesEntry || files[j].Name == contentTypesEntry {
			return files[i].Name == contentTypesEntry
		}
		return files[i].Name < files[j].Name
	})

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := copyEntry(zw, f); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func copyEntry(zw *zip.Writer, f *zip.File) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := zw.CreateHeader(&zip.FileHeader{
		Name:     f.Name,
		Method:   zip.Deflate,
		Modified: archiveEpoch,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy %s: %w", f.Name, err)
	}
	return nil
}
