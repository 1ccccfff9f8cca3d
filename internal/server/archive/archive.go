// Package archive encodes snapshots as zip archives and reads them back.
//
// An archive carries two entries: DataEntry with the full snapshot document
// and InfoEntry with the manifest only, so callers can preview record counts
// without parsing every record.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
)

const (
	DataEntry = "backup.json"
	InfoEntry = "backup-info.json"
)

// MaxEntrySize bounds the decompressed size of a single entry.
var MaxEntrySize int64 = 1 << 30

// Write encodes s into a zip archive on w and returns the manifest that was
// stored alongside it.
func Write(w io.Writer, s *snapshot.Snapshot) (*snapshot.Manifest, error) {
	zw := zip.NewWriter(w)
	modified := s.ExportDate
	if modified.IsZero() {
		modified = time.Now()
	}

	data, err := zw.CreateHeader(&zip.FileHeader{Name: DataEntry, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", DataEntry, err)
	}
	if err := json.NewEncoder(data).Encode(s); err != nil {
		return nil, fmt.Errorf("encode %s: %w", DataEntry, err)
	}

	manifest := s.Manifest()
	info, err := zw.CreateHeader(&zip.FileHeader{Name: InfoEntry, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", InfoEntry, err)
	}
	enc := json.NewEncoder(info)
	enc.SetIndent("", "  ")
	if err := enc.Encode(manifest); err != nil {
		return nil, fmt.Errorf("encode %s: %w", InfoEntry, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return manifest, nil
}

// ReadSnapshot opens the archive in data and decodes its DataEntry.
// A non-zip payload or a missing entry yields common.ErrMalformedArchive;
// decoding failures yield common.ErrInvalidSnapshotFormat.
func ReadSnapshot(data []byte) (*snapshot.Snapshot, error) {
	zr, err := open(data)
	if err != nil {
		return nil, err
	}

	doc, err := readEntry(zr, DataEntry)
	if err != nil {
		return nil, err
	}

	return snapshot.Decode(doc)
}

// ReadManifest returns the manifest of the archive in data. When InfoEntry
// is absent the manifest is derived from DataEntry.
func ReadManifest(data []byte) (*snapshot.Manifest, error) {
	zr, err := open(data)
	if err != nil {
		return nil, err
	}

	doc, err := readEntry(zr, InfoEntry)
	switch {
	case err == nil:
		m := &snapshot.Manifest{}
		if err := json.Unmarshal(doc, m); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", common.ErrMalformedArchive, InfoEntry, err)
		}
		if m.TotalRecords == nil {
			m.TotalRecords = snapshot.Counts{}
		}
		return m, nil
	case errors.Is(err, errEntryNotFound):
		doc, err := readEntry(zr, DataEntry)
		if err != nil {
			return nil, err
		}
		s, err := snapshot.Decode(doc)
		if err != nil {
			return nil, err
		}
		return s.Manifest(), nil
	default:
		return nil, err
	}
}

var errEntryNotFound = errors.New("entry not found")

func open(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedArchive, err)
	}
	return zr, nil
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", common.ErrMalformedArchive, name, err)
		}
		defer rc.Close()

		b, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", common.ErrMalformedArchive, name, err)
		}
		if int64(len(b)) > MaxEntrySize {
			return nil, fmt.Errorf("%w: %s exceeds %d bytes", common.ErrMalformedArchive, name, MaxEntrySize)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %w: %s", common.ErrMalformedArchive, errEntryNotFound, name)
}
