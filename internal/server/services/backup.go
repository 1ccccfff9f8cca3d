package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/dbx"
	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server/archive"
	"github.com/dmitrijs2005/cargodesk/internal/server/metrics"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
	"github.com/dmitrijs2005/cargodesk/internal/timex"
)

// BackupService exports the entity store to a snapshot archive and restores
// it back. All store access goes through the injected handle and repository
// manager.
type BackupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	kinds       map[schema.Kind]kindOps
	logger      logging.Logger
	metrics     *metrics.Metrics
}

func NewBackupService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger, mt *metrics.Metrics) *BackupService {
	return &BackupService{
		db:          db,
		repomanager: m,
		kinds:       registry(m),
		logger:      logger.With("module", "backup"),
		metrics:     mt,
	}
}

// Export reads every record of every kind inside one read-only transaction
// and returns them as a snapshot stamped with the current time.
func (s *BackupService) Export(ctx context.Context) (snap *snapshot.Snapshot, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.OpExport, start, err) }(time.Now())

	snap = &snapshot.Snapshot{}
	err = dbx.WithReadTx(ctx, s.db, s.repomanager.Dialect(), func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range schema.Store.InsertOrder() {
			if err := s.kinds[k].load(ctx, tx, snap); err != nil {
				return fmt.Errorf("read %s: %w", k, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "export failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}

	snap.FillDisplayCopies()
	snap.ExportDate = timex.Now()
	snap.Version = snapshot.Version

	total := snap.Counts().Total()
	s.metrics.Exported(total)
	s.logger.Info(ctx, "snapshot exported", "records", total)
	return snap, nil
}

// WriteArchive exports the store and encodes the archive to w.
func (s *BackupService) WriteArchive(ctx context.Context, w io.Writer) (*snapshot.Manifest, error) {
	snap, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return archive.Write(w, snap)
}

// ExportArchive is WriteArchive into memory.
func (s *BackupService) ExportArchive(ctx context.Context) ([]byte, *snapshot.Manifest, error) {
	var buf bytes.Buffer
	m, err := s.WriteArchive(ctx, &buf)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), m, nil
}

// Restore replaces the whole store with the snapshot in data. The archive
// is decoded and validated before any write; the replacement itself runs
// in a single transaction, so on failure the store is left as it was.
func (s *BackupService) Restore(ctx context.Context, data []byte) (report *snapshot.RestoreReport, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.OpRestore, start, err) }(time.Now())

	snap, err := archive.ReadSnapshot(data)
	if err != nil {
		s.logger.Warn(ctx, "restore rejected", "error", err)
		return nil, err
	}

	counts := snapshot.Counts{}
	err = dbx.WithTx(ctx, s.db, s.repomanager.Dialect().WriteTxOptions(), func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range schema.Store.DeleteOrder() {
			n, err := s.kinds[k].deleteAll(ctx, tx)
			if err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
			s.logger.Debug(ctx, "kind cleared", "kind", k, "rows", n)
		}
		for _, k := range schema.Store.InsertOrder() {
			n, err := s.kinds[k].store(ctx, tx, snap)
			if err != nil {
				return fmt.Errorf("restore %s: %w", k, err)
			}
			counts[k] = n
			s.logger.Debug(ctx, "kind restored", "kind", k, "rows", n)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "restore failed", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrRestoreTransactionFailed, err)
	}

	for k, n := range counts {
		s.metrics.Restored(string(k), n)
	}

	report = &snapshot.RestoreReport{
		Counts:       counts,
		TotalRecords: counts.Total(),
		BackupDate:   snap.ExportDate,
		Version:      snap.Version,
	}
	s.logger.Info(ctx, "snapshot restored", "records", report.TotalRecords, "backup_date", report.BackupDate)
	return report, nil
}

// Stats counts the records of every kind.
func (s *BackupService) Stats(ctx context.Context) (stats *snapshot.Stats, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.OpStats, start, err) }(time.Now())

	counts := snapshot.Counts{}
	for _, k := range schema.Store.Kinds() {
		n, err := s.kinds[k].count(ctx, s.db)
		if err != nil {
			return nil, fmt.Errorf("%w: count %s: %w", common.ErrStoreUnavailable, k, err)
		}
		counts[k] = n
	}

	return &snapshot.Stats{
		Counts:       counts,
		TotalRecords: counts.Total(),
		LastUpdated:  timex.Now(),
	}, nil
}

// Info reads the manifest of an archive without touching the store.
func (s *BackupService) Info(data []byte) (m *snapshot.Manifest, err error) {
	defer func(start time.Time) { s.metrics.Observe(metrics.OpInfo, start, err) }(time.Now())

	return archive.ReadManifest(data)
}
