package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server/archive"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newStore opens a fresh, migrated in-memory SQLite database. Open turns
// foreign keys on by itself.
func newStore(t *testing.T) (*sql.DB, *repomanager.SQLRepositoryManager) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, m, err := repomanager.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, m.RunMigrations(ctx, db))
	return db, m
}

func newBackupService(t *testing.T, db *sql.DB, m repomanager.RepositoryManager) *BackupService {
	t.Helper()
	return NewBackupService(db, m, logging.Nop(), nil)
}

func archiveOf(t *testing.T, s *snapshot.Snapshot) []byte {
	t.Helper()
	var buf bytes.Buffer
	_, err := archive.Write(&buf, s)
	require.NoError(t, err)
	return buf.Bytes()
}

func stats(t *testing.T, svc *BackupService) *snapshot.Stats {
	t.Helper()
	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	return st
}
