package snapshot_test

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/server/models"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot"
	"github.com/dmitrijs2005/cargodesk/internal/server/snapshot/snapshottest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// document marshals s and lets mutate edit the generic JSON tree before it
// is encoded again.
func document(t *testing.T, s *snapshot.Snapshot, mutate func(doc map[string]any)) []byte {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	if mutate == nil {
		return b
	}
	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	mutate(doc)
	b, err = json.Marshal(doc)
	require.NoError(t, err)
	return b
}

func record(doc map[string]any, kind schema.Kind, i int) map[string]any {
	return doc[string(kind)].([]any)[i].(map[string]any)
}

func TestDecode_Sample(t *testing.T) {
	want := snapshottest.Sample()

	got, err := snapshot.Decode(document(t, want, nil))
	require.NoError(t, err)

	assert.Equal(t, want.Counts(), got.Counts())
	assert.Equal(t, snapshot.Version, got.Version)
	assert.True(t, want.ExportDate.Equal(got.ExportDate))
	assert.Equal(t, "us-2", got.Shipments[0].CreatedByID)
	require.NotNil(t, got.Users[1].BranchID)
	assert.Equal(t, "br-1", *got.Users[1].BranchID)
	assert.Nil(t, got.LogEntries[0].ShipmentID)
	assert.True(t, want.Shipments[0].Weight.Equal(got.Shipments[0].Weight))
}

func TestDecode_OptionalCollectionsDefaultToEmpty(t *testing.T) {
	data := []byte(`{"users": [], "branches": [], "countries": []}`)

	got, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.NotNil(t, got.Shipments)
	assert.NotNil(t, got.LogEntries)
	assert.Zero(t, got.Counts().Total())
	assert.Empty(t, got.Version, "missing version is accepted")
}

func TestDecode_RequiredCollections(t *testing.T) {
	for _, kind := range schema.RequiredCollections {
		t.Run(string(kind), func(t *testing.T) {
			data := document(t, snapshottest.Empty(), func(doc map[string]any) {
				delete(doc, string(kind))
			})
			_, err := snapshot.Decode(data)
			require.ErrorIs(t, err, common.ErrInvalidSnapshotFormat)
			assert.Contains(t, err.Error(), string(kind))
		})
	}

	t.Run("null counts as missing", func(t *testing.T) {
		_, err := snapshot.Decode([]byte(`{"users": null, "branches": [], "countries": []}`))
		require.ErrorIs(t, err, common.ErrInvalidSnapshotFormat)
	})
}

func TestDecode_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		raw      string
		contains string
	}{
		{name: "not json", raw: `{"users": [`},
		{name: "array document", raw: `[]`},
		{name: "null document", raw: `null`},
		{
			name:     "collection is not an array",
			mutate:   func(doc map[string]any) { doc["countries"] = "LV" },
			contains: "countries",
		},
		{
			name:     "record field has wrong type",
			mutate:   func(doc map[string]any) { record(doc, schema.ShipmentStatuses, 0)["sortOrder"] = "first" },
			contains: "shipmentStatuses[0]",
		},
		{
			name:     "missing primary key",
			mutate:   func(doc map[string]any) { delete(record(doc, schema.Branches, 1), "id") },
			contains: "branches[1]: ID fails required",
		},
		{
			name:     "unknown role",
			mutate:   func(doc map[string]any) { record(doc, schema.Users, 0)["role"] = "ADMIN" },
			contains: "users[0]: Role fails oneof",
		},
		{
			name:     "unknown country type",
			mutate:   func(doc map[string]any) { record(doc, schema.Countries, 0)["type"] = "TRANSIT" },
			contains: "countries[0]",
		},
		{
			name:     "missing required foreign key",
			mutate:   func(doc map[string]any) { record(doc, schema.Shipments, 1)["statusId"] = "" },
			contains: "shipments[1]: StatusID fails required",
		},
		{
			name:     "dangling foreign key",
			mutate:   func(doc map[string]any) { record(doc, schema.TrackingEvents, 1)["statusId"] = "st-404" },
			contains: `trackingEvents[1].statusId references missing shipmentStatuses "st-404"`,
		},
		{
			name:     "dangling nullable foreign key",
			mutate:   func(doc map[string]any) { record(doc, schema.Users, 1)["branchId"] = "br-404" },
			contains: "users[1].branchId",
		},
		{
			name:     "unsupported major version",
			mutate:   func(doc map[string]any) { doc["version"] = "2.0" },
			contains: "unsupported version",
		},
		{
			name:     "bad export date",
			mutate:   func(doc map[string]any) { doc["exportDate"] = "yesterday" },
			contains: "exportDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(tt.raw)
			if tt.mutate != nil {
				data = document(t, snapshottest.Sample(), tt.mutate)
			}
			_, err := snapshot.Decode(data)
			require.ErrorIs(t, err, common.ErrInvalidSnapshotFormat)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestDecode_AcceptsMinorVersionBump(t *testing.T) {
	data := document(t, snapshottest.Sample(), func(doc map[string]any) { doc["version"] = "1.7" })

	got, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "1.7", got.Version)
}

func TestDecode_IgnoresDisplayCopies(t *testing.T) {
	s := snapshottest.Sample()
	s.FillDisplayCopies()
	data := document(t, s, func(doc map[string]any) {
		sh := record(doc, schema.Shipments, 0)
		sh["branch"] = map[string]any{"id": "br-2", "name": "Wrong", "code": "XXX"}
		sh["status"] = map[string]any{"id": "st-999"}
	})

	got, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "br-1", got.Shipments[0].BranchID)
	assert.Equal(t, "st-1", got.Shipments[0].StatusID)
}

func TestCheckReferences_EmptySnapshot(t *testing.T) {
	require.NoError(t, snapshottest.Empty().CheckReferences())
}

func TestCheckReferences_LogEntryShipment(t *testing.T) {
	s := snapshottest.Sample()
	missing := "sh-404"
	s.LogEntries = append(s.LogEntries, models.LogEntry{ID: "lg-3", UserID: "us-1", ShipmentID: &missing})

	err := s.CheckReferences()
	require.ErrorIs(t, err, common.ErrInvalidSnapshotFormat)
	assert.Contains(t, err.Error(), "logEntries[2].shipmentId")
}
