package snapshot

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
)

// Counts maps an entity kind to a number of records.
type Counts map[schema.Kind]int

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// flatten merges per-kind counts and extra fields into one JSON object.
func flatten(c Counts, extra map[string]any) ([]byte, error) {
	out := make(map[string]any, len(c)+len(extra))
	for k, n := range c {
		out[string(k)] = n
	}
	for k, v := range extra {
		out[k] = v
	}
	return json.Marshal(out)
}

// Stats is the live record count of the store.
type Stats struct {
	Counts       Counts
	TotalRecords int
	LastUpdated  time.Time
}

// MarshalJSON renders {<kind>: n, ..., totalRecords, lastUpdated}.
func (s Stats) MarshalJSON() ([]byte, error) {
	return flatten(s.Counts, map[string]any{
		"totalRecords": s.TotalRecords,
		"lastUpdated":  s.LastUpdated,
	})
}

// RestoreReport describes a completed restore.
type RestoreReport struct {
	Counts       Counts
	TotalRecords int
	BackupDate   time.Time
	Version      string
}

// MarshalJSON renders {<kind>: n, ..., totalRecords, backupDate, version}.
func (r RestoreReport) MarshalJSON() ([]byte, error) {
	return flatten(r.Counts, map[string]any{
		"totalRecords": r.TotalRecords,
		"backupDate":   r.BackupDate,
		"version":      r.Version,
	})
}
