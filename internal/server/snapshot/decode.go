package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/cargodesk/internal/common"
	"github.com/dmitrijs2005/cargodesk/internal/server/schema"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses a backup.json document into a Snapshot.
//
// The document must be a JSON object carrying every required collection
// (schema.RequiredCollections); other collections may be absent and are
// treated as empty. Each record is decoded into its typed model and
// validated. A document whose major version differs from Version is
// rejected; a missing version is accepted. All failures wrap
// common.ErrInvalidSnapshotFormat.
func Decode(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidSnapshotFormat, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is not an object", common.ErrInvalidSnapshotFormat)
	}

	for _, kind := range schema.RequiredCollections {
		if !present(raw, string(kind)) {
			return nil, fmt.Errorf("%w: missing collection %q", common.ErrInvalidSnapshotFormat, kind)
		}
	}

	s := &Snapshot{}
	if err := decodeVersion(raw, s); err != nil {
		return nil, err
	}

	if err := firstErr(
		decodeCollection(raw, schema.Users, &s.Users),
		decodeCollection(raw, schema.Branches, &s.Branches),
		decodeCollection(raw, schema.Countries, &s.Countries),
		decodeCollection(raw, schema.ShipmentStatuses, &s.ShipmentStatuses),
		decodeCollection(raw, schema.Shipments, &s.Shipments),
		decodeCollection(raw, schema.ShipmentHistories, &s.ShipmentHistories),
		decodeCollection(raw, schema.TrackingEvents, &s.TrackingEvents),
		decodeCollection(raw, schema.Invoices, &s.Invoices),
		decodeCollection(raw, schema.Waybills, &s.Waybills),
		decodeCollection(raw, schema.LogEntries, &s.LogEntries),
	); err != nil {
		return nil, err
	}

	if err := s.CheckReferences(); err != nil {
		return nil, err
	}

	return s, nil
}

func present(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	return ok && string(v) != "null"
}

func decodeVersion(raw map[string]json.RawMessage, s *Snapshot) error {
	if present(raw, "version") {
		if err := json.Unmarshal(raw["version"], &s.Version); err != nil {
			return fmt.Errorf("%w: version: %w", common.ErrInvalidSnapshotFormat, err)
		}
		if major(s.Version) != major(Version) {
			return fmt.Errorf("%w: unsupported version %q", common.ErrInvalidSnapshotFormat, s.Version)
		}
	}
	if present(raw, "exportDate") {
		var t time.Time
		if err := json.Unmarshal(raw["exportDate"], &t); err != nil {
			return fmt.Errorf("%w: exportDate: %w", common.ErrInvalidSnapshotFormat, err)
		}
		s.ExportDate = t.UTC()
	}
	return nil
}

func major(v string) string {
	m, _, _ := strings.Cut(v, ".")
	return m
}

// decodeCollection decodes raw[kind] into dst and validates every record.
// An absent collection leaves dst as an empty slice.
func decodeCollection[T any](raw map[string]json.RawMessage, kind schema.Kind, dst *[]T) error {
	*dst = []T{}
	if !present(raw, string(kind)) {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw[string(kind)], &items); err != nil {
		return fmt.Errorf("%w: %s: %w", common.ErrInvalidSnapshotFormat, kind, err)
	}

	out := make([]T, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return fmt.Errorf("%w: %s[%d]: %w", common.ErrInvalidSnapshotFormat, kind, i, err)
		}
		if err := validate.Struct(&out[i]); err != nil {
			return fmt.Errorf("%w: %s[%d]: %s", common.ErrInvalidSnapshotFormat, kind, i, describe(err))
		}
	}
	*dst = out
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s fails %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
