package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/digest"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is the full journal state as one document. It is what travels to
// the cloud and what backups are made of. Metadata (tokens, hashes, backup
// bookkeeping) is device-local and deliberately not part of it.
type Snapshot struct {
	Version      int                       `json:"version"`
	ExportedAt   time.Time                 `json:"exportedAt"`
	Entries      []models.Entry            `json:"entries"`
	Sections     []models.Section          `json:"sections"`
	Links        []models.EntrySectionLink `json:"links"`
	SectionTypes []models.SectionType      `json:"sectionTypes"`
	Columns      []models.Column           `json:"columns"`
}

// ExportSnapshot reads every table at one consistent point and returns the
// full state.
func (s *Store) ExportSnapshot(ctx context.Context) (*Snapshot, error) {
	if err := s.Ready(ctx); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now().UTC(),
	}

	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repos(tx)
		var err error
		if snap.Entries, err = r.Entries.GetAll(ctx); err != nil {
			return err
		}
		if snap.Sections, err = r.Sections.GetAll(ctx); err != nil {
			return err
		}
		if snap.Links, err = r.Links.GetAll(ctx); err != nil {
			return err
		}
		if snap.SectionTypes, err = r.Types.GetAll(ctx); err != nil {
			return err
		}
		snap.Columns, err = r.Columns.GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}

	return snap, nil
}

// ImportSnapshot replaces the journal's content with the snapshot, in one
// transaction. It does not fire the change hook: imports come from sync and
// restore, which must not schedule another push for the data just pulled.
func (s *Store) ImportSnapshot(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version: %d", snap.Version)
	}
	if err := s.Ready(ctx); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repos(tx)

		// children before parents
		if err := r.Links.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Sections.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Entries.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Types.DeleteAll(ctx); err != nil {
			return err
		}
		if err := r.Columns.DeleteAll(ctx); err != nil {
			return err
		}

		for i := range snap.Columns {
			if err := r.Columns.CreateOrUpdate(ctx, &snap.Columns[i]); err != nil {
				return err
			}
		}
		for i := range snap.SectionTypes {
			if err := r.Types.CreateOrUpdate(ctx, &snap.SectionTypes[i]); err != nil {
				return err
			}
		}
		for i := range snap.Entries {
			if err := r.Entries.CreateOrUpdate(ctx, &snap.Entries[i]); err != nil {
				return err
			}
		}
		for i := range snap.Sections {
			if err := r.Sections.CreateOrUpdate(ctx, &snap.Sections[i]); err != nil {
				return err
			}
		}
		for _, l := range dedupeLinks(snap.Links) {
			if err := r.Links.Upsert(ctx, &l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to import snapshot: %w", err)
	}

	return nil
}

// ExportData returns the full snapshot serialized to JSON. This is the form
// that travels to the cloud and into backups.
func (s *Store) ExportData(ctx context.Context) ([]byte, error) {
	snap, err := s.ExportSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

// ImportData parses a serialized snapshot and imports it.
func (s *Store) ImportData(ctx context.Context, data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return s.ImportSnapshot(ctx, &snap)
}

// dedupeLinks collapses duplicate (section, entry) pairs, keeping the most
// recently created one. Snapshots written before the unique constraint
// existed can carry duplicates.
func dedupeLinks(in []models.EntrySectionLink) []models.EntrySectionLink {
	keep := make(map[string]models.EntrySectionLink, len(in))
	order := make([]string, 0, len(in))

	for _, l := range in {
		k := l.SectionId + "|" + l.EntryId
		prev, ok := keep[k]
		if !ok {
			keep[k] = l
			order = append(order, k)
			continue
		}
		if l.CreatedAt.After(prev.CreatedAt) {
			keep[k] = l
		}
	}

	out := make([]models.EntrySectionLink, 0, len(order))
	for _, k := range order {
		out = append(out, keep[k])
	}
	return out
}

// ContentHash computes the canonical content hash over a single read
// transaction, so the hash always describes one consistent state.
func (s *Store) ContentHash(ctx context.Context) (string, error) {
	if err := s.Ready(ctx); err != nil {
		return "", err
	}

	var h string
	err := dbx.WithReadTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repos(tx)
		var err error
		h, err = digest.Hash(ctx, digest.Source{
			Entries:  r.Entries,
			Sections: r.Sections,
			Types:    r.Types,
			Columns:  r.Columns,
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}

	return h, nil
}
