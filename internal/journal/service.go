package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/sectiontypes"
	"github.com/dmitrijs2005/daybook/internal/store"
	"github.com/google/uuid"
)

// Service is the journal's write model. Every mutation runs inside one store
// write scope, so the check-then-create paths cannot race each other.
type Service struct {
	store    *store.Store
	registry *sectiontypes.Registry
	log      logging.Logger
}

func NewService(st *store.Store, registry *sectiontypes.Registry, log logging.Logger) *Service {
	return &Service{store: st, registry: registry, log: log}
}

// SectionView pairs a section with its owning type, which carries the title
// and content representation needed to display it.
type SectionView struct {
	Section models.Section
	Type    models.SectionType
}

// EntryView is a fully materialized entry: the entry row plus one section
// per section type, in display order.
type EntryView struct {
	Entry    models.Entry
	Sections []SectionView
}

// OpenEntry materializes the entry for a date. The entry row, the sections
// for every section type and the links between them are created lazily,
// all inside a single write scope.
func (s *Service) OpenEntry(ctx context.Context, date string) (*EntryView, error) {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	view := &EntryView{}
	err := s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		entry, err := r.Entries.GetByDate(ctx, date)
		if errors.Is(err, common.ErrorNotFound) {
			now := time.Now().UTC()
			entry = &models.Entry{Id: uuid.NewString(), Date: date, CreatedAt: now, UpdatedAt: now}
			if err := r.Entries.CreateOrUpdate(ctx, entry); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		view.Entry = *entry

		types, err := r.Types.GetAll(ctx)
		if err != nil {
			return err
		}

		for i := range types {
			st := &types[i]
			sec, err := getOrCreateSection(ctx, r, st, date)
			if err != nil {
				return err
			}
			link := &models.EntrySectionLink{SectionId: sec.Id, EntryId: entry.Id, CreatedAt: time.Now().UTC()}
			if err := r.Links.Upsert(ctx, link); err != nil {
				return err
			}
			view.Sections = append(view.Sections, SectionView{Section: *sec, Type: *st})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetOrCreateSection returns the section of a type covering date, creating
// it when the bucket has no section yet.
func (s *Service) GetOrCreateSection(ctx context.Context, sectionTypeId, date string) (*models.Section, error) {
	if _, err := time.Parse(common.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var sec *models.Section
	err := s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		st, err := r.Types.GetByID(ctx, sectionTypeId)
		if err != nil {
			return err
		}
		sec, err = getOrCreateSection(ctx, r, st, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// getOrCreateSection holds the bucket invariant: at most one section per
// (type, timeframe type, start). It must run inside a write scope.
func getOrCreateSection(ctx context.Context, r *store.Repositories, st *models.SectionType, date string) (*models.Section, error) {
	start, end, err := TimeframeBounds(st.Frequency, date)
	if err != nil {
		return nil, err
	}

	var existing *models.Section
	if st.Frequency == models.TimeframePersistent {
		// persistent sections keep the start of their first access, so the
		// lookup cannot go through the bucket key
		existing, err = r.Sections.GetByType(ctx, st.Id, models.TimeframePersistent)
	} else {
		existing, err = r.Sections.GetByBucket(ctx, st.Id, st.Frequency, start)
	}
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	sec := &models.Section{
		Id:             uuid.NewString(),
		SectionTypeId:  st.Id,
		Content:        "",
		TimeframeType:  st.Frequency,
		TimeframeStart: start,
		TimeframeEnd:   end,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.Sections.CreateOrUpdate(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

// UpdateSectionContent replaces a section's content.
func (s *Service) UpdateSectionContent(ctx context.Context, sectionId, content string) error {
	return s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		return r.Sections.UpdateContent(ctx, sectionId, content)
	})
}

// ChangeFrequency switches a section type to a new recurrence and re-buckets
// its most recently linked section under the new frequency. Older sections
// keep their original buckets.
func (s *Service) ChangeFrequency(ctx context.Context, sectionTypeId string, freq models.TimeframeType) error {
	return s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		st, err := r.Types.GetByID(ctx, sectionTypeId)
		if err != nil {
			return err
		}
		if st.Frequency == freq {
			return nil
		}
		if err := r.Types.UpdateFrequency(ctx, sectionTypeId, freq); err != nil {
			return err
		}
		return s.rebucketMostRecent(ctx, r, sectionTypeId, freq)
	})
}

// rebucketMostRecent recomputes the bounds of the section most recently
// linked to an entry, using its existing start and the new frequency.
func (s *Service) rebucketMostRecent(ctx context.Context, r *store.Repositories, sectionTypeId string, freq models.TimeframeType) error {
	sec, err := r.Sections.MostRecentlyLinked(ctx, sectionTypeId)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	start, end, err := TimeframeBounds(freq, sec.TimeframeStart)
	if err != nil {
		return err
	}
	if freq == sec.TimeframeType && start == sec.TimeframeStart && end == sec.TimeframeEnd {
		return nil
	}

	// if the target bucket already holds a section, it serves the new
	// frequency and this one stays where it is
	other, err := r.Sections.GetByBucket(ctx, sectionTypeId, freq, start)
	if err == nil && other.Id != sec.Id {
		s.log.Debug(ctx, "target bucket occupied, skipping rebucket",
			"sectionTypeId", sectionTypeId, "sectionId", sec.Id, "occupiedBy", other.Id)
		return nil
	}
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	return r.Sections.UpdateBucket(ctx, sec.Id, freq, start, end)
}

// CreateTemplate registers a new section type. Missing fields get defaults:
// a fresh id, text content and daily recurrence.
func (s *Service) CreateTemplate(ctx context.Context, st *models.SectionType) error {
	if strings.TrimSpace(st.Title) == "" {
		return fmt.Errorf("template title must not be empty")
	}
	if st.Id == "" {
		st.Id = uuid.NewString()
	}
	if st.Frequency == "" {
		st.Frequency = models.TimeframeDaily
	} else if _, err := models.ParseTimeframeType(string(st.Frequency)); err != nil {
		return err
	}
	if st.ContentType == "" {
		st.ContentType = sectiontypes.TypeText
	}
	return s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		return r.Types.CreateOrUpdate(ctx, st)
	})
}

// DeleteTemplate removes a section type. Its sections and links go with it.
func (s *Service) DeleteTemplate(ctx context.Context, sectionTypeId string) error {
	return s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		if _, err := r.Types.GetByID(ctx, sectionTypeId); err != nil {
			return err
		}
		return r.Types.DeleteByID(ctx, sectionTypeId)
	})
}

// Templates lists all section types in display order.
func (s *Service) Templates(ctx context.Context) ([]models.SectionType, error) {
	var out []models.SectionType
	err := s.store.Read(ctx, func(ctx context.Context, r *store.Repositories) error {
		var err error
		out, err = r.Types.GetAll(ctx)
		return err
	})
	return out, err
}

// CreateColumn registers a new layout column.
func (s *Service) CreateColumn(ctx context.Context, col *models.Column) error {
	if strings.TrimSpace(col.Title) == "" {
		return fmt.Errorf("column title must not be empty")
	}
	if col.Id == "" {
		col.Id = uuid.NewString()
	}
	return s.store.Write(ctx, func(ctx context.Context, r *store.Repositories) error {
		return r.Columns.CreateOrUpdate(ctx, col)
	})
}

// Columns lists all layout columns in display order.
func (s *Service) Columns(ctx context.Context) ([]models.Column, error) {
	var out []models.Column
	err := s.store.Read(ctx, func(ctx context.Context, r *store.Repositories) error {
		var err error
		out, err = r.Columns.GetAll(ctx)
		return err
	})
	return out, err
}

// ExportMarkdown renders an entry's sections to one markdown document.
// Sections whose content the registry reports empty are skipped. The export
// never materializes anything: a date without an entry is an error.
func (s *Service) ExportMarkdown(ctx context.Context, date string) (string, error) {
	var doc string
	err := s.store.Read(ctx, func(ctx context.Context, r *store.Repositories) error {
		entry, err := r.Entries.GetByDate(ctx, date)
		if err != nil {
			return err
		}

		secs, err := r.Sections.ForEntry(ctx, entry.Id)
		if err != nil {
			return err
		}

		types, err := r.Types.GetAll(ctx)
		if err != nil {
			return err
		}
		typeByID := make(map[string]models.SectionType, len(types))
		orderByID := make(map[string]int, len(types))
		for i, st := range types {
			typeByID[st.Id] = st
			orderByID[st.Id] = i
		}

		sort.SliceStable(secs, func(i, j int) bool {
			oi, oj := orderByID[secs[i].SectionTypeId], orderByID[secs[j].SectionTypeId]
			if oi != oj {
				return oi < oj
			}
			return secs[i].TimeframeStart < secs[j].TimeframeStart
		})

		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n", entry.Date)
		for _, sec := range secs {
			st, ok := typeByID[sec.SectionTypeId]
			if !ok {
				continue
			}
			if s.registry.IsContentEmpty(st.ContentType, sec.Content) {
				continue
			}
			b.WriteString("\n")
			b.WriteString(s.registry.FormatMarkdown(st.ContentType, st.Title, sec.Content))
		}
		doc = b.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	return doc, nil
}
