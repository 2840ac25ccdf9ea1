// Package digest computes the canonical content hash of the journal.
//
// The hash covers user-visible content only, never timestamps or other
// bookkeeping, so two stores that hold the same data hash identically no
// matter when or in what order the rows were written. The sync engine
// compares these hashes to decide whether anything needs to move.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dmitrijs2005/daybook/internal/repositories/columns"
	"github.com/dmitrijs2005/daybook/internal/repositories/entries"
	"github.com/dmitrijs2005/daybook/internal/repositories/sections"
	"github.com/dmitrijs2005/daybook/internal/repositories/sectiontypes"
)

const (
	// RecentEntryLimit caps how many entry dates feed the hash.
	RecentEntryLimit = 10

	// RecentSectionLimit caps how many sections feed the hash.
	RecentSectionLimit = 50
)

// Source bundles the repositories the hash reads from. Callers pass
// repositories bound to one transaction so every table is read at the same
// consistent point.
type Source struct {
	Entries  entries.Repository
	Sections sections.Repository
	Types    sectiontypes.Repository
	Columns  columns.Repository
}

// canonical* mirror the hashed subset of each model. Field order is fixed by
// declaration, list order by the repository queries, so the serialized form
// is deterministic.

type canonicalSection struct {
	SectionTypeId  string `json:"sectionTypeId"`
	Content        string `json:"content"`
	TimeframeType  string `json:"timeframeType"`
	TimeframeStart string `json:"timeframeStart"`
	TimeframeEnd   string `json:"timeframeEnd"`
}

type canonicalType struct {
	Title          string `json:"title"`
	Frequency      string `json:"frequency"`
	DisplayOrder   int    `json:"displayOrder"`
	Placeholder    string `json:"placeholder"`
	DefaultContent string `json:"defaultContent"`
	ContentType    string `json:"contentType"`
	ColumnId       string `json:"columnId"`
}

type canonicalColumn struct {
	Title        string `json:"title"`
	Width        int    `json:"width"`
	DisplayOrder int    `json:"displayOrder"`
}

type canonicalDoc struct {
	Entries  []string           `json:"entries"`
	Sections []canonicalSection `json:"sections"`
	Types    []canonicalType    `json:"sectionTypes"`
	Columns  []canonicalColumn  `json:"columns"`
}

// Hash serializes the canonical document and returns its SHA-256 as a
// 64-character lowercase hex string.
func Hash(ctx context.Context, src Source) (string, error) {
	doc, err := build(ctx, src)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func build(ctx context.Context, src Source) (*canonicalDoc, error) {
	doc := &canonicalDoc{
		Entries:  []string{},
		Sections: []canonicalSection{},
		Types:    []canonicalType{},
		Columns:  []canonicalColumn{},
	}

	dates, err := src.Entries.RecentDates(ctx, RecentEntryLimit)
	if err != nil {
		return nil, err
	}
	doc.Entries = append(doc.Entries, dates...)

	recent, err := src.Sections.RecentCreated(ctx, RecentSectionLimit)
	if err != nil {
		return nil, err
	}
	for _, s := range recent {
		doc.Sections = append(doc.Sections, canonicalSection{
			SectionTypeId:  s.SectionTypeId,
			Content:        s.Content,
			TimeframeType:  string(s.TimeframeType),
			TimeframeStart: s.TimeframeStart,
			TimeframeEnd:   s.TimeframeEnd,
		})
	}

	types, err := src.Types.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, st := range types {
		doc.Types = append(doc.Types, canonicalType{
			Title:          st.Title,
			Frequency:      string(st.Frequency),
			DisplayOrder:   st.DisplayOrder,
			Placeholder:    st.Placeholder,
			DefaultContent: st.DefaultContent,
			ContentType:    st.ContentType,
			ColumnId:       st.ColumnId,
		})
	}

	cols, err := src.Columns.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		doc.Columns = append(doc.Columns, canonicalColumn{
			Title:        c.Title,
			Width:        c.Width,
			DisplayOrder: c.DisplayOrder,
		})
	}

	return doc, nil
}
