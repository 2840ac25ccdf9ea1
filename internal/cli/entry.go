package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/journal"
)

// today is a test seam for the current date.
var today = func() string { return time.Now().Format(common.DateLayout) }

// Today opens the entry for the current date, creating it on first access.
func (a *App) Today(ctx context.Context) error {
	return a.Open(ctx, []string{today()})
}

// Open opens the entry for a date and prints its sections.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: open <YYYY-MM-DD>")
		return nil
	}

	view, err := a.journal.OpenEntry(ctx, args[0])
	if err != nil {
		printlnFn("Opening entry failed:", err.Error())
		return err
	}

	a.printEntry(view)
	return nil
}

func (a *App) printEntry(view *journal.EntryView) {
	printlnFn(fmt.Sprintf("# %s", view.Entry.Date))
	for i, sec := range view.Sections {
		span := string(sec.Section.TimeframeType)
		if sec.Section.TimeframeStart != sec.Section.TimeframeEnd {
			span = fmt.Sprintf("%s, %s .. %s", span, sec.Section.TimeframeStart, sec.Section.TimeframeEnd)
		}
		printlnFn(fmt.Sprintf("[%d] %s (%s)", i+1, sec.Type.Title, span))
		if sec.Section.Content == "" {
			if sec.Type.Placeholder != "" {
				printlnFn("    " + sec.Type.Placeholder)
			}
			continue
		}
		printlnFn(sec.Section.Content)
	}
}

// Write edits the content of one section of an entry. With no argument it
// targets today's entry. The user picks a section by its printed number and
// enters the new content, finishing with an empty line.
func (a *App) Write(ctx context.Context, args []string) error {
	date := today()
	if len(args) > 0 {
		date = args[0]
	}

	view, err := a.journal.OpenEntry(ctx, date)
	if err != nil {
		printlnFn("Opening entry failed:", err.Error())
		return err
	}
	if len(view.Sections) == 0 {
		printlnFn("No sections. Add a template first (addtemplate).")
		return nil
	}
	a.printEntry(view)

	choice, err := getSimpleText(a.reader, "Section number", os.Stdout)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(view.Sections) {
		printlnFn("No such section:", choice)
		return nil
	}
	sec := view.Sections[n-1]

	content, err := GetMultiline(a.reader, fmt.Sprintf("- Enter content for %q", sec.Type.Title), os.Stdout)
	if err != nil {
		return err
	}

	if err := a.journal.UpdateSectionContent(ctx, sec.Section.Id, content); err != nil {
		printlnFn("Saving section failed:", err.Error())
		return err
	}
	printlnFn("Saved.")
	return nil
}

// ExportEntry prints an entry as a markdown document. A date without an
// entry is reported, never created.
func (a *App) ExportEntry(ctx context.Context, args []string) error {
	date := today()
	if len(args) > 0 {
		date = args[0]
	}

	doc, err := a.journal.ExportMarkdown(ctx, date)
	if err != nil {
		printlnFn("Export failed:", err.Error())
		return err
	}
	printlnFn(doc)
	return nil
}
