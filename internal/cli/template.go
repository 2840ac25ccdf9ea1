package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/daybook/internal/models"
)

// Templates lists the section templates in display order.
func (a *App) Templates(ctx context.Context) error {
	types, err := a.journal.Templates(ctx)
	if err != nil {
		printlnFn("Listing templates failed:", err.Error())
		return err
	}
	if len(types) == 0 {
		printlnFn("No templates.")
		return nil
	}
	for _, t := range types {
		printlnFn(fmt.Sprintf("%s  %-20s %-10s %s", t.Id, t.Title, t.Frequency, t.ContentType))
	}
	return nil
}

// AddTemplate interactively creates a section template. Only the title is
// required; frequency and content type fall back to daily text.
func (a *App) AddTemplate(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "- Enter title", os.Stdout)
	if err != nil {
		return err
	}
	freq, err := getSimpleText(a.reader, "- Enter frequency (daily/weekly/monthly/persistent, empty for daily)", os.Stdout)
	if err != nil {
		return err
	}
	contentType, err := getSimpleText(a.reader, "- Enter content type (text/checklist/habits, empty for text)", os.Stdout)
	if err != nil {
		return err
	}
	placeholder, err := getSimpleText(a.reader, "- Enter placeholder (optional)", os.Stdout)
	if err != nil {
		return err
	}

	st := &models.SectionType{
		Title:       title,
		Frequency:   models.TimeframeType(freq),
		ContentType: contentType,
		Placeholder: placeholder,
	}
	if err := a.journal.CreateTemplate(ctx, st); err != nil {
		printlnFn("Creating template failed:", err.Error())
		return err
	}
	printlnFn("Created template", st.Id)
	return nil
}

// DeleteTemplate removes a section template and its sections.
func (a *App) DeleteTemplate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: deltemplate <id>")
		return nil
	}
	if err := a.journal.DeleteTemplate(ctx, args[0]); err != nil {
		printlnFn("Deleting template failed:", err.Error())
		return err
	}
	printlnFn("Deleted.")
	return nil
}

// SetFrequency changes how often a template rolls over to a fresh section.
func (a *App) SetFrequency(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: setfreq <id> <daily|weekly|monthly|persistent>")
		return nil
	}
	freq, err := models.ParseTimeframeType(args[1])
	if err != nil {
		printlnFn(err.Error())
		return err
	}
	if err := a.journal.ChangeFrequency(ctx, args[0], freq); err != nil {
		printlnFn("Changing frequency failed:", err.Error())
		return err
	}
	printlnFn("Frequency changed.")
	return nil
}

// Columns lists the layout columns in display order.
func (a *App) Columns(ctx context.Context) error {
	cols, err := a.journal.Columns(ctx)
	if err != nil {
		printlnFn("Listing columns failed:", err.Error())
		return err
	}
	if len(cols) == 0 {
		printlnFn("No columns.")
		return nil
	}
	for _, c := range cols {
		printlnFn(fmt.Sprintf("%s  %-20s width=%d", c.Id, c.Title, c.Width))
	}
	return nil
}

// AddColumn interactively creates a layout column.
func (a *App) AddColumn(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "- Enter title", os.Stdout)
	if err != nil {
		return err
	}
	widthRaw, err := getSimpleText(a.reader, "- Enter width (layout units, empty for 1)", os.Stdout)
	if err != nil {
		return err
	}
	width := 1
	if widthRaw != "" {
		width, err = strconv.Atoi(widthRaw)
		if err != nil {
			printlnFn("Invalid width:", widthRaw)
			return err
		}
	}

	col := &models.Column{Title: title, Width: width}
	if err := a.journal.CreateColumn(ctx, col); err != nil {
		printlnFn("Creating column failed:", err.Error())
		return err
	}
	printlnFn("Created column", col.Id)
	return nil
}
