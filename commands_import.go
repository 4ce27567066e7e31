package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"library-persistence/library"

	"github.com/spf13/cobra"
)

var header = []string{"title", "author", "publisher", "year", "isbn", "category", "type", "copies"}

var importCmd = &cobra.Command{
	Use:   "import <resources.csv>",
	Short: "Bulk-load resources from a CSV file",
	Long: `import reads a CSV file with the header
title,author,publisher,year,isbn,category,type,copies
and saves one resource per line. Categories and resource types are created
on first use; an empty type means Book.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := ctxOf(cmd)
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		imp, err := newImporter(ctx, mgr.Store())
		if err != nil {
			return fmt.Errorf("load catalogue: %w", err)
		}
		fmt.Printf("Importing resources from %s...\n", args[0])
		success, failed, err := imp.run(ctx, f, os.Stdout)
		if err != nil {
			return err
		}

		fmt.Printf("\nImport complete!\n")
		fmt.Printf("Successfully imported: %d resources\n", success)
		fmt.Printf("Errors: %d\n", failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d lines failed", failed, success+failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// importer resolves category and resource type names to ids, creating the
// missing ones.
type importer struct {
	store      *library.Store
	categories map[string]int64
	types      map[string]int64
	today      string
}

func newImporter(ctx context.Context, store *library.Store) (*importer, error) {
	imp := &importer{
		store:      store,
		categories: map[string]int64{},
		types:      map[string]int64{},
		today:      time.Now().Format(library.DateLayout),
	}
	cats, err := store.Categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		imp.categories[strings.ToLower(c.Name)] = c.ID.Int64()
	}
	types, err := store.ResourceTypes.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rt := range types {
		imp.types[strings.ToLower(rt.Name)] = rt.ID.Int64()
	}
	return imp, nil
}

// run imports every record of r and writes one status line per record to w.
// Bad records are counted and skipped; only a malformed header aborts.
func (imp *importer) run(ctx context.Context, r io.Reader, w io.Writer) (success, failed int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	for i, name := range header {
		if strings.ToLower(strings.TrimSpace(first[i])) != name {
			return 0, 0, fmt.Errorf("unexpected header column %d: %q, want %q", i+1, first[i], name)
		}
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(w, "line %d: ERROR - %v\n", line, err)
			failed++
			continue
		}
		res, err := imp.resource(ctx, record)
		if err != nil {
			fmt.Fprintf(w, "line %d: ERROR - %v\n", line, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Importing: %s by %s... SUCCESS (ID: %d)\n", res.Title, res.Author, res.ID.Int64())
		success++
	}
	return success, failed, nil
}

func (imp *importer) resource(ctx context.Context, record []string) (*library.Resource, error) {
	title, author := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
	if title == "" || author == "" {
		return nil, errors.New("title and author are required")
	}
	year, err := atoiOrZero(record[3])
	if err != nil {
		return nil, fmt.Errorf("bad year %q", record[3])
	}
	copies, err := atoiOrZero(record[7])
	if err != nil || copies < 1 {
		return nil, fmt.Errorf("bad copies %q", record[7])
	}
	categoryID, err := imp.category(ctx, strings.TrimSpace(record[5]))
	if err != nil {
		return nil, err
	}
	typeID, err := imp.resourceType(ctx, strings.TrimSpace(record[6]))
	if err != nil {
		return nil, err
	}

	res := &library.Resource{
		Title:           title,
		Author:          author,
		Publisher:       strings.TrimSpace(record[2]),
		PublicationYear: year,
		ISBN:            strings.TrimSpace(record[4]),
		CategoryID:      categoryID,
		ResourceTypeID:  typeID,
		TotalCopies:     copies,
		AvailableCopies: copies,
		AddedDate:       imp.today,
		IsActive:        true,
	}
	if err := imp.store.Resources.Save(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (imp *importer) category(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("category is required")
	}
	if id, ok := imp.categories[strings.ToLower(name)]; ok {
		return id, nil
	}
	c := library.Category{Name: name}
	if err := imp.store.Categories.Save(ctx, &c); err != nil {
		return 0, err
	}
	imp.categories[strings.ToLower(name)] = c.ID.Int64()
	return c.ID.Int64(), nil
}

func (imp *importer) resourceType(ctx context.Context, name string) (int64, error) {
	if name == "" {
		name = "Book"
	}
	if id, ok := imp.types[strings.ToLower(name)]; ok {
		return id, nil
	}
	rt := library.NewResourceType(name)
	if err := imp.store.ResourceTypes.Save(ctx, &rt); err != nil {
		return 0, err
	}
	imp.types[strings.ToLower(name)] = rt.ID.Int64()
	return rt.ID.Int64(), nil
}

func atoiOrZero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
