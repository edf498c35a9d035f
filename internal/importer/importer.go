// Package importer bulk-loads listings and categories from CSV files.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"secondhand-marketplace/internal/domain"
	productsvc "secondhand-marketplace/internal/service/product"
)

// Kind names the shape of an import file.
type Kind string

const (
	KindListings   Kind = "listings"
	KindCategories Kind = "categories"
)

type ListingWriter interface {
	Create(ctx context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

// CSVImporter reads a listings or categories CSV and writes each row through
// the owning service.
type CSVImporter struct {
	reader     *csv.Reader
	listings   ListingWriter
	categories CategoryWriter
	sellerID   int64
}

func NewCSVImporter(r io.Reader, listings ListingWriter, categories CategoryWriter, sellerID int64) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:     csvr,
		listings:   listings,
		categories: categories,
		sellerID:   sellerID,
	}
}

// DetectKind reads the header line of r and reports which import it holds.
func DetectKind(r io.Reader) (Kind, error) {
	headers, err := csv.NewReader(r).Read()
	if err != nil {
		return "", fmt.Errorf("read headers: %w", err)
	}
	return kindOf(headerIndex(headers))
}

func kindOf(index map[string]int) (Kind, error) {
	if _, ok := index["title"]; ok {
		return KindListings, nil
	}
	if _, ok := index["name"]; ok {
		return KindCategories, nil
	}
	return "", errors.New("unrecognised header: expected a title or name column")
}

// Run imports every row and returns how many were written. It stops at the
// first invalid row; rows before it stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	kind, err := kindOf(index)
	if err != nil {
		return 0, err
	}
	switch {
	case kind == KindListings && i.listings == nil:
		return 0, errors.New("listings file given but no listing writer configured")
	case kind == KindCategories && i.categories == nil:
		return 0, errors.New("categories file given but no category writer configured")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		if kind == KindListings {
			err = i.saveListing(ctx, record, index)
		} else {
			err = i.saveCategory(ctx, record, index, imported)
		}
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}
		imported++
	}
	return imported, nil
}

func (i *CSVImporter) saveListing(ctx context.Context, record []string, index map[string]int) error {
	in, err := parseListing(record, index)
	if err != nil {
		return err
	}
	if _, err := i.listings.Create(ctx, i.sellerID, in); err != nil {
		return fmt.Errorf("create listing %q: %w", in.Title, err)
	}
	return nil
}

func (i *CSVImporter) saveCategory(ctx context.Context, record []string, index map[string]int, position int) error {
	c := domain.Category{
		Name:      pick(record, index, "name"),
		SortOrder: (position + 1) * 10,
	}
	if raw := pick(record, index, "sort_order"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Invalid("sort_order", "must be an integer")
		}
		c.SortOrder = n
	}
	if _, err := i.categories.Upsert(ctx, c); err != nil {
		return fmt.Errorf("upsert category %q: %w", c.Name, err)
	}
	return nil
}

func parseListing(record []string, index map[string]int) (productsvc.Input, error) {
	in := productsvc.Input{
		Title:            pick(record, index, "title"),
		Description:      pick(record, index, "description"),
		Category:         pick(record, index, "category"),
		ConditionType:    pick(record, index, "condition"),
		Brand:            pick(record, index, "brand"),
		Model:            pick(record, index, "model"),
		Dimensions:       pick(record, index, "dimensions"),
		Material:         pick(record, index, "material"),
		Color:            pick(record, index, "color"),
		WorkingCondition: pick(record, index, "working_condition"),
		ImageURL:         pick(record, index, "image_url"),
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil {
		return in, domain.Invalid("price", "must be a decimal number")
	}
	in.Price = price

	if raw := pick(record, index, "quantity"); raw != "" {
		if in.Quantity, err = strconv.Atoi(raw); err != nil {
			return in, domain.Invalid("quantity", "must be an integer")
		}
	}
	if raw := pick(record, index, "year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return in, domain.Invalid("year", "must be an integer")
		}
		in.YearManufactured = &year
	}
	if raw := pick(record, index, "weight"); raw != "" {
		w, err := decimal.NewFromString(raw)
		if err != nil {
			return in, domain.Invalid("weight", "must be a decimal number")
		}
		in.Weight = &w
	}
	if in.OriginalPackaging, err = pickBool(record, index, "original_packaging"); err != nil {
		return in, err
	}
	if in.ManualIncluded, err = pickBool(record, index, "manual_included"); err != nil {
		return in, err
	}
	return in, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[h] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func pickBool(record []string, index map[string]int, key string) (bool, error) {
	raw := pick(record, index, key)
	if raw == "" {
		return false, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.Invalid(key, "must be true or false")
	}
	return v, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
