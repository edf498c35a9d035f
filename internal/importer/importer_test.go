package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"secondhand-marketplace/internal/domain"
	productsvc "secondhand-marketplace/internal/service/product"
)

type stubListingWriter struct {
	sellerIDs []int64
	items     []productsvc.Input
	failOn    string
}

type stubCategoryWriter struct {
	items []domain.Category
}

func (s *stubListingWriter) Create(_ context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error) {
	if in.Title == s.failOn {
		return nil, domain.Invalid("category", "is unknown")
	}
	s.sellerIDs = append(s.sellerIDs, sellerID)
	s.items = append(s.items, in)
	return &domain.Product{Title: in.Title, SellerID: sellerID}, nil
}

func (s *stubCategoryWriter) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_RunListings(t *testing.T) {
	csvData := `title,description,category,price,quantity,condition,brand,year,weight,original_packaging,manual_included,image_url
Film camera,35mm rangefinder,Electronics,120.00,1,Good,Canonet,1972,0.75,no,yes,https://example.com/cam.jpg
,,,,,,,,,,,
Paperbacks,,Books,2.50,12,Like New,,,,,,
`
	listings := &stubListingWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), listings, nil, 42)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 listings imported, got %d", count)
	}
	if listings.sellerIDs[0] != 42 || listings.sellerIDs[1] != 42 {
		t.Fatalf("expected seller 42 on every listing, got %v", listings.sellerIDs)
	}

	cam := listings.items[0]
	if cam.Title != "Film camera" || cam.Category != "Electronics" || cam.Price.String() != "120" || cam.Quantity != 1 {
		t.Fatalf("unexpected listing data: %+v", cam)
	}
	if cam.YearManufactured == nil || *cam.YearManufactured != 1972 {
		t.Fatalf("expected year 1972, got %v", cam.YearManufactured)
	}
	if cam.Weight == nil || cam.Weight.String() != "0.75" {
		t.Fatalf("expected weight 0.75, got %v", cam.Weight)
	}
	if cam.OriginalPackaging || !cam.ManualIncluded {
		t.Fatalf("unexpected flags: packaging=%v manual=%v", cam.OriginalPackaging, cam.ManualIncluded)
	}
	if listings.items[1].YearManufactured != nil || listings.items[1].Weight != nil {
		t.Fatalf("expected optional fields to stay nil on second listing")
	}
}

func TestCSVImporter_StopsAtInvalidRow(t *testing.T) {
	csvData := `title,category,price,quantity
Lamp,Home & Garden,10,1
Kettle,Home & Garden,ten,1
Toaster,Home & Garden,15,1
`
	listings := &stubListingWriter{}
	count, err := NewCSVImporter(strings.NewReader(csvData), listings, nil, 1).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for malformed price")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected row number in error, got %q", err.Error())
	}
	if count != 1 {
		t.Fatalf("expected 1 listing imported before the failure, got %d", count)
	}
}

func TestCSVImporter_WrapsWriterErrors(t *testing.T) {
	csvData := `title,category,price
Mystery box,Unknown,5
`
	listings := &stubListingWriter{failOn: "Mystery box"}
	_, err := NewCSVImporter(strings.NewReader(csvData), listings, nil, 1).Run(context.Background())
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "category" {
		t.Fatalf("expected category validation error, got %v", err)
	}
}

func TestCSVImporter_RunCategories(t *testing.T) {
	csvData := `name,sort_order
Vinyl Records,115
Musical Instruments,
`
	cats := &stubCategoryWriter{}
	count, err := NewCSVImporter(strings.NewReader(csvData), nil, cats, 0).Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 categories imported, got %d", count)
	}
	if cats.items[0].Name != "Vinyl Records" || cats.items[0].SortOrder != 115 {
		t.Fatalf("unexpected first category %+v", cats.items[0])
	}
	if cats.items[1].SortOrder != 20 {
		t.Fatalf("expected positional sort order 20, got %d", cats.items[1].SortOrder)
	}
}

func TestCSVImporter_MissingWriter(t *testing.T) {
	_, err := NewCSVImporter(strings.NewReader("name\nBooks\n"), &stubListingWriter{}, nil, 1).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error when no category writer is configured")
	}
}

func TestDetectKind(t *testing.T) {
	kind, err := DetectKind(strings.NewReader("Title,Price\nLamp,10"))
	if err != nil {
		t.Fatalf("detect listing kind: %v", err)
	}
	if kind != KindListings {
		t.Fatalf("expected listings kind, got %s", kind)
	}

	kind, err = DetectKind(strings.NewReader("name,sort_order\nBooks,40"))
	if err != nil {
		t.Fatalf("detect category kind: %v", err)
	}
	if kind != KindCategories {
		t.Fatalf("expected categories kind, got %s", kind)
	}

	if _, err := DetectKind(strings.NewReader("sku,amount\n1,2")); err == nil {
		t.Fatalf("expected error for unknown header")
	}
}
