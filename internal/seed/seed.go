// Package seed inserts demo accounts and listings for manual testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"secondhand-marketplace/internal/domain"
	authsvc "secondhand-marketplace/internal/service/auth"
	productsvc "secondhand-marketplace/internal/service/product"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "Demo#pass2024"

type registrar interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
}

type userFinder interface {
	GetByLogin(ctx context.Context, identifier string) (*domain.User, error)
}

type categoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type listingWriter interface {
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error)
	Create(ctx context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error)
}

// Deps are the services seeding goes through, so demo rows pass the same
// validation as API writes.
type Deps struct {
	Auth       registrar
	Users      userFinder
	Categories categoryWriter
	Listings   listingWriter
}

type userSeed struct {
	DisplayName string
	Email       string
	Listings    []productsvc.Input
}

// Categories is the default category list, in display order. Positions match
// the sort_order the initial migration assigns.
var Categories = []string{
	"Electronics", "Clothing", "Furniture", "Books", "Sports",
	"Home & Garden", "Toys", "Automotive", "Beauty", "Other",
}

func demoUsers() []userSeed {
	year := 2019
	weight := decimal.RequireFromString("1.20")
	return []userSeed{
		{
			DisplayName: "demo_seller",
			Email:       "seller@demo.local",
			Listings: []productsvc.Input{
				{
					Title:             "Vintage film camera",
					Description:       "35mm rangefinder, shutter tested at all speeds",
					Category:          "Electronics",
					Price:             decimal.RequireFromString("120.00"),
					Quantity:          1,
					ConditionType:     "Good",
					Brand:             "Canonet",
					YearManufactured:  &year,
					Weight:            &weight,
					OriginalPackaging: false,
					ManualIncluded:    true,
					WorkingCondition:  "Fully working",
				},
				{
					Title:         "Oak bookshelf",
					Description:   "Five shelves, pickup only",
					Category:      "Furniture",
					Price:         decimal.RequireFromString("45.00"),
					Quantity:      1,
					ConditionType: "Fair",
					Dimensions:    "180x80x30 cm",
					Material:      "Oak",
				},
				{
					Title:         "Paperback novels bundle",
					Category:      "Books",
					Price:         decimal.RequireFromString("2.50"),
					Quantity:      12,
					ConditionType: "Like New",
				},
			},
		},
		{
			DisplayName: "demo_buyer",
			Email:       "buyer@demo.local",
			Listings: []productsvc.Input{
				{
					Title:         "Road bike helmet",
					Category:      "Sports",
					Price:         decimal.RequireFromString("18.00"),
					Quantity:      1,
					ConditionType: "New",
					Color:         "Black",
				},
			},
		},
	}
}

// Apply inserts demo data. Running it again leaves existing accounts and
// their listings untouched.
func Apply(ctx context.Context, deps Deps, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	for i, name := range Categories {
		if _, err := deps.Categories.Upsert(ctx, domain.Category{Name: name, SortOrder: i + 1}); err != nil {
			return fmt.Errorf("upsert category %s: %w", name, err)
		}
	}

	for _, us := range demoUsers() {
		user, err := ensureUser(ctx, deps, us)
		if err != nil {
			return fmt.Errorf("ensure user %s: %w", us.DisplayName, err)
		}
		existing, err := deps.Listings.ListBySeller(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("list listings of %s: %w", us.DisplayName, err)
		}
		if len(existing) > 0 {
			logger.Printf("user %s already has %d listings, skipping", us.DisplayName, len(existing))
			continue
		}
		for _, in := range us.Listings {
			if _, err := deps.Listings.Create(ctx, user.ID, in); err != nil {
				return fmt.Errorf("create listing %q: %w", in.Title, err)
			}
		}
		logger.Printf("seeded %d listings for %s", len(us.Listings), us.DisplayName)
	}
	return nil
}

func ensureUser(ctx context.Context, deps Deps, us userSeed) (*domain.User, error) {
	user, err := deps.Auth.Register(ctx, authsvc.RegisterInput{
		DisplayName: us.DisplayName,
		Email:       us.Email,
		Password:    DemoPassword,
	})
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, err
	}
	return deps.Users.GetByLogin(ctx, us.Email)
}
