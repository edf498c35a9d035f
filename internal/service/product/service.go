package product

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"secondhand-marketplace/internal/domain"
	productrepo "secondhand-marketplace/internal/repository/product"
)

type categoryLookup interface {
	List(ctx context.Context) ([]domain.Category, error)
	Exists(ctx context.Context, name string) (bool, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Service struct {
	repo       productrepo.Repository
	categories categoryLookup
	users      userLookup
	logger     *log.Logger
}

func New(repo productrepo.Repository, categories categoryLookup, users userLookup, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, categories: categories, users: users, logger: logger}
}

// Input is the writable part of a listing.
type Input struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	Price             decimal.Decimal  `json:"price"`
	Quantity          int              `json:"quantity"`
	ConditionType     string           `json:"conditionType"`
	Brand             string           `json:"brand"`
	Model             string           `json:"model"`
	YearManufactured  *int             `json:"yearManufactured"`
	Dimensions        string           `json:"dimensions"`
	Weight            *decimal.Decimal `json:"weight"`
	Material          string           `json:"material"`
	Color             string           `json:"color"`
	OriginalPackaging bool             `json:"originalPackaging"`
	ManualIncluded    bool             `json:"manualIncluded"`
	WorkingCondition  string           `json:"workingCondition"`
	ImageURL          string           `json:"imageUrl"`
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListListed(ctx, productrepo.ListFilter{})
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.Invalid("category", "is required")
	}
	return s.repo.ListListed(ctx, productrepo.ListFilter{Category: category})
}

// Search matches a case-insensitive substring of the title, optionally
// restricted to a category. An empty keyword lists everything.
func (s *Service) Search(ctx context.Context, keyword, category string) ([]domain.Product, error) {
	return s.repo.ListListed(ctx, productrepo.ListFilter{Keyword: keyword, Category: category})
}

// Get returns an active product.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, notFound(id)
	}
	return p, nil
}

// ListBySeller returns every listing of an existing seller, including
// inactive and sold ones.
func (s *Service) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	if err := s.requireUser(ctx, sellerID); err != nil {
		return nil, err
	}
	return s.repo.ListBySeller(ctx, sellerID)
}

func (s *Service) Create(ctx context.Context, sellerID int64, in Input) (*domain.Product, error) {
	if err := s.requireUser(ctx, sellerID); err != nil {
		return nil, err
	}
	in = normalize(in)
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	p := domain.Product{SellerID: sellerID}
	apply(&p, in)
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product: created id=%d seller_id=%d", created.ID, sellerID)
	return created, nil
}

// Update replaces the writable fields of a listing owned by sellerID.
func (s *Service) Update(ctx context.Context, sellerID, id int64, in Input) (*domain.Product, error) {
	p, err := s.owned(ctx, sellerID, id)
	if err != nil {
		return nil, err
	}
	in = normalize(in)
	if err := s.validate(ctx, in); err != nil {
		return nil, err
	}
	apply(p, in)
	updated, err := s.repo.Update(ctx, *p)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("product: updated id=%d seller_id=%d", id, sellerID)
	return updated, nil
}

// Delete deactivates a listing owned by sellerID. Purchase history keeps
// referencing it.
func (s *Service) Delete(ctx context.Context, sellerID, id int64) error {
	if _, err := s.owned(ctx, sellerID, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Printf("product: deactivated id=%d seller_id=%d", id, sellerID)
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *Service) Conditions() []string {
	out := make([]string, len(domain.Conditions))
	copy(out, domain.Conditions)
	return out
}

func (s *Service) owned(ctx context.Context, sellerID, id int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, err
	}
	if p.SellerID != sellerID {
		return nil, domain.Errorf(domain.ErrUnauthorized, "product %d belongs to another seller", id)
	}
	return p, nil
}

func (s *Service) requireUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "user %d not found", id)
		}
		return err
	}
	return nil
}

func (s *Service) validate(ctx context.Context, in Input) error {
	switch {
	case in.Title == "":
		return domain.Invalid("title", "is required")
	case utf8.RuneCountInString(in.Title) > 100:
		return domain.Invalid("title", "must be at most 100 characters")
	case utf8.RuneCountInString(in.Description) > 500:
		return domain.Invalid("description", "must be at most 500 characters")
	case in.Category == "":
		return domain.Invalid("category", "is required")
	case !in.Price.IsPositive():
		return domain.Invalid("price", "must be greater than 0")
	case in.Quantity <= 0:
		return domain.Invalid("quantity", "must be greater than 0")
	case in.ConditionType != "" && !domain.IsCondition(in.ConditionType):
		return domain.Invalid("conditionType", "must be one of %s", strings.Join(domain.Conditions, ", "))
	case in.Weight != nil && in.Weight.IsNegative():
		return domain.Invalid("weight", "must not be negative")
	}
	ok, err := s.categories.Exists(ctx, in.Category)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid("category", "unknown category %q", in.Category)
	}
	return nil
}

func normalize(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.ConditionType = strings.TrimSpace(in.ConditionType)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func apply(p *domain.Product, in Input) {
	p.Title = in.Title
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price.Round(2)
	p.Quantity = in.Quantity
	p.ConditionType = in.ConditionType
	p.Brand = strings.TrimSpace(in.Brand)
	p.Model = strings.TrimSpace(in.Model)
	p.YearManufactured = in.YearManufactured
	p.Dimensions = strings.TrimSpace(in.Dimensions)
	p.Weight = decimal.NullDecimal{}
	if in.Weight != nil {
		p.Weight = decimal.NewNullDecimal(*in.Weight)
	}
	p.Material = strings.TrimSpace(in.Material)
	p.Color = strings.TrimSpace(in.Color)
	p.OriginalPackaging = in.OriginalPackaging
	p.ManualIncluded = in.ManualIncluded
	p.WorkingCondition = strings.TrimSpace(in.WorkingCondition)
	p.ImageURL = in.ImageURL
}

func notFound(id int64) error {
	return domain.Errorf(domain.ErrNotFound, "product %d not found", id)
}
