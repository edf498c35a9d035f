package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/shopspring/decimal"
	"secondhand-marketplace/internal/domain"
)

type Service struct {
	repo        cartRepo
	productRepo productRepo
	userRepo    userRepo
	logger      *log.Logger
}

type cartRepo interface {
	Add(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error)
	GetLine(ctx context.Context, id int64) (*domain.CartLine, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, id int64, quantity int) (*domain.CartLine, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

func New(repo cartRepo, productRepo productRepo, userRepo userRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, productRepo: productRepo, userRepo: userRepo, logger: logger}
}

type AddInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

// Summary is a user's cart with its current total.
type Summary struct {
	Items []domain.CartLine `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

// Add puts a listed product in the user's cart, merging with an existing line.
func (s *Service) Add(ctx context.Context, userID int64, in AddInput) (*domain.CartLine, error) {
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	if qty <= 0 {
		return nil, domain.Invalid("quantity", "must be greater than 0")
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "product %d not found", in.ProductID)
		}
		return nil, err
	}
	if !product.Listed() {
		return nil, domain.Invalid("productId", "product %d is not available", in.ProductID)
	}
	inCart, err := s.quantityInCart(ctx, userID, product.ID)
	if err != nil {
		return nil, err
	}
	if inCart+qty > product.Quantity {
		return nil, insufficientStock(product, inCart)
	}

	line, err := s.repo.Add(ctx, userID, product.ID, qty)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("cart: add user_id=%d product_id=%d qty=%d line_qty=%d", userID, product.ID, qty, line.Quantity)
	return line, nil
}

func (s *Service) Items(ctx context.Context, userID int64) (*Summary, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return &Summary{Items: lines, Count: len(lines), Total: total}, nil
}

// Update overwrites a line's quantity; a quantity of zero or less removes the
// line and returns nil.
func (s *Service) Update(ctx context.Context, userID, lineID int64, quantity int) (*domain.CartLine, error) {
	line, err := s.ownedLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		if err := s.repo.Delete(ctx, lineID); err != nil {
			return nil, err
		}
		s.logger.Printf("cart: removed line id=%d user_id=%d", lineID, userID)
		return nil, nil
	}
	if !line.Product.Listed() {
		return nil, domain.Errorf(domain.ErrInsufficientStock, "product %d is no longer available", line.ProductID)
	}
	if quantity > line.Product.Quantity {
		return nil, insufficientStock(&line.Product, 0)
	}
	return s.repo.SetQuantity(ctx, lineID, quantity)
}

func (s *Service) Remove(ctx context.Context, userID, lineID int64) error {
	if _, err := s.ownedLine(ctx, userID, lineID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, lineID); err != nil {
		return err
	}
	s.logger.Printf("cart: removed line id=%d user_id=%d", lineID, userID)
	return nil
}

func (s *Service) Clear(ctx context.Context, userID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	_, err := s.repo.DeleteByUser(ctx, userID)
	return err
}

func (s *Service) Count(ctx context.Context, userID int64) (int, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return 0, err
	}
	return s.repo.CountByUser(ctx, userID)
}

// quantityInCart is how many units of productID the user already holds.
func (s *Service) quantityInCart(ctx context.Context, userID, productID int64) (int, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, l := range lines {
		if l.ProductID == productID {
			return l.Quantity, nil
		}
	}
	return 0, nil
}

func insufficientStock(p *domain.Product, inCart int) error {
	if inCart > 0 {
		return domain.Errorf(domain.ErrInsufficientStock, "only %d of product %d available, %d already in cart", p.Quantity, p.ID, inCart)
	}
	return domain.Errorf(domain.ErrInsufficientStock, "only %d of product %d available", p.Quantity, p.ID)
}

func (s *Service) ownedLine(ctx context.Context, userID, lineID int64) (*domain.CartLine, error) {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "cart item %d not found", lineID)
		}
		return nil, err
	}
	if line.UserID != userID {
		return nil, domain.Errorf(domain.ErrUnauthorized, "cart item %d belongs to another user", lineID)
	}
	return line, nil
}

func (s *Service) requireUser(ctx context.Context, id int64) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Errorf(domain.ErrNotFound, "user %d not found", id)
		}
		return err
	}
	return nil
}
