package purchase

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"secondhand-marketplace/internal/domain"
	"secondhand-marketplace/internal/events"
	purchaserepo "secondhand-marketplace/internal/repository/purchase"
)

type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Service turns carts into purchases and serves purchase history.
type Service struct {
	repo      purchaserepo.Repository
	users     userRepo
	publisher events.Publisher
	logger    *log.Logger
}

func New(repo purchaserepo.Repository, users userRepo, publisher events.Publisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if publisher == nil {
		publisher = events.NewNoop(logger)
	}
	return &Service{repo: repo, users: users, publisher: publisher, logger: logger}
}

// Checkout converts the user's cart into a completed purchase priced at the
// products' current prices. The cart is emptied in the same transaction.
func (s *Service) Checkout(ctx context.Context, userID int64) (*domain.Purchase, error) {
	p, err := s.repo.Checkout(ctx, userID, buildPurchase)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", userID)
		}
		return nil, err
	}
	s.logger.Printf("purchase: checkout user_id=%d purchase_id=%d total=%s", userID, p.ID, p.TotalAmount.StringFixed(2))
	s.publishCompleted(ctx, p)
	return p, nil
}

func buildPurchase(lines []domain.CartLine) (*domain.Purchase, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	p := &domain.Purchase{
		Status:      domain.PurchaseStatusCompleted,
		TotalAmount: decimal.Zero,
		Items:       make([]domain.PurchaseItem, 0, len(lines)),
	}
	for _, l := range lines {
		if !l.Product.Listed() {
			return nil, domain.Errorf(domain.ErrInsufficientStock, "product %d is no longer available", l.ProductID)
		}
		if l.Quantity > l.Product.Quantity {
			return nil, domain.Errorf(domain.ErrInsufficientStock, "only %d of product %d available", l.Product.Quantity, l.ProductID)
		}
		p.Items = append(p.Items, domain.PurchaseItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.Product.Price,
			Title:           l.Product.Title,
			Description:     l.Product.Description,
			Category:        l.Product.Category,
			ImageURL:        l.Product.ImageURL,
		})
		p.TotalAmount = p.TotalAmount.Add(l.Subtotal())
	}
	return p, nil
}

// publishCompleted is best effort: the purchase is already committed.
func (s *Service) publishCompleted(ctx context.Context, p *domain.Purchase) {
	ev := events.PurchaseCompleted{
		PurchaseID:  p.ID,
		UserID:      p.UserID,
		TotalAmount: p.TotalAmount,
		Items:       make([]events.PurchaseLine, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		ev.Items = append(ev.Items, events.PurchaseLine{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, events.RoutingPurchaseCompleted, ev); err != nil {
		s.logger.Printf("purchase: publish %s purchase_id=%d error=%v", events.RoutingPurchaseCompleted, p.ID, err)
	}
}

// History lists the user's purchases, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "user %d not found", userID)
		}
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a purchase owned by userID.
func (s *Service) Get(ctx context.Context, userID, purchaseID int64) (*domain.Purchase, error) {
	p, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "purchase %d not found", purchaseID)
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.Errorf(domain.ErrUnauthorized, "purchase %d belongs to another user", purchaseID)
	}
	return p, nil
}
