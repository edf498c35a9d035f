package purchase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"secondhand-marketplace/internal/db"
	"secondhand-marketplace/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Checkout(ctx context.Context, userID int64, build BuildFunc) (*domain.Purchase, error) {
	var out *domain.Purchase
	err := db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		// Locking the user row serializes concurrent checkouts of the same cart.
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock user: %w", err)
		}

		lines, err := lockedLines(ctx, tx, userID)
		if err != nil {
			return err
		}

		p, err := build(lines)
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, `
INSERT INTO purchases (user_id, total_amount, status)
VALUES ($1, $2, $3)
RETURNING id, purchase_date
`, userID, p.TotalAmount, p.Status).Scan(&p.ID, &p.PurchaseDate); err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		p.UserID = userID

		for i := range p.Items {
			item := &p.Items[i]
			item.PurchaseID = p.ID
			if err := tx.QueryRow(ctx, `
INSERT INTO purchase_items (purchase_id, product_id, quantity, price_at_purchase)
VALUES ($1, $2, $3, $4)
RETURNING id
`, p.ID, item.ProductID, item.Quantity, item.PriceAtPurchase).Scan(&item.ID); err != nil {
				return fmt.Errorf("insert purchase item: %w", err)
			}
			if _, err := tx.Exec(ctx, `
UPDATE products
SET quantity = quantity - $2,
    is_sold = (quantity - $2 = 0),
    updated_at = now()
WHERE id = $1
`, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("decrement stock product_id=%d: %w", item.ProductID, err)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		out = p
		return nil
	})
	if err != nil {
		r.logger.Printf("purchase repo: checkout user_id=%d error=%v", userID, err)
		return nil, err
	}
	r.logger.Printf("purchase repo: checkout user_id=%d purchase_id=%d items=%d", userID, out.ID, len(out.Items))
	return out, nil
}

func lockedLines(ctx context.Context, tx pgx.Tx, userID int64) ([]domain.CartLine, error) {
	const q = `
SELECT c.id, c.user_id, c.product_id, c.quantity, c.added_at,
       p.id, p.title, COALESCE(p.description, ''), p.category, p.price, p.quantity,
       COALESCE(p.image_url, ''), p.is_active, p.is_sold, p.seller_id
FROM cart_items c
JOIN products p ON p.id = c.product_id
WHERE c.user_id = $1
ORDER BY c.id
FOR UPDATE OF p
`
	rows, err := tx.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		p := &l.Product
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.AddedAt,
			&p.ID, &p.Title, &p.Description, &p.Category, &p.Price, &p.Quantity,
			&p.ImageURL, &p.IsActive, &p.IsSold, &p.SellerID,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Purchase, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, total_amount, purchase_date, status
FROM purchases
WHERE user_id = $1
ORDER BY purchase_date DESC, id DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.UserID, &p.TotalAmount, &p.PurchaseDate, &p.Status); err != nil {
			return nil, err
		}
		p.Items = []domain.PurchaseItem{}
		index[p.ID] = len(purchases)
		ids = append(ids, p.ID)
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return purchases, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		i := index[it.PurchaseID]
		purchases[i].Items = append(purchases[i].Items, it)
	}
	return purchases, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, total_amount, purchase_date, status
FROM purchases
WHERE id = $1
`, id).Scan(&p.ID, &p.UserID, &p.TotalAmount, &p.PurchaseDate, &p.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.items(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

func (r *postgresRepo) items(ctx context.Context, purchaseIDs []int64) ([]domain.PurchaseItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT i.id, i.purchase_id, i.product_id, i.quantity, i.price_at_purchase,
       p.title, COALESCE(p.description, ''), p.category, COALESCE(p.image_url, '')
FROM purchase_items i
JOIN products p ON p.id = i.product_id
WHERE i.purchase_id = ANY($1)
ORDER BY i.purchase_id, i.id
`, purchaseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.PurchaseItem{}
	for rows.Next() {
		var it domain.PurchaseItem
		if err := rows.Scan(
			&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase,
			&it.Title, &it.Description, &it.Category, &it.ImageURL,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
