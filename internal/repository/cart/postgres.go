package cart

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"secondhand-marketplace/internal/domain"
)

const selectLine = `
SELECT c.id, c.user_id, c.product_id, c.quantity, c.added_at,
       p.id, p.title, COALESCE(p.description, ''), p.category, p.price, p.quantity,
       COALESCE(p.condition_type, ''), COALESCE(p.image_url, ''), p.is_active, p.is_sold, p.seller_id,
       p.created_at, p.updated_at
FROM cart_items c
JOIN products p ON p.id = c.product_id
`

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

func (r *postgresRepo) Add(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_items (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id
`
	var id int64
	if err := r.pool.QueryRow(ctx, q, userID, productID, quantity).Scan(&id); err != nil {
		r.logger.Printf("cart repo: add user_id=%d product_id=%d error=%v", userID, productID, err)
		return nil, err
	}
	r.logger.Printf("cart repo: added line id=%d user_id=%d product_id=%d qty=%d", id, userID, productID, quantity)
	return r.GetLine(ctx, id)
}

func (r *postgresRepo) GetLine(ctx context.Context, id int64) (*domain.CartLine, error) {
	line, err := scanLine(r.pool.QueryRow(ctx, selectLine+`WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, selectLine+`WHERE c.user_id = $1 ORDER BY c.added_at DESC, c.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []domain.CartLine{}
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, id int64, quantity int) (*domain.CartLine, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE cart_items SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetLine(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	r.logger.Printf("cart repo: cleared user_id=%d rows=%d", userID, cmd.RowsAffected())
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var l domain.CartLine
	p := &l.Product
	err := row.Scan(
		&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.AddedAt,
		&p.ID, &p.Title, &p.Description, &p.Category, &p.Price, &p.Quantity,
		&p.ConditionType, &p.ImageURL, &p.IsActive, &p.IsSold, &p.SellerID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
