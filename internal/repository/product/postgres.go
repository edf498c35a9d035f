package product

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"secondhand-marketplace/internal/domain"
)

const selectProduct = `
SELECT p.id, p.title, COALESCE(p.description, ''), p.category, p.price, p.quantity,
       COALESCE(p.condition_type, ''), COALESCE(p.brand, ''), COALESCE(p.model, ''), p.year_manufactured,
       COALESCE(p.dimensions, ''), p.weight, COALESCE(p.material, ''), COALESCE(p.color, ''),
       p.original_packaging, p.manual_included, COALESCE(p.working_condition, ''), COALESCE(p.image_url, ''),
       p.is_active, p.is_sold, p.seller_id, u.display_name, u.email, COALESCE(u.profile_image_url, ''),
       p.created_at, p.updated_at
FROM products p
JOIN users u ON u.id = p.seller_id
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

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (
    title, description, category, price, quantity, condition_type, brand, model, year_manufactured,
    dimensions, weight, material, color, original_packaging, manual_included, working_condition,
    image_url, seller_id
) VALUES (
    $1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9,
    NULLIF($10, ''), $11, NULLIF($12, ''), NULLIF($13, ''), $14, $15, NULLIF($16, ''),
    NULLIF($17, ''), $18
)
RETURNING id
`
	var id int64
	err := r.pool.QueryRow(ctx, q,
		p.Title, p.Description, p.Category, p.Price, p.Quantity, p.ConditionType, p.Brand, p.Model, p.YearManufactured,
		p.Dimensions, p.Weight, p.Material, p.Color, p.OriginalPackaging, p.ManualIncluded, p.WorkingCondition,
		p.ImageURL, p.SellerID,
	).Scan(&id)
	if err != nil {
		r.logger.Printf("product repo: create seller_id=%d error=%v", p.SellerID, err)
		return nil, err
	}
	r.logger.Printf("product repo: created id=%d seller_id=%d", id, p.SellerID)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET title = $2,
    description = NULLIF($3, ''),
    category = $4,
    price = $5,
    quantity = $6,
    condition_type = NULLIF($7, ''),
    brand = NULLIF($8, ''),
    model = NULLIF($9, ''),
    year_manufactured = $10,
    dimensions = NULLIF($11, ''),
    weight = $12,
    material = NULLIF($13, ''),
    color = NULLIF($14, ''),
    original_packaging = $15,
    manual_included = $16,
    working_condition = NULLIF($17, ''),
    image_url = NULLIF($18, ''),
    is_sold = ($6 <= 0),
    updated_at = now()
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q,
		p.ID, p.Title, p.Description, p.Category, p.Price, p.Quantity, p.ConditionType, p.Brand, p.Model,
		p.YearManufactured, p.Dimensions, p.Weight, p.Material, p.Color, p.OriginalPackaging, p.ManualIncluded,
		p.WorkingCondition, p.ImageURL,
	)
	if err != nil {
		r.logger.Printf("product repo: update id=%d error=%v", p.ID, err)
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *postgresRepo) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE products SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: set active id=%d active=%t", id, active)
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProduct+`WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) ListListed(ctx context.Context, f ListFilter) ([]domain.Product, error) {
	q := selectProduct + `
WHERE p.is_active AND NOT p.is_sold
  AND ($1 = '' OR p.category = $1)
  AND ($2 = '' OR p.title ILIKE '%' || $2 || '%' ESCAPE '\')
ORDER BY p.created_at DESC, p.id DESC
`
	return r.list(ctx, q, strings.TrimSpace(f.Category), escapeLike(strings.TrimSpace(f.Keyword)))
}

func (r *postgresRepo) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	q := selectProduct + `
WHERE p.seller_id = $1
ORDER BY p.created_at DESC, p.id DESC
`
	return r.list(ctx, q, sellerID)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var seller domain.SellerInfo
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.Price, &p.Quantity,
		&p.ConditionType, &p.Brand, &p.Model, &p.YearManufactured,
		&p.Dimensions, &p.Weight, &p.Material, &p.Color,
		&p.OriginalPackaging, &p.ManualIncluded, &p.WorkingCondition, &p.ImageURL,
		&p.IsActive, &p.IsSold, &p.SellerID, &seller.DisplayName, &seller.Email, &seller.ProfileImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	seller.ID = p.SellerID
	p.Seller = &seller
	return &p, nil
}

// escapeLike escapes LIKE wildcards so the keyword matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
