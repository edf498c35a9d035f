package purchase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"secondhand-marketplace/internal/domain"
	productrepo "secondhand-marketplace/internal/repository/product"
	"secondhand-marketplace/internal/testdb"
)

// snapshot builds a purchase from the lines at their current price.
func snapshot(lines []domain.CartLine) (*domain.Purchase, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	p := &domain.Purchase{Status: domain.PurchaseStatusCompleted, TotalAmount: decimal.Zero}
	for _, l := range lines {
		p.Items = append(p.Items, domain.PurchaseItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.Product.Price,
			Title:           l.Product.Title,
		})
		p.TotalAmount = p.TotalAmount.Add(l.Subtotal())
	}
	return p, nil
}

func TestPostgres_CheckoutRecordsAndClears(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(t)
	seller := testdb.InsertUser(t, pool, "seller")
	buyer := testdb.InsertUser(t, pool, "buyer")
	lamp := testdb.InsertProduct(t, pool, seller, "Lamp", "10.00", 3)
	rug := testdb.InsertProduct(t, pool, seller, "Rug", "25.50", 1)

	if _, err := pool.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 2), ($1, $3, 1)`, buyer, lamp, rug); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	repo := NewPostgres(pool, nil)
	p, err := repo.Checkout(ctx, buyer, snapshot)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if p.ID == 0 || len(p.Items) != 2 {
		t.Fatalf("unexpected purchase %+v", p)
	}
	if !p.TotalAmount.Equal(decimal.RequireFromString("45.50")) {
		t.Fatalf("unexpected total %s", p.TotalAmount)
	}

	var cartRows int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM cart_items WHERE user_id = $1`, buyer).Scan(&cartRows); err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if cartRows != 0 {
		t.Fatalf("expected empty cart after checkout, got %d", cartRows)
	}

	var qty int
	var sold bool
	if err := pool.QueryRow(ctx, `SELECT quantity, is_sold FROM products WHERE id = $1`, rug).Scan(&qty, &sold); err != nil {
		t.Fatalf("load rug: %v", err)
	}
	if qty != 0 || !sold {
		t.Fatalf("expected rug sold out, got qty=%d sold=%v", qty, sold)
	}
	if err := pool.QueryRow(ctx, `SELECT quantity, is_sold FROM products WHERE id = $1`, lamp).Scan(&qty, &sold); err != nil {
		t.Fatalf("load lamp: %v", err)
	}
	if qty != 1 || sold {
		t.Fatalf("expected one lamp left, got qty=%d sold=%v", qty, sold)
	}

	// Later price changes do not touch recorded items.
	if _, err := pool.Exec(ctx, `UPDATE products SET price = 99 WHERE id = $1`, lamp); err != nil {
		t.Fatalf("reprice: %v", err)
	}
	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	for _, it := range got.Items {
		if it.ProductID == lamp && !it.PriceAtPurchase.Equal(decimal.RequireFromString("10.00")) {
			t.Fatalf("price at purchase changed: %s", it.PriceAtPurchase)
		}
	}

	history, err := repo.ListByUser(ctx, buyer)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(history) != 1 || len(history[0].Items) != 2 {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestPostgres_CheckoutRollsBackOnBuildError(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(t)
	seller := testdb.InsertUser(t, pool, "seller")
	buyer := testdb.InsertUser(t, pool, "buyer")
	lamp := testdb.InsertProduct(t, pool, seller, "Lamp", "10.00", 1)
	if _, err := pool.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 1)`, buyer, lamp); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	repo := NewPostgres(pool, nil)
	_, err := repo.Checkout(ctx, buyer, func([]domain.CartLine) (*domain.Purchase, error) {
		return nil, domain.ErrInsufficientStock
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var cartRows, purchases int
	if err := pool.QueryRow(ctx, `SELECT (SELECT count(*) FROM cart_items), (SELECT count(*) FROM purchases)`).Scan(&cartRows, &purchases); err != nil {
		t.Fatalf("count: %v", err)
	}
	if cartRows != 1 || purchases != 0 {
		t.Fatalf("expected untouched state, got cart=%d purchases=%d", cartRows, purchases)
	}
}

func TestPostgres_CheckoutUnknownUser(t *testing.T) {
	pool := testdb.Pool(t)
	repo := NewPostgres(pool, nil)
	_, err := repo.Checkout(context.Background(), 999, snapshot)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_RestockRelistsSoldOutProduct(t *testing.T) {
	ctx := context.Background()
	pool := testdb.Pool(t)
	seller := testdb.InsertUser(t, pool, "seller")
	buyer := testdb.InsertUser(t, pool, "buyer")
	lamp := testdb.InsertProduct(t, pool, seller, "Lamp", "10.00", 2)

	if _, err := pool.Exec(ctx, `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 2)`, buyer, lamp); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	if _, err := NewPostgres(pool, nil).Checkout(ctx, buyer, snapshot); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	products := productrepo.NewPostgres(pool, nil)
	p, err := products.GetByID(ctx, lamp)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !p.IsSold || p.Quantity != 0 {
		t.Fatalf("expected sold out after checkout, got sold=%v qty=%d", p.IsSold, p.Quantity)
	}

	p.Quantity = 5
	restocked, err := products.Update(ctx, *p)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if restocked.IsSold || !restocked.Listed() {
		t.Fatalf("expected restocked product to be listed, got %+v", restocked)
	}
	listed, err := products.ListListed(ctx, productrepo.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != lamp {
		t.Fatalf("expected lamp back in the catalog, got %+v", listed)
	}
}
