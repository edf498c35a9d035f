package httpserver

import (
	"net/http"
	"testing"

	"secondhand-marketplace/internal/domain"
)

func TestAddToCart(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(http.MethodPost, "/api/cart/add", `{"productId":7,"quantity":2}`, "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if tr.cart.lastUserID != 1 || tr.cart.lastAdd.ProductID != 7 {
		t.Fatalf("unexpected forwarded add: user=%d in=%+v", tr.cart.lastUserID, tr.cart.lastAdd)
	}
	if tr.cart.lastAdd.Quantity == nil || *tr.cart.lastAdd.Quantity != 2 {
		t.Fatalf("expected quantity 2 to be forwarded")
	}

	tr.do(http.MethodPost, "/api/cart/add", `{"productId":7}`, "good")
	if tr.cart.lastAdd.Quantity != nil {
		t.Fatalf("omitted quantity should be left to the service default")
	}
}

func TestAddToCart_Rejections(t *testing.T) {
	tr := newTestRouter(t)

	cases := []struct {
		name  string
		body  string
		token string
		want  int
	}{
		{"no token", `{"productId":7}`, "", http.StatusUnauthorized},
		{"missing product", `{"quantity":1}`, "good", http.StatusBadRequest},
		{"foreign user", `{"userId":2,"productId":7}`, "good", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if rec := tr.do(http.MethodPost, "/api/cart/add", tc.body, tc.token); rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}

	tr.cart.err = domain.Errorf(domain.ErrInsufficientStock, "only 1 of product 7 available")
	if rec := tr.do(http.MethodPost, "/api/cart/add", `{"userId":1,"productId":7,"quantity":5}`, "good"); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCartItemsAndCount(t *testing.T) {
	tr := newTestRouter(t)

	if rec := tr.do(http.MethodGet, "/api/cart/items/1", "", "good"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := tr.do(http.MethodGet, "/api/cart/items/2", "", "good"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for another user's cart, got %d", rec.Code)
	}

	rec := tr.do(http.MethodGet, "/api/cart/count/1", "", "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(3) {
		t.Fatalf("expected count 3, got %v", body["count"])
	}
}

func TestUpdateCartItem(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(http.MethodPut, "/api/cart/update/4", `{"quantity":3}`, "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := decodeBody(t, rec)["cartItem"]; !ok {
		t.Fatalf("expected cartItem in response")
	}

	rec = tr.do(http.MethodPut, "/api/cart/update/4", `{"quantity":0}`, "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, ok := decodeBody(t, rec)["cartItem"]; ok {
		t.Fatalf("zero quantity should remove the line")
	}

	if rec := tr.do(http.MethodPut, "/api/cart/update/4", `{}`, "good"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without quantity, got %d", rec.Code)
	}
}

func TestRemoveAndClearCart(t *testing.T) {
	tr := newTestRouter(t)

	tr.cart.err = domain.Errorf(domain.ErrNotFound, "cart item 4 not found")
	if rec := tr.do(http.MethodDelete, "/api/cart/remove/4", "", "good"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	tr.cart.err = nil
	if rec := tr.do(http.MethodDelete, "/api/cart/remove/4", "", "good"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := tr.do(http.MethodDelete, "/api/cart/clear/1", "", "good"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
