package httpserver

import (
	"net/http"
	"testing"

	"secondhand-marketplace/internal/domain"
)

func TestCheckout(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(http.MethodPost, "/api/purchases/checkout/1", "", "good")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	purchase, _ := decodeBody(t, rec)["purchase"].(map[string]interface{})
	if purchase["totalAmount"] != "25" {
		t.Fatalf("expected total 25, got %v", purchase["totalAmount"])
	}

	if rec := tr.do(http.MethodPost, "/api/purchases/checkout/2", "", "good"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for another user, got %d", rec.Code)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	tr := newTestRouter(t)
	tr.purchases.err = domain.ErrEmptyCart

	rec := tr.do(http.MethodPost, "/api/purchases/checkout/1", "", "good")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "cart is empty" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestPurchaseHistoryAndGet(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(http.MethodGet, "/api/purchases/history/1", "", "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["count"] != float64(1) {
		t.Fatalf("expected one purchase, got %v", body["count"])
	}

	if rec := tr.do(http.MethodGet, "/api/purchases/5", "", "good"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	tr.purchases.err = domain.Errorf(domain.ErrUnauthorized, "purchase 5 belongs to another user")
	if rec := tr.do(http.MethodGet, "/api/purchases/5", "", "good"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCheckout_StorageFailureIsGeneric(t *testing.T) {
	tr := newTestRouter(t)
	tr.purchases.err = errTest("connection reset by peer")

	rec := tr.do(http.MethodPost, "/api/purchases/checkout/1", "", "good")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "internal server error" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
