package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/dish"
)

func TestListDishes_Public(t *testing.T) {
	repo := newStubDishRepo()
	_ = repo.Create(nil, &dish.Dish{Name: "Kung Pao Chicken", Price: "22.00", Stock: 10})
	_ = repo.Create(nil, &dish.Dish{Name: "Mapo Tofu", Price: "18.50", Stock: 5})
	r := newTestRouter(newStubOrderRepo(), repo, nil)

	// no token required for the menu
	w := doJSON(r, http.MethodGet, "/api/dishes", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var dishes []dish.Dish
	if err := json.Unmarshal(w.Body.Bytes(), &dishes); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(dishes) != 2 {
		t.Fatalf("len=%d, want 2", len(dishes))
	}
	// most expensive first
	if dishes[0].Name != "Kung Pao Chicken" {
		t.Fatalf("first dish=%s, want price-descending order", dishes[0].Name)
	}
}

func TestCreateDish_AdminOnly(t *testing.T) {
	repo := newStubDishRepo()
	r := newTestRouter(newStubOrderRepo(), repo, nil)
	body := `{"name":"Mapo Tofu","price":"18.50","stock":30}`

	if w := doJSON(r, http.MethodPost, "/api/dishes", testToken(5, auth.RoleCustomer), body); w.Code != http.StatusForbidden {
		t.Fatalf("customer: status=%d (expected 403)", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/api/dishes", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status=%d (expected 401)", w.Code)
	}

	w := doJSON(r, http.MethodPost, "/api/dishes", testToken(1, auth.RoleAdmin), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin: status=%d body=%s", w.Code, w.Body.String())
	}
	if len(repo.items) != 1 {
		t.Fatal("dish not persisted")
	}
}

func TestCreateDish_Validation(t *testing.T) {
	repo := newStubDishRepo()
	r := newTestRouter(newStubOrderRepo(), repo, nil)
	tok := testToken(1, auth.RoleAdmin)

	for _, body := range []string{
		`{"price":"18.50","stock":30}`,
		`{"name":"Mapo Tofu","price":"0","stock":30}`,
		`{"name":"Mapo Tofu","price":"-1.00","stock":30}`,
		`{"name":"Mapo Tofu","price":"abc","stock":30}`,
		`{"name":"Mapo Tofu","price":"18.50","stock":-1}`,
	} {
		if w := doJSON(r, http.MethodPost, "/api/dishes", tok, body); w.Code != http.StatusBadRequest {
			t.Fatalf("body=%s status=%d (expected 400)", body, w.Code)
		}
	}
	if len(repo.items) != 0 {
		t.Fatal("invalid dish persisted")
	}
}

func TestUpdateDish(t *testing.T) {
	repo := newStubDishRepo()
	_ = repo.Create(nil, &dish.Dish{Name: "Mapo Tofu", Price: "18.50", Stock: 5})
	r := newTestRouter(newStubOrderRepo(), repo, nil)
	tok := testToken(1, auth.RoleAdmin)

	w := doJSON(r, http.MethodPut, "/api/dishes/1", tok, `{"price":"19.00","stock":12}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	d := repo.items[1]
	if d.Price != "19.00" || d.Stock != 12 || d.Name != "Mapo Tofu" {
		t.Fatalf("dish=%+v", d)
	}

	if w := doJSON(r, http.MethodPut, "/api/dishes/99", tok, `{"name":"x"}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status=%d (expected 404)", w.Code)
	}
}

func TestDeleteDish(t *testing.T) {
	repo := newStubDishRepo()
	_ = repo.Create(nil, &dish.Dish{Name: "Mapo Tofu", Price: "18.50", Stock: 5})
	r := newTestRouter(newStubOrderRepo(), repo, nil)
	tok := testToken(1, auth.RoleAdmin)

	if w := doJSON(r, http.MethodDelete, "/api/dishes/1", tok, ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/api/dishes/1", tok, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status=%d (expected 404)", w.Code)
	}
}

func TestRecordSale(t *testing.T) {
	repo := newStubDishRepo()
	_ = repo.Create(nil, &dish.Dish{Name: "Mapo Tofu", Price: "18.50", Stock: 3})
	r := newTestRouter(newStubOrderRepo(), repo, nil)
	tok := testToken(5, auth.RoleCustomer)

	w := doJSON(r, http.MethodPut, "/api/dishes/1/sales", tok, `{"quantity":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if d := repo.items[1]; d.Stock != 1 || d.Sales != 2 {
		t.Fatalf("stock=%d sales=%d, want 1/2", d.Stock, d.Sales)
	}
}

func TestRecordSale_InsufficientStockLeavesRowUntouched(t *testing.T) {
	repo := newStubDishRepo()
	_ = repo.Create(nil, &dish.Dish{Name: "Mapo Tofu", Price: "18.50", Stock: 3})
	r := newTestRouter(newStubOrderRepo(), repo, nil)

	w := doJSON(r, http.MethodPut, "/api/dishes/1/sales", testToken(5, auth.RoleCustomer), `{"quantity":5}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s (expected 409)", w.Code, w.Body.String())
	}
	if d := repo.items[1]; d.Stock != 3 || d.Sales != 0 {
		t.Fatalf("stock=%d sales=%d, want untouched 3/0", d.Stock, d.Sales)
	}
}

func TestRecordSale_Errors(t *testing.T) {
	repo := newStubDishRepo()
	_ = repo.Create(nil, &dish.Dish{Name: "Mapo Tofu", Price: "18.50", Stock: 3})
	r := newTestRouter(newStubOrderRepo(), repo, nil)
	tok := testToken(5, auth.RoleCustomer)

	if w := doJSON(r, http.MethodPut, "/api/dishes/99/sales", tok, `{"quantity":1}`); w.Code != http.StatusNotFound {
		t.Fatalf("unknown dish: status=%d (expected 404)", w.Code)
	}
	for _, body := range []string{`{"quantity":0}`, `{"quantity":-2}`, `{}`} {
		if w := doJSON(r, http.MethodPut, "/api/dishes/1/sales", tok, body); w.Code != http.StatusBadRequest {
			t.Fatalf("body=%s status=%d (expected 400)", body, w.Code)
		}
	}
}
