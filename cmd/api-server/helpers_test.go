package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"restaurant-orders/internal/auth"
	"restaurant-orders/internal/config"
	"restaurant-orders/internal/dish"
	ord "restaurant-orders/internal/order"
	"restaurant-orders/internal/user"
)

const testSecret = "test-secret"

//
// ---------- STUB ORDER REPO (implements order.Repository) ----------
//

type dishRow struct {
	price decimal.Decimal
	stock int
	sales int
}

type stubOrderRepo struct {
	dishes    map[int64]*dishRow
	usernames map[int64]string
	orders    map[int64]*ord.Order
	details   map[int64][]ord.Detail
	nextID    int64
	// when set, Create fails after validation; nothing may be persisted
	failCreate bool
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		dishes:    make(map[int64]*dishRow),
		usernames: make(map[int64]string),
		orders:    make(map[int64]*ord.Order),
		details:   make(map[int64][]ord.Detail),
	}
}

func (s *stubOrderRepo) addDish(id int64, price string, stock int) {
	p, _ := decimal.NewFromString(price)
	s.dishes[id] = &dishRow{price: p, stock: stock}
}

// Create mirrors the transactional contract: it stages every effect and
// applies all of them or none.
func (s *stubOrderRepo) Create(ctx context.Context, userID int64, items []ord.Line, declared decimal.Decimal) (int64, error) {
	staged := map[int64]int{}
	total := decimal.Zero
	for _, it := range items {
		d, okDish := s.dishes[it.DishID]
		if !okDish {
			return 0, ord.ErrDishNotFound
		}
		if d.stock-staged[it.DishID] < it.Quantity {
			return 0, ord.ErrInsufficientStock
		}
		staged[it.DishID] += it.Quantity
		total = total.Add(d.price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !total.Equal(declared) {
		return 0, ord.ErrTotalMismatch
	}
	if s.failCreate {
		return 0, fmt.Errorf("injected transaction failure")
	}

	for id, q := range staged {
		s.dishes[id].stock -= q
		s.dishes[id].sales += q
	}
	s.nextID++
	id := s.nextID
	s.orders[id] = &ord.Order{
		ID: id, UserID: userID, Status: ord.StatusPending,
		TotalAmount: total.StringFixed(2), CreatedAt: time.Now(),
	}
	for i, it := range items {
		s.details[id] = append(s.details[id], ord.Detail{
			ID: int64(i + 1), OrderID: id, DishID: it.DishID, Quantity: it.Quantity,
		})
	}
	return id, nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id int64) (*ord.Order, []ord.Detail, error) {
	o, okOrder := s.orders[id]
	if !okOrder {
		return nil, nil, ord.ErrNotFound
	}
	cp := *o
	return &cp, append([]ord.Detail(nil), s.details[id]...), nil
}

func (s *stubOrderRepo) List(ctx context.Context) ([]ord.Order, error) {
	out := []ord.Order{}
	for _, o := range s.orders {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID int64) ([]ord.Order, error) {
	out := []ord.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubOrderRepo) ConfirmPayment(ctx context.Context, id int64) error {
	o, okOrder := s.orders[id]
	if !okOrder {
		return ord.ErrNotFound
	}
	now := time.Now()
	o.Status = ord.StatusPaid
	o.PaidAt = &now
	return nil
}

func (s *stubOrderRepo) ConfirmPaymentBatch(ctx context.Context, ids []int64) ([]ord.ConfirmResult, error) {
	out := make([]ord.ConfirmResult, 0, len(ids))
	for _, id := range ids {
		err := s.ConfirmPayment(ctx, id)
		out = append(out, ord.ConfirmResult{OrderID: id, Confirmed: err == nil})
	}
	return out, nil
}

func (s *stubOrderRepo) Delete(ctx context.Context, id int64) error {
	if _, okOrder := s.orders[id]; !okOrder {
		return ord.ErrNotFound
	}
	delete(s.orders, id)
	delete(s.details, id)
	return nil
}

func (s *stubOrderRepo) Summary(ctx context.Context) ([]ord.Summary, error) {
	byUser := map[int64]*ord.Summary{}
	for _, o := range s.orders {
		sum, okSum := byUser[o.UserID]
		if !okSum {
			sum = &ord.Summary{UserID: o.UserID, Username: s.usernames[o.UserID], TotalSpent: "0"}
			byUser[o.UserID] = sum
		}
		sum.OrderCount++
		spent, _ := decimal.NewFromString(sum.TotalSpent)
		amount, _ := decimal.NewFromString(o.TotalAmount)
		sum.TotalSpent = spent.Add(amount).StringFixed(2)
	}
	out := []ord.Summary{}
	for _, sum := range byUser {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *stubOrderRepo) SummaryByUser(ctx context.Context, userID int64) ([]ord.Summary, error) {
	all, _ := s.Summary(ctx)
	out := []ord.Summary{}
	for _, sum := range all {
		if sum.UserID == userID {
			out = append(out, sum)
		}
	}
	return out, nil
}

//
// ---------- STUB DISH REPO (implements dish.Repository) ----------
//

type stubDishRepo struct {
	items  map[int64]*dish.Dish
	nextID int64
}

func newStubDishRepo() *stubDishRepo {
	return &stubDishRepo{items: make(map[int64]*dish.Dish)}
}

func (s *stubDishRepo) Create(ctx context.Context, d *dish.Dish) error {
	s.nextID++
	d.ID = s.nextID
	cp := *d
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.items[d.ID] = &cp
	return nil
}

func (s *stubDishRepo) GetByID(ctx context.Context, id int64) (*dish.Dish, error) {
	d, okDish := s.items[id]
	if !okDish {
		return nil, dish.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *stubDishRepo) List(ctx context.Context) ([]dish.Dish, error) {
	out := []dish.Dish{}
	for _, d := range s.items {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, _ := decimal.NewFromString(out[i].Price)
		pj, _ := decimal.NewFromString(out[j].Price)
		return pi.GreaterThan(pj)
	})
	return out, nil
}

func (s *stubDishRepo) Update(ctx context.Context, d *dish.Dish, updateStock bool) error {
	cur, okDish := s.items[d.ID]
	if !okDish {
		return dish.ErrNotFound
	}
	if d.Name != "" {
		cur.Name = d.Name
	}
	if d.Price != "" {
		cur.Price = d.Price
	}
	if updateStock {
		cur.Stock = d.Stock
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubDishRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, okDish := s.items[id]; !okDish {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubDishRepo) RecordSale(ctx context.Context, id int64, quantity int) error {
	d, okDish := s.items[id]
	if !okDish {
		return dish.ErrNotFound
	}
	if d.Stock < quantity {
		return dish.ErrInsufficientStock
	}
	d.Stock -= quantity
	d.Sales += quantity
	return nil
}

//
// ---------- STUB USER REPO (implements user.Repository) ----------
//

type stubUserRepo struct {
	byName map[string]*user.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byName: make(map[string]*user.User)}
}

func (s *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, dup := s.byName[u.Username]; dup {
		return user.ErrAlreadyExist
	}
	s.nextID++
	u.ID = s.nextID
	cp := *u
	s.byName[u.Username] = &cp
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	for _, u := range s.byName {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, okUser := s.byName[username]
	if !okUser {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

//
// ---------- HELPERS ----------
//

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testToken(userID int64, role auth.Role) string {
	tok, err := auth.GenerateToken([]byte(testSecret), userID, role)
	if err != nil {
		panic(err)
	}
	return tok
}

func newTestRouter(orderRepo ord.Repository, dishRepo dish.Repository, userRepo user.Repository) *gin.Engine {
	if userRepo == nil {
		userRepo = newStubUserRepo()
	}
	cfg := config.Config{JWTSecret: testSecret, PayURL: "https://pay.example/qr.jpg"}
	return newRouter(cfg, orderRepo, dishRepo, user.NewService(userRepo, []byte(testSecret)))
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
