// Package order owns the order lifecycle: transactional creation with
// stock decrement, payment confirmation, cascade deletion and the live
// per-user summary.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrDishNotFound      = errors.New("dish not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTotalMismatch     = errors.New("declared total does not match dish prices")
)

// Line is one (dish, quantity) pair of a new order. Duplicate dish ids are
// legal and additive.
type Line struct {
	DishID   int64
	Quantity int
}

type Repository interface {
	Create(ctx context.Context, userID int64, items []Line, declaredTotal decimal.Decimal) (int64, error)
	GetByID(ctx context.Context, id int64) (*Order, []Detail, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	ConfirmPayment(ctx context.Context, id int64) error
	ConfirmPaymentBatch(ctx context.Context, ids []int64) ([]ConfirmResult, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) ([]Summary, error)
	SummaryByUser(ctx context.Context, userID int64) ([]Summary, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create inserts the order header and its detail rows and decrements dish
// stock, all in one transaction: either every row lands or none does. Each
// line item runs a guarded per-row update (stock >= quantity), so two
// concurrent orders against the same dish serialize at the row and can never
// oversell. The declared total is checked against current dish prices inside
// the same transaction.
func (r *PGRepo) Create(ctx context.Context, userID int64, items []Line, declaredTotal decimal.Decimal) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	total := decimal.Zero
	for _, it := range items {
		tag, err := tx.Exec(ctx, `
      UPDATE dishes
      SET stock = stock - $2, sales = sales + $2, updated_at = NOW()
      WHERE id = $1 AND stock >= $2
    `, it.DishID, it.Quantity)
		if err != nil {
			return 0, err
		}
		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM dishes WHERE id=$1)`, it.DishID).Scan(&exists); err != nil {
				return 0, err
			}
			if !exists {
				return 0, ErrDishNotFound
			}
			return 0, ErrInsufficientStock
		}

		var price string
		if err := tx.QueryRow(ctx, `SELECT price::text FROM dishes WHERE id=$1`, it.DishID).Scan(&price); err != nil {
			return 0, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return 0, err
		}
		total = total.Add(p.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if !total.Equal(declaredTotal) {
		return 0, ErrTotalMismatch
	}

	var orderID int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO orders (user_id, total_amount, status, created_at)
    VALUES ($1, $2, $3, NOW())
    RETURNING id
  `, userID, total.StringFixed(2), StatusPending).Scan(&orderID); err != nil {
		return 0, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_details (order_id, dish_id, quantity)
      VALUES ($1,$2,$3)
    `, orderID, it.DishID, it.Quantity); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, []Detail, error) {
	var o Order
	if err := r.db.QueryRow(ctx, `
    SELECT id, user_id, status, total_amount::text, created_at, paid_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.PaidAt); err != nil {
		return nil, nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, `
    SELECT id, order_id, dish_id, quantity
    FROM order_details WHERE order_id=$1
  `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var details []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.DishID, &d.Quantity); err != nil {
			return nil, nil, err
		}
		details = append(details, d)
	}
	return &o, details, rows.Err()
}

func (r *PGRepo) List(ctx context.Context) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOrders(r.db.Query(ctx, `
    SELECT id, user_id, status, total_amount::text, created_at, paid_at
    FROM orders
    ORDER BY created_at DESC
  `))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanOrders(r.db.Query(ctx, `
    SELECT id, user_id, status, total_amount::text, created_at, paid_at
    FROM orders WHERE user_id=$1
    ORDER BY created_at DESC
  `, userID))
}

func (r *PGRepo) scanOrders(rows pgx.Rows, err error) ([]Order, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Order{}
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.PaidAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ConfirmPayment stamps status and paid_at in one statement. Re-confirming an
// already-paid order re-stamps paid_at and is not an error.
func (r *PGRepo) ConfirmPayment(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, paid_at = NOW()
    WHERE id = $1
  `, id, StatusPaid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConfirmPaymentBatch applies the transition per id and reports each outcome
// instead of collapsing partial failure into a single aggregate.
func (r *PGRepo) ConfirmPaymentBatch(ctx context.Context, ids []int64) ([]ConfirmResult, error) {
	out := make([]ConfirmResult, 0, len(ids))
	for _, id := range ids {
		err := r.ConfirmPayment(ctx, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		out = append(out, ConfirmResult{OrderID: id, Confirmed: err == nil})
	}
	return out, nil
}

// Delete removes the order and all its detail rows in one transaction, so an
// orphaned detail row can never persist. A concurrent delete of the same
// order loses the race, sees zero rows affected and reports ErrNotFound.
func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_details WHERE order_id=$1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

const summaryQuery = `
    SELECT u.id, u.username, COUNT(o.id), COALESCE(SUM(o.total_amount),0)::text
    FROM users u
    JOIN orders o ON o.user_id = u.id
  `

func (r *PGRepo) Summary(ctx context.Context) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanSummaries(r.db.Query(ctx, summaryQuery+`
    GROUP BY u.id, u.username
    ORDER BY u.id
  `))
}

func (r *PGRepo) SummaryByUser(ctx context.Context, userID int64) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.scanSummaries(r.db.Query(ctx, summaryQuery+`
    WHERE u.id = $1
    GROUP BY u.id, u.username
  `, userID))
}

func (r *PGRepo) scanSummaries(rows pgx.Rows, err error) ([]Summary, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.UserID, &s.Username, &s.OrderCount, &s.TotalSpent); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
