// Package dish provides the repository interface and PostgreSQL implementation
// for the sellable catalog, including the guarded stock/sales update.
package dish

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("dish not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Repository interface {
	Create(ctx context.Context, d *Dish) error
	GetByID(ctx context.Context, id int64) (*Dish, error)
	List(ctx context.Context) ([]Dish, error)
	Update(ctx context.Context, d *Dish, updateStock bool) error
	Delete(ctx context.Context, id int64) (bool, error)
	RecordSale(ctx context.Context, id int64, quantity int) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, d *Dish) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO dishes (name, price, stock, sales, created_at, updated_at)
		VALUES ($1,$2,$3,0,NOW(),NOW())
		RETURNING id
	`, d.Name, d.Price, d.Stock).Scan(&d.ID)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d Dish
	err := r.db.QueryRow(ctx, `
		SELECT id, name, price::text, stock, sales, created_at, updated_at
		FROM dishes WHERE id=$1
	`, id).Scan(&d.ID, &d.Name, &d.Price, &d.Stock, &d.Sales, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	return &d, nil
}

// List returns the whole catalog, most expensive first, matching the menu
// ordering the storefront expects.
func (r *PGRepo) List(ctx context.Context) ([]Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, price::text, stock, sales, created_at, updated_at
		FROM dishes
		ORDER BY price DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Dish
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Price, &d.Stock, &d.Sales, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, d *Dish, updateStock bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var err error
	var affected int64
	if updateStock {
		tag, e := r.db.Exec(ctx, `
			UPDATE dishes
			SET name  = COALESCE(NULLIF($2,''), name),
			    price = COALESCE(NULLIF($3,'')::numeric, price),
			    stock = $4,
			    updated_at = NOW()
			WHERE id = $1
		`, d.ID, d.Name, d.Price, d.Stock)
		err, affected = e, tag.RowsAffected()
	} else {
		tag, e := r.db.Exec(ctx, `
			UPDATE dishes
			SET name  = COALESCE(NULLIF($2,''), name),
			    price = COALESCE(NULLIF($3,'')::numeric, price),
			    updated_at = NOW()
			WHERE id = $1
		`, d.ID, d.Name, d.Price)
		err, affected = e, tag.RowsAffected()
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM dishes WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// RecordSale applies `sales += q, stock -= q` as one guarded statement so
// concurrent sales on the same dish serialize at the row and stock can never
// go negative. Zero rows affected means either the dish is missing or the
// stock guard fired; the follow-up lookup tells the two apart.
func (r *PGRepo) RecordSale(ctx context.Context, id int64, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE dishes
		SET sales = sales + $2, stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM dishes WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
