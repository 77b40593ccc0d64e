package categories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("category not found")
	ErrDuplicateName = errors.New("category name already exists")
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Accent    string    `json:"accent"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateInput struct {
	Name   string
	Accent string
	Emoji  string
}

// UpdateInput carries a partial update; nil fields keep current values.
type UpdateInput struct {
	Name   *string
	Accent *string
	Emoji  *string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const columns = `id, name, accent, emoji, created_at, updated_at`

func (r *Repo) List(ctx context.Context) ([]Category, error) {
	const q = `select ` + columns + ` from wedding_categories order by id;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0, 16)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Accent, &c.Emoji, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Category, error) {
	const q = `select ` + columns + ` from wedding_categories where id = $1;`

	var c Category
	err := r.db.QueryRow(ctx, q, id).
		Scan(&c.ID, &c.Name, &c.Accent, &c.Emoji, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, input CreateInput) (*Category, error) {
	const q = `
insert into wedding_categories (name, accent, emoji)
values ($1, $2, $3)
returning ` + columns + `;`

	var c Category
	err := r.db.QueryRow(ctx, q, input.Name, input.Accent, input.Emoji).
		Scan(&c.ID, &c.Name, &c.Accent, &c.Emoji, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Update(ctx context.Context, id int64, input UpdateInput) (*Category, error) {
	const q = `
update wedding_categories
set name       = coalesce($2, name),
    accent     = coalesce($3, accent),
    emoji      = coalesce($4, emoji),
    updated_at = now()
where id = $1
returning ` + columns + `;`

	var c Category
	err := r.db.QueryRow(ctx, q, id, input.Name, input.Accent, input.Emoji).
		Scan(&c.ID, &c.Name, &c.Accent, &c.Emoji, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes the category; dependent tasks go with it via the FK
// cascade. Returns false when no row matched.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `delete from wedding_categories where id = $1;`

	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
