package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("member not found")
	ErrDuplicateName = errors.New("member name already exists")
)

type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      *string   `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateInput struct {
	Name string
	Role *string
}

type UpdateInput struct {
	Name *string
	Role *string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const columns = `id, name, role, created_at, updated_at`

func (r *Repo) List(ctx context.Context) ([]Member, error) {
	const q = `select ` + columns + ` from wedding_members order by id;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Member, 0, 16)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Member, error) {
	const q = `select ` + columns + ` from wedding_members where id = $1;`

	var m Member
	err := r.db.QueryRow(ctx, q, id).
		Scan(&m.ID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Create(ctx context.Context, input CreateInput) (*Member, error) {
	const q = `
insert into wedding_members (name, role)
values ($1, $2)
returning ` + columns + `;`

	var m Member
	err := r.db.QueryRow(ctx, q, input.Name, input.Role).
		Scan(&m.ID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repo) Update(ctx context.Context, id int64, input UpdateInput) (*Member, error) {
	const q = `
update wedding_members
set name       = coalesce($2, name),
    role       = coalesce($3, role),
    updated_at = now()
where id = $1
returning ` + columns + `;`

	var m Member
	err := r.db.QueryRow(ctx, q, id, input.Name, input.Role).
		Scan(&m.ID, &m.Name, &m.Role, &m.CreatedAt, &m.UpdatedAt)
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
	return &m, nil
}

// Delete removes the member and, in the same transaction, strips its id
// from every task's assignee list so other clients never observe a task
// pointing at a member that no longer exists.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	const del = `delete from wedding_members where id = $1;`
	tag, err := tx.Exec(ctx, del, id)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	const strip = `
update wedding_tasks
set assignee_ids = coalesce(
        (select jsonb_agg(e) from jsonb_array_elements(assignee_ids) e where e <> to_jsonb($1::bigint)),
        '[]'::jsonb),
    updated_at = now()
where assignee_ids @> to_jsonb(array[$1::bigint]);`
	if _, err := tx.Exec(ctx, strip, id); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit member delete: %w", err)
	}
	return true, nil
}
