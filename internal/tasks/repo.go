package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wedding-prep/taskboard/internal/categories"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category does not exist")
	ErrMemberNotFound   = errors.New("assignee does not exist")
)

// Task is the wire shape of one row. Reads always embed the owning
// category, mirroring the API contract the board client expects.
type Task struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	CategoryID  int64                `json:"category_id"`
	Emoji       string               `json:"emoji"`
	Status      string               `json:"status"`
	IsDone      bool                 `json:"is_done"`
	Due         *time.Time           `json:"due,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
	AssigneeIDs []int64              `json:"assignee_ids"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Category    *categories.Category `json:"category,omitempty"`
}

type CreateInput struct {
	Title       string
	CategoryID  int64
	Emoji       string
	Status      *string
	IsDone      *bool
	Due         *time.Time
	Notes       *string
	AssigneeIDs []int64
}

// UpdateInput carries a partial update; nil fields keep current values.
// A nil AssigneeIDs keeps the list; an empty non-nil slice clears it.
type UpdateInput struct {
	Title       *string
	CategoryID  *int64
	Emoji       *string
	Status      *string
	IsDone      *bool
	Due         *time.Time
	Notes       *string
	AssigneeIDs []int64
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const selectWithCategory = `
select t.id, t.title, t.category_id, t.emoji, t.status, t.is_done, t.due, t.notes,
       coalesce(t.assignee_ids, '[]'::jsonb),
       t.created_at, t.updated_at,
       c.id, c.name, c.accent, c.emoji, c.created_at, c.updated_at
from wedding_tasks t
join wedding_categories c on c.id = t.category_id`

func scanTask(row pgx.Row) (*Task, error) {
	var (
		t   Task
		c   categories.Category
		raw []byte
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.CategoryID, &t.Emoji, &t.Status, &t.IsDone, &t.Due, &t.Notes,
		&raw,
		&t.CreatedAt, &t.UpdatedAt,
		&c.ID, &c.Name, &c.Accent, &c.Emoji, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &t.AssigneeIDs); err != nil {
		return nil, err
	}
	if t.AssigneeIDs == nil {
		t.AssigneeIDs = []int64{}
	}
	t.Category = &c
	return &t, nil
}

func (r *Repo) List(ctx context.Context) ([]Task, error) {
	const q = selectWithCategory + `
order by t.id;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0, 32)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Task, error) {
	const q = selectWithCategory + `
where t.id = $1;`

	t, err := scanTask(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repo) Create(ctx context.Context, input CreateInput) (*Task, error) {
	if err := r.checkAssignees(ctx, input.AssigneeIDs); err != nil {
		return nil, err
	}

	assignees, err := marshalAssignees(input.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	const q = `
insert into wedding_tasks (title, category_id, emoji, status, is_done, due, notes, assignee_ids)
values ($1, $2, $3, coalesce($4, 'not_started'), coalesce($5, false), $6, $7, $8::jsonb)
returning id;`

	var id int64
	err = r.db.QueryRow(ctx, q,
		input.Title, input.CategoryID, input.Emoji,
		input.Status, input.IsDone, input.Due, input.Notes, assignees,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *Repo) Update(ctx context.Context, id int64, input UpdateInput) (*Task, error) {
	if input.AssigneeIDs != nil {
		if err := r.checkAssignees(ctx, input.AssigneeIDs); err != nil {
			return nil, err
		}
	}

	var assignees *string
	if input.AssigneeIDs != nil {
		s, err := marshalAssignees(input.AssigneeIDs)
		if err != nil {
			return nil, err
		}
		assignees = &s
	}

	const q = `
update wedding_tasks
set title        = coalesce($2, title),
    category_id  = coalesce($3, category_id),
    emoji        = coalesce($4, emoji),
    status       = coalesce($5, status),
    is_done      = coalesce($6, is_done),
    due          = coalesce($7, due),
    notes        = coalesce($8, notes),
    assignee_ids = coalesce($9::jsonb, assignee_ids),
    updated_at   = now()
where id = $1
returning id;`

	var updatedID int64
	err := r.db.QueryRow(ctx, q, id,
		input.Title, input.CategoryID, input.Emoji,
		input.Status, input.IsDone, input.Due, input.Notes, assignees,
	).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return r.Get(ctx, updatedID)
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `delete from wedding_tasks where id = $1;`

	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// checkAssignees verifies every id resolves to an existing member,
// the repo-level mirror of the API's exists validation rule.
func (r *Repo) checkAssignees(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	const q = `select count(distinct id) from wedding_members where id = any($1);`

	var count int
	if err := r.db.QueryRow(ctx, q, ids).Scan(&count); err != nil {
		return err
	}
	if count != len(uniqueIDs(ids)) {
		return ErrMemberNotFound
	}
	return nil
}

func marshalAssignees(ids []int64) (string, error) {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
