package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the full DDL for the three wedding tables. Applied on
// startup; every statement is idempotent.
const Schema = `
create table if not exists wedding_categories (
    id          bigserial primary key,
    name        text not null unique,
    accent      text not null check (accent in ('blush', 'mint', 'lavender', 'sunny', 'sky')),
    emoji       text not null,
    created_at  timestamptz not null default now(),
    updated_at  timestamptz not null default now()
);

create table if not exists wedding_members (
    id          bigserial primary key,
    name        text not null unique,
    role        text,
    created_at  timestamptz not null default now(),
    updated_at  timestamptz not null default now()
);

create table if not exists wedding_tasks (
    id           bigserial primary key,
    title        text not null,
    category_id  bigint not null references wedding_categories (id) on delete cascade,
    emoji        text not null,
    status       text not null default 'not_started' check (status in ('not_started', 'in_progress', 'done')),
    is_done      boolean not null default false,
    due          date,
    notes        text,
    assignee_ids jsonb,
    created_at   timestamptz not null default now(),
    updated_at   timestamptz not null default now()
);

create index if not exists wedding_tasks_category_id_idx on wedding_tasks (category_id);
`

// Open connects a pgx pool and fails fast on an unreachable database.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}

// Bootstrap applies the schema.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
