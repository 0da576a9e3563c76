// Package repository implements the persistence layer on PostgreSQL. All
// uniqueness and conditional-update guarantees the orchestration relies on
// live here, backed by constraints and guarded UPDATE statements.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storyforge/internal/apperr"
	"storyforge/internal/service"
)

// querier is the subset of pgx operations shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements service.Store. A Store created by NewStore issues
// statements against the pool; inside RunInTx the callback receives a Store
// bound to the open transaction.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

var _ service.Store = (*Store)(nil)

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// RunInTx executes fn inside a transaction. Nested calls reuse the open
// transaction instead of starting another.
func (s *Store) RunInTx(ctx context.Context, fn func(service.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{q: tx})
	})
}

const uniqueViolation = "23505"

// mapConstraintErr translates unique-constraint violations into the
// caller-facing errors the orchestration matches on.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "players_game_user_key":
		return apperr.New(apperr.KindBadRequest, apperr.CodeAlreadySubmitted,
			"user already joined this game")
	case "votes_action_voter_key":
		return apperr.New(apperr.KindBadRequest, apperr.CodeAlreadyVoted,
			"player already voted on this action")
	case "argumentation_marks_pkey":
		return apperr.New(apperr.KindBadRequest, apperr.CodeAlreadySubmitted,
			"player already marked argumentation complete")
	case "round_summaries_round_key":
		return apperr.New(apperr.KindBadRequest, apperr.CodeSummaryExists,
			"round already has a summary")
	}
	return err
}

// guarded interprets the outcome of a conditional update: zero affected
// rows means the precondition no longer held.
func guarded(tag pgconn.CommandTag, err error, what string) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Newf(apperr.KindBadRequest, apperr.CodeWrongPhase,
			"%s is not in the expected state", what)
	}
	return nil
}
