package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/AshHarikrishna/cloud-proj/domain"
	"github.com/AshHarikrishna/cloud-proj/game"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (pgr *PostgresRepo) GetPool() *pgxpool.Pool {
	return pgr.pool
}

func (pgr *PostgresRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	user := domain.User{Username: username}

	row := pgr.pool.QueryRow(ctx, "SELECT id, password_hash, currency FROM users WHERE username = $1", username)

	err := row.Scan(&user.Id, &user.PasswordHash, &user.Currency)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.User{}, err
		default:
			return domain.User{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return user, nil
}

func (pgr *PostgresRepo) CreateUser(ctx context.Context, username string, passwordHash string) (string, error) {
	id := uuid.NewString()

	_, err := pgr.pool.Exec(ctx,
		"INSERT INTO users(id, username, password_hash, currency) VALUES($1, $2, $3, 0)",
		id, username, passwordHash)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// "23505" is the PostgreSQL error code for unique_violation
			if pgErr.Code == "23505" {
				return "", domain.ErrDuplicateUsername
			}
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		return "", fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return id, nil
}

// Credit implements the game.CurrencyLedger interface. Amount may be
// negative for debits, but the balance never drops below zero.
func (pgr *PostgresRepo) Credit(ctx context.Context, username string, amount int) (int, error) {
	row := pgr.pool.QueryRow(ctx,
		"UPDATE users SET currency = GREATEST(currency + $2, 0) WHERE username = $1 RETURNING currency",
		username, amount)

	var balance int
	err := row.Scan(&balance)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return 0, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return 0, err
		default:
			return 0, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return balance, nil
}

func (pgr *PostgresRepo) Balance(ctx context.Context, username string) (int, error) {
	row := pgr.pool.QueryRow(ctx, "SELECT currency FROM users WHERE username = $1", username)

	var balance int
	err := row.Scan(&balance)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return 0, domain.ErrUserNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return 0, err
		default:
			return 0, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	return balance, nil
}

// GetQuestions loads the question bank in its stored order.
func (pgr *PostgresRepo) GetQuestions(ctx context.Context) ([]game.Question, error) {
	rows, err := pgr.pool.Query(ctx,
		"SELECT prompt, options, correct_index FROM questions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer rows.Close()

	var questions []game.Question
	for rows.Next() {
		var q game.Question
		if err := rows.Scan(&q.Prompt, &q.Options, &q.CorrectIndex); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return questions, nil
}
