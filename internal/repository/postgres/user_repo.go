package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/TharHtet236401/cyber-security/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // Драйвер Postgres
)

// UserRepo — хранилище учеток аналитиков для входа в консоль.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(connString string) *UserRepo {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		log.Fatal(err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &UserRepo{db: db}
}

// Ping проверяет доступность базы при старте
func (r *UserRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, email, username, password_hash, role, scopes, created_at, updated_at
		FROM users WHERE username = $1`

	u := &domain.User{}
	var scopesRaw []byte
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &scopesRaw, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get user: %w", err)
	}

	if len(scopesRaw) > 0 {
		if err := json.Unmarshal(scopesRaw, &u.Scopes); err != nil {
			return nil, fmt.Errorf("postgres: decode scopes: %w", err)
		}
	}
	return u, nil
}
