package postgres

import (
	"context"
	"fmt"

	"github.com/bytemint/minty/internal/core/domain"
)

// UserRepo persists users keyed by wallet address using PostgreSQL.
// Addresses are stored lowercased so lookups are case-insensitive.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new PostgreSQL user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetOrCreate returns the user for a wallet address, creating it on first
// login. Calling it twice with the same address yields the same record.
func (r *UserRepo) GetOrCreate(ctx context.Context, wallet string) (*domain.User, error) {
	addr := domain.LowerAddress(wallet)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (wallet_address) VALUES ($1)
		 ON CONFLICT (wallet_address) DO NOTHING`, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var user domain.User
	err = r.db.GetContext(ctx, &user,
		`SELECT id, wallet_address, created_at FROM users WHERE wallet_address = $1`, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByWallet returns the user for a wallet address, or nil when absent.
func (r *UserRepo) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, wallet_address, created_at FROM users WHERE wallet_address = $1`,
		domain.LowerAddress(wallet))
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
