package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// FindByCredentials resolves a username/digest pair. Unknown username and
// wrong digest both come back as auth.ErrInvalidCredentials.
func (r *UserRepo) FindByCredentials(ctx context.Context, username, digest string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, username, display_name, avatar_url, role, created_at
FROM users
WHERE username = $1 AND password_hash = $2
`, username, digest).Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("find user by credentials: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(username) == "" {
		return model.User{}, bookssvc.ErrMemberNotFound
	}

	var user model.User
	err := r.pool.QueryRow(ctx, `
SELECT id, username, display_name, avatar_url, role, created_at
FROM users
WHERE username = $1
`, username).Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, bookssvc.ErrMemberNotFound
		}
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}

	return user, nil
}

// ListMembers returns every member ordered by display name, for the login
// page member picker.
func (r *UserRepo) ListMembers(ctx context.Context) ([]model.User, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, username, display_name, avatar_url, role, created_at
FROM users
ORDER BY display_name
`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// Create provisions a member out-of-band (clubctl), never via the web surface.
func (r *UserRepo) Create(ctx context.Context, username, displayName, avatarURL, digest, role string) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(username) == "" || digest == "" {
		return 0, fmt.Errorf("username and digest are required")
	}
	if role == "" {
		role = model.RoleMember
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (username, display_name, avatar_url, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
RETURNING id
`, username, displayName, avatarURL, digest, role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}
