package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
)

// SessionRepo owns the sessions table. Expiry is enforced in SQL so that a
// stale row is unresolvable the instant its expires_at passes, with or
// without a sweep.
type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if token == "" || userID <= 0 {
		return fmt.Errorf("invalid session payload")
	}

	const query = `
INSERT INTO sessions (token, user_id, expires_at, created_at)
VALUES ($1, $2, $3, NOW())
`
	if _, err := r.pool.Exec(ctx, query, token, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *SessionRepo) FindUser(ctx context.Context, token string) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	const query = `
SELECT u.id, u.username, u.display_name, u.avatar_url, u.role, u.created_at
FROM users u
JOIN sessions s ON s.user_id = u.id
WHERE s.token = $1 AND s.expires_at > NOW()
`
	var user model.User
	err := r.pool.QueryRow(ctx, query, token).Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, authsvc.ErrSessionNotFound
		}
		return model.User{}, fmt.Errorf("find user by session: %w", err)
	}

	return user, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if token == "" {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return res.RowsAffected(), nil
}
