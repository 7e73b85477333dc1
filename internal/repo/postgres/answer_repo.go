package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
)

type AnswerRepo struct {
	pool *pgxpool.Pool
}

func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

func (r *AnswerRepo) ListByUser(ctx context.Context, userID int64) ([]model.Answer, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, question_id, answer, created_at
FROM answers
WHERE user_id = $1
ORDER BY question_id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list answers by user: %w", err)
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionID, &a.Answer, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return answers, nil
}

// Upsert saves one member's answer to one question, overwriting any previous one.
func (r *AnswerRepo) Upsert(ctx context.Context, userID, questionID int64, answer string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || questionID <= 0 || strings.TrimSpace(answer) == "" {
		return fmt.Errorf("invalid answer payload")
	}

	const query = `
INSERT INTO answers (user_id, question_id, answer, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, question_id) DO UPDATE SET
	answer = EXCLUDED.answer,
	created_at = NOW()
`
	if _, err := r.pool.Exec(ctx, query, userID, questionID, strings.TrimSpace(answer)); err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}

	return nil
}

// ListAllWithMembers returns every answer joined with the answering member,
// ordered for the reveal page grouping.
func (r *AnswerRepo) ListAllWithMembers(ctx context.Context) ([]model.AnswerWithMember, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	const query = `
SELECT a.id, a.user_id, a.question_id, a.answer, a.created_at,
       u.username, u.display_name, u.avatar_url
FROM answers a
JOIN users u ON u.id = a.user_id
ORDER BY a.question_id, u.display_name
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all answers: %w", err)
	}
	defer rows.Close()

	var answers []model.AnswerWithMember
	for rows.Next() {
		var a model.AnswerWithMember
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.QuestionID, &a.Answer, &a.CreatedAt,
			&a.Username, &a.DisplayName, &a.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan answer with member: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}

	return answers, nil
}

// CompletionStatus reports answered/total per member for the admin page.
func (r *AnswerRepo) CompletionStatus(ctx context.Context) ([]model.MemberProgress, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	const query = `
SELECT u.username, u.display_name, u.avatar_url,
       COUNT(a.id) AS answered,
       (SELECT COUNT(*) FROM questions) AS total
FROM users u
LEFT JOIN answers a ON a.user_id = u.id
GROUP BY u.id
ORDER BY u.display_name
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("completion status: %w", err)
	}
	defer rows.Close()

	var progress []model.MemberProgress
	for rows.Next() {
		var p model.MemberProgress
		if err := rows.Scan(&p.Username, &p.DisplayName, &p.AvatarURL, &p.Answered, &p.Total); err != nil {
			return nil, fmt.Errorf("scan completion row: %w", err)
		}
		progress = append(progress, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion rows: %w", err)
	}

	return progress, nil
}
