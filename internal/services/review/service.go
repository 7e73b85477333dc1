package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	redrepo "github.com/lazyvar/cliffhanger-club/internal/repo/redis"
)

const revealSettingKey = "wrapped_visible"

type QuestionStore interface {
	ListAll(ctx context.Context) ([]model.Question, error)
}

type AnswerStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Answer, error)
	Upsert(ctx context.Context, userID, questionID int64, answer string) error
	ListAllWithMembers(ctx context.Context) ([]model.AnswerWithMember, error)
	CompletionStatus(ctx context.Context) ([]model.MemberProgress, error)
}

type SettingStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type RevealCache interface {
	Get(ctx context.Context) (bool, error)
	Set(ctx context.Context, visible bool) error
	Invalidate(ctx context.Context) error
}

// QuestionAnswers groups everyone's answers under one question for the
// reveal page.
type QuestionAnswers struct {
	Question model.Question
	Answers  []model.AnswerWithMember
}

type Service struct {
	questions QuestionStore
	answers   AnswerStore
	settings  SettingStore
	cache     RevealCache
	logger    *zap.Logger
}

func NewService(questions QuestionStore, answers AnswerStore, settings SettingStore, cache RevealCache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = redrepo.NewRevealCacheRepo(nil, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		questions: questions,
		answers:   answers,
		settings:  settings,
		cache:     cache,
		logger:    logger,
	}
}

func (s *Service) Questions(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *Service) AnswersFor(ctx context.Context, userID int64) ([]model.Answer, error) {
	answers, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list member answers: %w", err)
	}
	return answers, nil
}

// SaveAnswers upserts the submitted answers, keyed by question id. Blank
// submissions and unknown question ids are skipped, never errors.
func (s *Service) SaveAnswers(ctx context.Context, userID int64, submitted map[int64]string) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	questions, err := s.questions.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}

	for _, question := range questions {
		answer, ok := submitted[question.ID]
		if !ok || strings.TrimSpace(answer) == "" {
			continue
		}
		if err := s.answers.Upsert(ctx, userID, question.ID, strings.TrimSpace(answer)); err != nil {
			return fmt.Errorf("save answer to question %d: %w", question.ID, err)
		}
	}

	return nil
}

// AllAnswers returns every member's answers grouped by question, in question
// order, for the reveal page.
func (s *Service) AllAnswers(ctx context.Context) ([]QuestionAnswers, error) {
	questions, err := s.questions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.answers.ListAllWithMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all answers: %w", err)
	}

	byQuestion := make(map[int64][]model.AnswerWithMember, len(questions))
	for _, answer := range answers {
		byQuestion[answer.QuestionID] = append(byQuestion[answer.QuestionID], answer)
	}

	grouped := make([]QuestionAnswers, 0, len(questions))
	for _, question := range questions {
		grouped = append(grouped, QuestionAnswers{
			Question: question,
			Answers:  byQuestion[question.ID],
		})
	}

	return grouped, nil
}

func (s *Service) Completion(ctx context.Context) ([]model.MemberProgress, error) {
	progress, err := s.answers.CompletionStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("completion status: %w", err)
	}
	return progress, nil
}

// RevealVisible reports whether the aggregated answers are open to members.
// The cache is best-effort; postgres stays the source of truth.
func (s *Service) RevealVisible(ctx context.Context) (bool, error) {
	if visible, err := s.cache.Get(ctx); err == nil {
		return visible, nil
	} else if !errors.Is(err, redrepo.ErrCacheMiss) {
		s.logger.Warn("reveal flag cache read failed", zap.Error(err))
	}

	value, err := s.settings.Get(ctx, revealSettingKey)
	if err != nil {
		return false, fmt.Errorf("get reveal setting: %w", err)
	}

	visible := value == "true"
	if err := s.cache.Set(ctx, visible); err != nil {
		s.logger.Warn("reveal flag cache write failed", zap.Error(err))
	}

	return visible, nil
}

// SetReveal forces the flag to a known state.
func (s *Service) SetReveal(ctx context.Context, visible bool) error {
	value := "false"
	if visible {
		value = "true"
	}
	if err := s.settings.Set(ctx, revealSettingKey, value); err != nil {
		return fmt.Errorf("set reveal setting: %w", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("reveal flag cache invalidation failed", zap.Error(err))
	}
	return nil
}

// ToggleReveal flips the flag and returns the new state.
func (s *Service) ToggleReveal(ctx context.Context) (bool, error) {
	visible, err := s.RevealVisible(ctx)
	if err != nil {
		return false, err
	}

	next := !visible
	value := "false"
	if next {
		value = "true"
	}
	if err := s.settings.Set(ctx, revealSettingKey, value); err != nil {
		return false, fmt.Errorf("set reveal setting: %w", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("reveal flag cache invalidation failed", zap.Error(err))
	}

	return next, nil
}
