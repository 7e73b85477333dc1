package review_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	redrepo "github.com/lazyvar/cliffhanger-club/internal/repo/redis"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
)

func TestSaveAnswersSkipsBlankAndUnknown(t *testing.T) {
	store := newFakeReviewStore()
	store.questions = []model.Question{
		{ID: 1, QuestionText: "Best book?", QuestionType: "text"},
		{ID: 2, QuestionText: "Worst book?", QuestionType: "text"},
	}
	svc := reviewsvc.NewService(store, store, store, nil, nil)

	err := svc.SaveAnswers(context.Background(), 7, map[int64]string{
		1:  "  Piranesi  ",
		2:  "   ",
		99: "not a real question",
	})
	if err != nil {
		t.Fatalf("save answers: %v", err)
	}

	if len(store.answers) != 1 {
		t.Fatalf("expected exactly one saved answer, got %d", len(store.answers))
	}
	saved := store.answers[0]
	if saved.QuestionID != 1 || saved.Answer != "Piranesi" {
		t.Fatalf("unexpected saved answer: %+v", saved)
	}
}

func TestSaveAnswersOverwritesPrevious(t *testing.T) {
	store := newFakeReviewStore()
	store.questions = []model.Question{{ID: 1, QuestionText: "Best book?", QuestionType: "text"}}
	svc := reviewsvc.NewService(store, store, store, nil, nil)

	ctx := context.Background()
	if err := svc.SaveAnswers(ctx, 7, map[int64]string{1: "first"}); err != nil {
		t.Fatalf("save first answer: %v", err)
	}
	if err := svc.SaveAnswers(ctx, 7, map[int64]string{1: "second"}); err != nil {
		t.Fatalf("save second answer: %v", err)
	}

	if len(store.answers) != 1 {
		t.Fatalf("upsert must not duplicate rows, got %d", len(store.answers))
	}
	if store.answers[0].Answer != "second" {
		t.Fatalf("unexpected stored answer: %q", store.answers[0].Answer)
	}
}

func TestAllAnswersGroupsByQuestionInOrder(t *testing.T) {
	store := newFakeReviewStore()
	store.questions = []model.Question{
		{ID: 1, QuestionText: "Best book?"},
		{ID: 2, QuestionText: "Worst book?"},
	}
	store.allAnswers = []model.AnswerWithMember{
		{Answer: model.Answer{QuestionID: 2, Answer: "B"}, DisplayName: "Alice"},
		{Answer: model.Answer{QuestionID: 1, Answer: "A"}, DisplayName: "Alice"},
		{Answer: model.Answer{QuestionID: 1, Answer: "C"}, DisplayName: "Bob"},
	}
	svc := reviewsvc.NewService(store, store, store, nil, nil)

	grouped, err := svc.AllAnswers(context.Background())
	if err != nil {
		t.Fatalf("all answers: %v", err)
	}

	if len(grouped) != 2 {
		t.Fatalf("expected one group per question, got %d", len(grouped))
	}
	if grouped[0].Question.ID != 1 || len(grouped[0].Answers) != 2 {
		t.Fatalf("unexpected first group: %+v", grouped[0])
	}
	if grouped[1].Question.ID != 2 || len(grouped[1].Answers) != 1 {
		t.Fatalf("unexpected second group: %+v", grouped[1])
	}
}

func TestRevealVisibleFallsBackToSettings(t *testing.T) {
	store := newFakeReviewStore()
	store.settings["wrapped_visible"] = "true"
	svc := reviewsvc.NewService(store, store, store, nil, nil)

	visible, err := svc.RevealVisible(context.Background())
	if err != nil {
		t.Fatalf("reveal visible: %v", err)
	}
	if !visible {
		t.Fatalf("expected reveal to be visible")
	}
}

func TestToggleRevealFlipsAndInvalidatesCache(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mini.Close()
	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	defer func() { _ = client.Close() }()

	store := newFakeReviewStore()
	cache := redrepo.NewRevealCacheRepo(client, time.Minute)
	svc := reviewsvc.NewService(store, store, store, cache, nil)

	ctx := context.Background()
	visible, err := svc.ToggleReveal(ctx)
	if err != nil {
		t.Fatalf("toggle reveal: %v", err)
	}
	if !visible {
		t.Fatalf("first toggle should turn the flag on")
	}
	if store.settings["wrapped_visible"] != "true" {
		t.Fatalf("setting not persisted: %q", store.settings["wrapped_visible"])
	}

	// Next read repopulates the cache from postgres truth.
	visible, err = svc.RevealVisible(ctx)
	if err != nil {
		t.Fatalf("reveal visible after toggle: %v", err)
	}
	if !visible {
		t.Fatalf("expected flag on after toggle")
	}

	visible, err = svc.ToggleReveal(ctx)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if visible {
		t.Fatalf("second toggle should turn the flag off")
	}
}

func TestSetRevealForcesState(t *testing.T) {
	store := newFakeReviewStore()
	svc := reviewsvc.NewService(store, store, store, nil, nil)

	ctx := context.Background()
	if err := svc.SetReveal(ctx, true); err != nil {
		t.Fatalf("set reveal on: %v", err)
	}
	if store.settings["wrapped_visible"] != "true" {
		t.Fatalf("setting not persisted: %q", store.settings["wrapped_visible"])
	}

	if err := svc.SetReveal(ctx, false); err != nil {
		t.Fatalf("set reveal off: %v", err)
	}
	if visible, err := svc.RevealVisible(ctx); err != nil || visible {
		t.Fatalf("expected flag off, got visible=%v err=%v", visible, err)
	}
}

type fakeReviewStore struct {
	questions  []model.Question
	answers    []model.Answer
	allAnswers []model.AnswerWithMember
	progress   []model.MemberProgress
	settings   map[string]string
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{settings: make(map[string]string)}
}

func (f *fakeReviewStore) ListAll(_ context.Context) ([]model.Question, error) {
	return f.questions, nil
}

func (f *fakeReviewStore) ListByUser(_ context.Context, userID int64) ([]model.Answer, error) {
	var out []model.Answer
	for _, a := range f.answers {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) Upsert(_ context.Context, userID, questionID int64, answer string) error {
	for i := range f.answers {
		if f.answers[i].UserID == userID && f.answers[i].QuestionID == questionID {
			f.answers[i].Answer = answer
			return nil
		}
	}
	f.answers = append(f.answers, model.Answer{UserID: userID, QuestionID: questionID, Answer: answer})
	return nil
}

func (f *fakeReviewStore) ListAllWithMembers(_ context.Context) ([]model.AnswerWithMember, error) {
	return f.allAnswers, nil
}

func (f *fakeReviewStore) CompletionStatus(_ context.Context) ([]model.MemberProgress, error) {
	return f.progress, nil
}

func (f *fakeReviewStore) Get(_ context.Context, key string) (string, error) {
	return f.settings[key], nil
}

func (f *fakeReviewStore) Set(_ context.Context, key, value string) error {
	f.settings[key] = value
	return nil
}
