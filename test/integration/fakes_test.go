package integration_test

import (
	"context"
	"sort"
	"time"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
)

// memoryStore backs every service port with maps so the full router can
// be exercised without postgres or redis.
type memoryStore struct {
	users     []model.User
	passwords map[string]string
	sessions  map[string]storedSession
	books     []model.BookWithPicker
	questions []model.Question
	answers   map[int64]map[int64]string
	settings  map[string]string
}

type storedSession struct {
	userID    int64
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		passwords: make(map[string]string),
		sessions:  make(map[string]storedSession),
		answers:   make(map[int64]map[int64]string),
		settings:  map[string]string{"wrapped_visible": "false"},
	}
}

func (m *memoryStore) addUser(user model.User, password string) {
	m.users = append(m.users, user)
	m.passwords[user.Username] = authsvc.HashPassword(user.Username, password)
}

// UserStore

func (m *memoryStore) FindByCredentials(_ context.Context, username, digest string) (model.User, error) {
	if m.passwords[username] != digest {
		return model.User{}, authsvc.ErrInvalidCredentials
	}
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, authsvc.ErrInvalidCredentials
}

// SessionStore

func (m *memoryStore) Create(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	m.sessions[token] = storedSession{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *memoryStore) FindUser(_ context.Context, token string) (model.User, error) {
	s, ok := m.sessions[token]
	if !ok || !s.expiresAt.After(time.Now()) {
		return model.User{}, authsvc.ErrSessionNotFound
	}
	for _, user := range m.users {
		if user.ID == s.userID {
			return user, nil
		}
	}
	return model.User{}, authsvc.ErrSessionNotFound
}

func (m *memoryStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *memoryStore) DeleteExpired(_ context.Context) (int64, error) {
	var deleted int64
	for token, s := range m.sessions {
		if !s.expiresAt.After(time.Now()) {
			delete(m.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

// MemberStore

func (m *memoryStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, bookssvc.ErrMemberNotFound
}

func (m *memoryStore) ListMembers(_ context.Context) ([]model.User, error) {
	members := make([]model.User, len(m.users))
	copy(members, m.users)
	sort.Slice(members, func(i, j int) bool { return members[i].DisplayName < members[j].DisplayName })
	return members, nil
}

// BookStore

func (m *memoryStore) ListAll(_ context.Context) ([]model.BookWithPicker, error) {
	return m.books, nil
}

func (m *memoryStore) FindByID(_ context.Context, id int64) (model.BookWithPicker, error) {
	for _, book := range m.books {
		if book.ID == id {
			return book, nil
		}
	}
	return model.BookWithPicker{}, bookssvc.ErrBookNotFound
}

func (m *memoryStore) ListByUsername(_ context.Context, username string) ([]model.Book, error) {
	var id int64
	for _, user := range m.users {
		if user.Username == username {
			id = user.ID
		}
	}
	var picks []model.Book
	for _, book := range m.books {
		if book.AddedBy == id {
			picks = append(picks, book.Book)
		}
	}
	return picks, nil
}

// questionStore wraps memoryStore because the book list already owns
// the ListAll method name.
type questionStore struct {
	m *memoryStore
}

func (q questionStore) ListAll(_ context.Context) ([]model.Question, error) {
	return q.m.questions, nil
}

// AnswerStore

func (m *memoryStore) ListByUser(_ context.Context, userID int64) ([]model.Answer, error) {
	var out []model.Answer
	for questionID, answer := range m.answers[userID] {
		out = append(out, model.Answer{UserID: userID, QuestionID: questionID, Answer: answer})
	}
	return out, nil
}

func (m *memoryStore) Upsert(_ context.Context, userID, questionID int64, answer string) error {
	if m.answers[userID] == nil {
		m.answers[userID] = make(map[int64]string)
	}
	m.answers[userID][questionID] = answer
	return nil
}

func (m *memoryStore) ListAllWithMembers(_ context.Context) ([]model.AnswerWithMember, error) {
	var out []model.AnswerWithMember
	for _, user := range m.users {
		for questionID, answer := range m.answers[user.ID] {
			out = append(out, model.AnswerWithMember{
				Answer:      model.Answer{UserID: user.ID, QuestionID: questionID, Answer: answer},
				Username:    user.Username,
				DisplayName: user.DisplayName,
				AvatarURL:   user.AvatarURL,
			})
		}
	}
	return out, nil
}

func (m *memoryStore) CompletionStatus(_ context.Context) ([]model.MemberProgress, error) {
	var out []model.MemberProgress
	for _, user := range m.users {
		out = append(out, model.MemberProgress{
			Username:    user.Username,
			DisplayName: user.DisplayName,
			AvatarURL:   user.AvatarURL,
			Answered:    len(m.answers[user.ID]),
			Total:       len(m.questions),
		})
	}
	return out, nil
}

// SettingStore

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	return m.settings[key], nil
}

func (m *memoryStore) Set(_ context.Context, key, value string) error {
	m.settings[key] = value
	return nil
}
