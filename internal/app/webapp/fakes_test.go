package webapp

import (
	"context"
	"time"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
)

// fakeAuthStores backs the auth service with maps so middleware tests
// run without postgres.
type fakeAuthStores struct {
	usersByDigest map[string]model.User
	sessions      map[string]session
}

type session struct {
	userID    int64
	expiresAt time.Time
}

func newFakeAuthStores() *fakeAuthStores {
	return &fakeAuthStores{
		usersByDigest: make(map[string]model.User),
		sessions:      make(map[string]session),
	}
}

func (f *fakeAuthStores) addUser(user model.User, password string) {
	f.usersByDigest[user.Username+"\x00"+authsvc.HashPassword(user.Username, password)] = user
}

func (f *fakeAuthStores) FindByCredentials(_ context.Context, username, digest string) (model.User, error) {
	user, ok := f.usersByDigest[username+"\x00"+digest]
	if !ok {
		return model.User{}, authsvc.ErrInvalidCredentials
	}
	return user, nil
}

func (f *fakeAuthStores) Create(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	f.sessions[token] = session{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeAuthStores) FindUser(_ context.Context, token string) (model.User, error) {
	s, ok := f.sessions[token]
	if !ok || !s.expiresAt.After(time.Now()) {
		return model.User{}, authsvc.ErrSessionNotFound
	}
	for _, user := range f.usersByDigest {
		if user.ID == s.userID {
			return user, nil
		}
	}
	return model.User{}, authsvc.ErrSessionNotFound
}

func (f *fakeAuthStores) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeAuthStores) DeleteExpired(_ context.Context) (int64, error) {
	var deleted int64
	for token, s := range f.sessions {
		if !s.expiresAt.After(time.Now()) {
			delete(f.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}
