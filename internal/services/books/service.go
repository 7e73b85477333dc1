package books

import (
	"context"
	"errors"
	"fmt"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	"github.com/lazyvar/cliffhanger-club/internal/pkg/validate"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrMemberNotFound = errors.New("member not found")
)

type BookStore interface {
	ListAll(ctx context.Context) ([]model.BookWithPicker, error)
	FindByID(ctx context.Context, id int64) (model.BookWithPicker, error)
	ListByUsername(ctx context.Context, username string) ([]model.Book, error)
}

type MemberStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ListMembers(ctx context.Context) ([]model.User, error)
}

// Profile is a member plus the books they picked.
type Profile struct {
	Member model.User
	Picks  []model.Book
}

type Service struct {
	books   BookStore
	members MemberStore
}

func NewService(books BookStore, members MemberStore) *Service {
	return &Service{books: books, members: members}
}

func (s *Service) List(ctx context.Context) ([]model.BookWithPicker, error) {
	books, err := s.books.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *Service) Get(ctx context.Context, id int64) (model.BookWithPicker, error) {
	if id <= 0 {
		return model.BookWithPicker{}, ErrBookNotFound
	}

	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return model.BookWithPicker{}, ErrBookNotFound
		}
		return model.BookWithPicker{}, fmt.Errorf("get book: %w", err)
	}

	return book, nil
}

func (s *Service) Members(ctx context.Context) ([]model.User, error) {
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ProfileOf resolves a member profile by username, case-folded.
func (s *Service) ProfileOf(ctx context.Context, username string) (Profile, error) {
	username = validate.Username(username)
	if username == "" {
		return Profile{}, ErrMemberNotFound
	}

	member, err := s.members.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return Profile{}, ErrMemberNotFound
		}
		return Profile{}, fmt.Errorf("find member: %w", err)
	}

	picks, err := s.books.ListByUsername(ctx, username)
	if err != nil {
		return Profile{}, fmt.Errorf("list member picks: %w", err)
	}

	return Profile{Member: member, Picks: picks}, nil
}
