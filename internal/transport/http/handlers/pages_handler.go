package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

type PagesHandler struct {
	books    *bookssvc.Service
	review   *reviewsvc.Service
	renderer *views.Renderer
	logger   *zap.Logger
}

func NewPagesHandler(books *bookssvc.Service, review *reviewsvc.Service, renderer *views.Renderer, logger *zap.Logger) *PagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PagesHandler{books: books, review: review, renderer: renderer, logger: logger}
}

// Home shows the dashboard for signed-in members and sends everyone
// else to the login page.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	user, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	visible, err := h.review.RevealVisible(r.Context())
	if err != nil {
		h.logger.Error("failed to load reveal state", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := views.DashboardData{
		Page:           views.Page{Title: "Dashboard", Nav: views.NewNav(user, "home")},
		WrappedVisible: visible,
	}
	renderPage(w, h.renderer, "dashboard.tmpl", data, h.logger)
}

func (h *PagesHandler) Books(w http.ResponseWriter, r *http.Request) {
	user, ok := identityOrRedirect(w, r)
	if !ok {
		return
	}

	books, err := h.books.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list books", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := views.BooksData{
		Page:  views.Page{Title: "Books", Nav: views.NewNav(user, "books")},
		Books: books,
	}
	renderPage(w, h.renderer, "books.tmpl", data, h.logger)
}

func (h *PagesHandler) BookDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := identityOrRedirect(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/books", http.StatusFound)
		return
	}

	book, err := h.books.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, bookssvc.ErrBookNotFound) {
			http.Redirect(w, r, "/books", http.StatusFound)
			return
		}
		h.logger.Error("failed to load book", zap.Int64("book_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := views.BookDetailData{
		Page: views.Page{Title: book.Title, Nav: views.NewNav(user, "books")},
		Book: book,
	}
	renderPage(w, h.renderer, "book_detail.tmpl", data, h.logger)
}

func (h *PagesHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := identityOrRedirect(w, r)
	if !ok {
		return
	}

	profile, err := h.books.ProfileOf(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, bookssvc.ErrMemberNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		h.logger.Error("failed to load profile", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := views.NewProfileData(views.NewNav(user, ""), profile.Member, profile.Picks)
	renderPage(w, h.renderer, "profile.tmpl", data, h.logger)
}

func (h *PagesHandler) Questions(w http.ResponseWriter, r *http.Request) {
	user, ok := identityOrRedirect(w, r)
	if !ok {
		return
	}
	h.renderQuestions(w, r, user, false)
}

// SaveAnswers stores the submitted answers and re-renders the form with
// a confirmation banner.
func (h *PagesHandler) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	user, ok := identityOrRedirect(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	submitted := make(map[int64]string)
	for field, values := range r.PostForm {
		if !strings.HasPrefix(field, "q_") || len(values) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(field, "q_"), 10, 64)
		if err != nil {
			continue
		}
		submitted[id] = values[0]
	}

	if err := h.review.SaveAnswers(r.Context(), user.ID, submitted); err != nil {
		h.logger.Error("failed to save answers", zap.Int64("user_id", user.ID), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.renderQuestions(w, r, user, true)
}

func (h *PagesHandler) renderQuestions(w http.ResponseWriter, r *http.Request, user model.User, saved bool) {
	questions, err := h.review.Questions(r.Context())
	if err != nil {
		h.logger.Error("failed to list questions", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	answers, err := h.review.AnswersFor(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to load answers", zap.Int64("user_id", user.ID), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	byQuestion := make(map[int64]string, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.Answer
	}

	forms := make([]views.QuestionForm, 0, len(questions))
	for _, q := range questions {
		forms = append(forms, views.NewQuestionForm(q, byQuestion[q.ID]))
	}

	data := views.QuestionsData{
		Page:      views.Page{Title: "Year in Review", Nav: views.NewNav(user, "wrapped")},
		Questions: forms,
		Saved:     saved,
	}
	renderPage(w, h.renderer, "questions.tmpl", data, h.logger)
}

// Wrapped shows everyone's answers once the admin has revealed them,
// and a locked placeholder before that.
func (h *PagesHandler) Wrapped(w http.ResponseWriter, r *http.Request) {
	user, ok := identityOrRedirect(w, r)
	if !ok {
		return
	}

	visible, err := h.review.RevealVisible(r.Context())
	if err != nil {
		h.logger.Error("failed to load reveal state", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	nav := views.NewNav(user, "wrapped")
	if !visible {
		data := views.WrappedData{Page: views.Page{Title: "Wrapped", Nav: nav}}
		renderPage(w, h.renderer, "wrapped_locked.tmpl", data, h.logger)
		return
	}

	grouped, err := h.review.AllAnswers(r.Context())
	if err != nil {
		h.logger.Error("failed to load wrapped answers", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	cards := make([]views.WrappedCard, 0, len(grouped))
	for _, qa := range grouped {
		cards = append(cards, views.NewWrappedCard(qa.Question, qa.Answers))
	}

	data := views.WrappedData{Page: views.Page{Title: "2024 Wrapped", Nav: nav}, Cards: cards}
	renderPage(w, h.renderer, "wrapped.tmpl", data, h.logger)
}

// Styles serves the embedded stylesheet.
func (h *PagesHandler) Styles(w http.ResponseWriter, _ *http.Request) {
	css, err := views.Stylesheet()
	if err != nil {
		h.logger.Error("failed to read stylesheet", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(css)
}
