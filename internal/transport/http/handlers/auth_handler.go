package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

type AuthHandler struct {
	auth     *authsvc.Service
	books    *bookssvc.Service
	cookies  authsvc.Cookies
	renderer *views.Renderer
	logger   *zap.Logger
}

func NewAuthHandler(auth *authsvc.Service, books *bookssvc.Service, cookies authsvc.Cookies, renderer *views.Renderer, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, books: books, cookies: cookies, renderer: renderer, logger: logger}
}

// ShowLogin renders the member picker, with the password modal open when
// a member is selected via the user query parameter.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	members, err := h.books.Members(r.Context())
	if err != nil {
		h.logger.Error("failed to list members for login page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := views.LoginData{
		Page:    views.Page{Title: "Login"},
		Members: members,
		Error:   r.URL.Query().Get("error"),
	}
	if selected := r.URL.Query().Get("user"); selected != "" {
		for i := range members {
			if members[i].Username == selected {
				data.Selected = &members[i]
				break
			}
		}
	}

	renderPage(w, h.renderer, "login.tmpl", data, h.logger)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, loginRedirectURL("", "Please enter your password"), http.StatusSeeOther)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, token, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrMissingCredentials):
			http.Redirect(w, r, loginRedirectURL(username, "Please enter your password"), http.StatusSeeOther)
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			http.Redirect(w, r, loginRedirectURL(username, "Incorrect password"), http.StatusSeeOther)
		default:
			h.logger.Error("login failed", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	h.cookies.Set(w, token)
	h.logger.Info("member logged in", zap.String("username", user.Username))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout revokes the session if one exists and always clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := h.cookies.Read(r); ok {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.logger.Warn("failed to revoke session on logout", zap.Error(err))
		}
	}
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func identityOrRedirect(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
	}
	return user, ok
}
