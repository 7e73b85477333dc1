package handlers

import (
	"net/http"

	"go.uber.org/zap"

	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

type AdminHandler struct {
	review   *reviewsvc.Service
	renderer *views.Renderer
	logger   *zap.Logger
}

func NewAdminHandler(review *reviewsvc.Service, renderer *views.Renderer, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{review: review, renderer: renderer, logger: logger}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
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

	progress, err := h.review.Completion(r.Context())
	if err != nil {
		h.logger.Error("failed to load member progress", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	rows := make([]views.AdminRow, 0, len(progress))
	for _, p := range progress {
		rows = append(rows, views.NewAdminRow(p))
	}

	data := views.AdminData{
		Page:           views.Page{Title: "Admin", Nav: views.NewNav(user, "admin")},
		WrappedVisible: visible,
		Rows:           rows,
	}
	renderPage(w, h.renderer, "admin.tmpl", data, h.logger)
}

// ToggleWrapped flips the reveal flag and returns to the admin panel.
func (h *AdminHandler) ToggleWrapped(w http.ResponseWriter, r *http.Request) {
	visible, err := h.review.ToggleReveal(r.Context())
	if err != nil {
		h.logger.Error("failed to toggle reveal", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("wrapped visibility toggled", zap.Bool("visible", visible))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
