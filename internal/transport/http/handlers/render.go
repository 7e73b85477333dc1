package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

func renderPage(w http.ResponseWriter, renderer *views.Renderer, page string, data any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, page, data); err != nil {
		if logger != nil {
			logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// loginRedirectURL keeps the selected member and shows a message on the
// login page. Spaces are escaped as %20 so the message reads cleanly
// when echoed back.
func loginRedirectURL(username, message string) string {
	escape := func(s string) string {
		return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	}
	return "/login?user=" + escape(username) + "&error=" + escape(message)
}
