package auth

import (
	"net/http"
	"time"
)

const CookieName = "session"

// Cookies writes and reads the session cookie. TTL must come from the same
// config value the session store uses, so the cookie can never outlive the row.
type Cookies struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func NewCookies(ttl time.Duration, secure bool) Cookies {
	return Cookies{
		Name:   CookieName,
		TTL:    ttl,
		Secure: secure,
	}
}

func (c Cookies) Read(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
