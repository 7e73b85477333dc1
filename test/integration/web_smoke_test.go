package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lazyvar/cliffhanger-club/internal/app/webapp"
	"github.com/lazyvar/cliffhanger-club/internal/config"
	"github.com/lazyvar/cliffhanger-club/internal/domain/model"
	authsvc "github.com/lazyvar/cliffhanger-club/internal/services/auth"
	bookssvc "github.com/lazyvar/cliffhanger-club/internal/services/books"
	reviewsvc "github.com/lazyvar/cliffhanger-club/internal/services/review"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/metrics"
	"github.com/lazyvar/cliffhanger-club/internal/transport/http/views"
)

func TestHealthz(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Addr = ":0"

	app, err := webapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("create web app: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", resp.StatusCode, http.StatusOK)
	}

	var payload struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.OK {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func newTestRouter(t *testing.T, store *memoryStore) http.Handler {
	t.Helper()

	authService := authsvc.NewService(store, store, 7*24*time.Hour)
	booksService := bookssvc.NewService(store, store)
	reviewService := reviewsvc.NewService(questionStore{m: store}, store, store, nil, nil)

	renderer, err := views.NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	r := chi.NewRouter()
	webapp.ApplyMiddlewares(r, zap.NewNop())
	webapp.RegisterRoutes(r, webapp.Dependencies{
		AuthService:   authService,
		BooksService:  booksService,
		ReviewService: reviewService,
		Cookies:       authsvc.NewCookies(authService.SessionTTL(), false),
		Renderer:      renderer,
		Metrics:       metrics.New(),
		Logger:        zap.NewNop(),
	})
	return r
}

func seededStore() *memoryStore {
	store := newMemoryStore()
	store.addUser(model.User{ID: 1, Username: "alice", DisplayName: "Alice", Role: model.RoleMember}, "correct")
	store.addUser(model.User{ID: 2, Username: "mack", DisplayName: "Mack", Role: model.RoleAdmin}, "admin-pass")
	store.books = []model.BookWithPicker{
		{Book: model.Book{ID: 1, Title: "Piranesi", Author: "Susanna Clarke", AddedBy: 1}, PickerName: "Alice"},
	}
	store.questions = []model.Question{
		{ID: 1, QuestionText: "Favorite book this year?", QuestionType: "text"},
	}
	return store
}

func loginForm(username, password string) *strings.Reader {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return strings.NewReader(form.Encode())
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == authsvc.CookieName {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestLoginLogoutFlow(t *testing.T) {
	router := newTestRouter(t, seededStore())

	req := httptest.NewRequest(http.MethodPost, "/login", loginForm("alice", "correct"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("unexpected redirect target %q", loc)
	}

	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Fatalf("session cookie should be http-only")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "Welcome back, Alice!") {
		t.Fatalf("expected dashboard greeting, got:\n%s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusFound)
	}
	cleared := sessionCookie(t, rec)
	if cleared.MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie, got MaxAge=%d", cleared.MaxAge)
	}

	req = httptest.NewRequest(http.MethodGet, "/books", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("revoked session should redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoginWrongPasswordRedirectsWithMessage(t *testing.T) {
	router := newTestRouter(t, seededStore())

	req := httptest.NewRequest(http.MethodPost, "/login", loginForm("alice", "wrong"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?user=alice&error=Incorrect%20password" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == authsvc.CookieName {
			t.Fatalf("failed login should not set a session cookie")
		}
	}
}

func TestLoginMissingPasswordRedirectsWithMessage(t *testing.T) {
	router := newTestRouter(t, seededStore())

	req := httptest.NewRequest(http.MethodPost, "/login", loginForm("alice", ""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login?user=alice&error=Please%20enter%20your%20password" {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(t, seededStore())

	login := func(username, password string) *http.Cookie {
		req := httptest.NewRequest(http.MethodPost, "/login", loginForm(username, password))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("login failed for %s: %d", username, rec.Code)
		}
		return sessionCookie(t, rec)
	}

	memberCookie := login("alice", "correct")
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(memberCookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member should get 403 on admin page, got %d", rec.Code)
	}

	adminCookie := login("mack", "admin-pass")
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(adminCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin should see admin page, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous admin request should redirect to login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestWrappedRevealFlow(t *testing.T) {
	store := seededStore()
	router := newTestRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/login", loginForm("mack", "admin-pass"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	adminCookie := sessionCookie(t, rec)

	req = httptest.NewRequest(http.MethodGet, "/wrapped", nil)
	req.AddCookie(adminCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Coming Soon") {
		t.Fatalf("wrapped should be locked before reveal, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/toggle-wrapped", nil)
	req.AddCookie(adminCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Fatalf("toggle should redirect to admin, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	form := url.Values{}
	form.Set("q_1", "Piranesi, easily")
	req = httptest.NewRequest(http.MethodPost, "/wrapped/questions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(adminCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Your answers have been saved!") {
		t.Fatalf("saving answers should confirm, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/wrapped", nil)
	req.AddCookie(adminCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Piranesi, easily") {
		t.Fatalf("revealed wrapped should show answers, got %d:\n%s", rec.Code, rec.Body.String())
	}
}
