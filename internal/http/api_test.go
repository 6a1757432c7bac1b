package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/openvenue/eventd/internal/http"
	"github.com/openvenue/eventd/internal/service"
	"github.com/openvenue/eventd/internal/store/drivers/sqlite"
	"github.com/openvenue/eventd/pkg/jwtx"
	"github.com/openvenue/eventd/pkg/slogx"
)

const adminPassword = "admin-secret"

// newTestServer wires the full HTTP stack over a throwaway database, the
// same way the application boots it.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "api.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := jwtx.NewCodec(
		[]byte("0123456789abcdef0123456789abcdef"),
		"eventd-test", "eventd-test",
		time.Minute,
	)
	require.NoError(t, err)

	directory := &service.DirectoryService{Store: st}
	seeder := &service.SeederService{Store: st, Directory: directory, AdminPassword: adminPassword}
	require.NoError(t, seeder.Seed(t.Context()))

	router := httpapi.NewRouter(codec, st, slogx.New(slogx.Config{
		Service: "eventd-test",
		Level:   "error",
		Format:  "text",
	}))
	router.AuthService = &service.AuthService{
		Codec:     codec,
		Sessions:  &service.SessionService{Store: st},
		Directory: directory,
		Store:     st,
	}
	router.CategoryService = &service.CategoryService{Store: st}
	router.EventService = &service.EventService{Store: st}
	router.RatingService = &service.RatingService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, opts ...func(*http.Request)) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(c)
	}
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == httpapi.RefreshCookieName {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

type tokenPairBody struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func registerUser(t *testing.T, baseURL, username string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/accounts", map[string]string{
		"userName": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, baseURL, username, password string) (tokenPairBody, *http.Cookie) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, baseURL+"/api/login", map[string]string{
		"userName": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair tokenPairBody
	decodeBody(t, resp, &pair)
	return pair, refreshCookie(t, resp)
}

func TestRegister(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/accounts", map[string]string{
		"userName": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.UserID)
	assert.Equal(t, "alice", body.Username)

	// Same username again is rejected.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/accounts", map[string]string{
		"userName": "alice",
		"email":    "other@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	for name, body := range map[string]map[string]string{
		"missing username": {"email": "a@example.com", "password": "hunter22"},
		"bad email":        {"userName": "a", "email": "nope", "password": "hunter22"},
		"short password":   {"userName": "a", "email": "a@example.com", "password": "abc"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/accounts", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, name)
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv.URL, "alice")

	pair, cookie := login(t, srv.URL, "alice", "hunter22")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, pair.RefreshToken, cookie.Value, "cookie and body must carry the same token")
	assert.True(t, cookie.HttpOnly)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"userName": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown accounts get the identical response.
	resp2 := doJSON(t, http.MethodPost, srv.URL+"/api/login", map[string]string{
		"userName": "nobody",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp2.StatusCode)
}

func TestRefreshRotation(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv.URL, "alice")
	_, oldCookie := login(t, srv.URL, "alice", "hunter22")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/accessToken", nil, withCookie(oldCookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair tokenPairBody
	decodeBody(t, resp, &pair)
	newCookie := refreshCookie(t, resp)

	assert.NotEqual(t, oldCookie.Value, newCookie.Value, "refresh must rotate the token")
	assert.Equal(t, pair.RefreshToken, newCookie.Value, "body must carry the rotated token")

	// The pre-rotation token is permanently dead.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/accessToken", nil, withCookie(oldCookie))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// The rotated one keeps working.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/accessToken", nil, withCookie(newCookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshWithoutCookie(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/accessToken", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv.URL, "alice")
	_, cookie := login(t, srv.URL, "alice", "hunter22")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/logout", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cleared := refreshCookie(t, resp)
	assert.Less(t, cleared.MaxAge, 0, "logout must clear the cookie")

	// The session is gone; the old token no longer refreshes.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/accessToken", nil, withCookie(cookie))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Logout without a cookie has nothing to invalidate.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/logout", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCatalogRequiresAuthForWrites(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", map[string]string{"name": "Music"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Reads stay public.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCatalogCRUD(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv.URL, "alice")
	pair, _ := login(t, srv.URL, "alice", "hunter22")
	auth := withBearer(pair.AccessToken)

	// Category
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", map[string]string{
		"name":        "Music",
		"description": "Concerts and festivals",
	}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	decodeBody(t, resp, &category)
	require.NotEmpty(t, category.ID)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/categories/"+category.ID, map[string]string{
		"description": "Live music",
	}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &category)
	assert.Equal(t, "Live music", category.Description)
	assert.Equal(t, "Music", category.Name, "updates only touch the description")

	// Event under the category
	start := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories/"+category.ID+"/events", map[string]any{
		"title":       "Warehouse Gig",
		"description": "Doors at seven",
		"startDate":   start,
		"endDate":     start.Add(4 * time.Hour),
		"price":       25,
	}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var event struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Price int    `json:"price"`
	}
	decodeBody(t, resp, &event)
	assert.Equal(t, 25, event.Price)

	// Rating under the event
	resp = doJSON(t, http.MethodPost,
		srv.URL+"/api/categories/"+category.ID+"/events/"+event.ID+"/ratings",
		map[string]int{"stars": 4}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var rating struct {
		ID    string `json:"id"`
		Stars int    `json:"stars"`
	}
	decodeBody(t, resp, &rating)
	assert.Equal(t, 4, rating.Stars)

	resp = doJSON(t, http.MethodPut,
		srv.URL+"/api/categories/"+category.ID+"/events/"+event.ID+"/ratings/"+rating.ID,
		map[string]int{"stars": 5}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &rating)
	assert.Equal(t, 5, rating.Stars)
}

func TestCatalogParentChain(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv.URL, "alice")
	pair, _ := login(t, srv.URL, "alice", "hunter22")
	auth := withBearer(pair.AccessToken)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", map[string]string{"name": "Music"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var music struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &music)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories", map[string]string{"name": "Sport"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sport struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &sport)

	start := time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories/"+music.ID+"/events", map[string]any{
		"title":     "Gig",
		"startDate": start,
		"endDate":   start.Add(time.Hour),
	}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var event struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &event)

	// The event exists, but not under this category.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/"+sport.ID+"/events/"+event.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown parents 404 before any child logic runs.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/no-such-id/events", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet,
		srv.URL+"/api/categories/"+sport.ID+"/events/"+event.ID+"/ratings", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMalformedIDsReadAsAbsent(t *testing.T) {
	srv := newTestServer(t)

	// Ids that are not even ULIDs cannot name a row; they 404 like any
	// other miss instead of leaking a different failure mode.
	for _, url := range []string{
		"/api/categories/not-a-ulid",
		"/api/categories/not-a-ulid/events",
		"/api/categories/not-a-ulid/events/also-bad",
		"/api/categories/not-a-ulid/events/also-bad/ratings",
		"/api/categories/not-a-ulid/events/also-bad/ratings/worse",
	} {
		resp := doJSON(t, http.MethodGet, srv.URL+url, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, url)
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv.URL, "alice")
	userPair, _ := login(t, srv.URL, "alice", "hunter22")

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories",
		map[string]string{"name": "Music"}, withBearer(userPair.AccessToken))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category struct {
		ID string `json:"id"`
	}
	decodeBody(t, resp, &category)

	// A regular user cannot delete.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/categories/"+category.ID, nil,
		withBearer(userPair.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The seeded administrator can.
	adminPair, _ := login(t, srv.URL, "admin", adminPassword)
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/categories/"+category.ID, nil,
		withBearer(adminPair.AccessToken))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/"+category.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/livez", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/readyz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
