package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	adapthttp "hbnb/internal/adapter/http"
	"hbnb/internal/adapter/memory"
	"hbnb/internal/app"
	"hbnb/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock repositories (function-fields pattern)
// ---------------------------------------------------------------------------

// mockPlaceRepo delegates to an in-memory store unless a function field
// overrides the call.
type mockPlaceRepo struct {
	domain.PlaceRepository
	listFn func(ctx context.Context) ([]domain.Place, error)
}

func (m *mockPlaceRepo) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return m.PlaceRepository.ListPlaces(ctx)
}

// ---------------------------------------------------------------------------
// Test-server helper
// ---------------------------------------------------------------------------

type testEnv struct {
	srv    *httptest.Server
	facade *app.Facade
	auth   *app.AuthService
}

func newTestEnv(t *testing.T, places *mockPlaceRepo, opts adapthttp.Options) *testEnv {
	t.Helper()

	db := memory.New()
	repos := app.Repositories{Users: db, Places: db, Reviews: db, Amenities: db}
	if places != nil {
		places.PlaceRepository = db
		repos.Places = places
	}
	f := app.NewFacade(repos)
	authSvc := app.NewAuthService(f, []byte("test-secret"), 0)

	srv := httptest.NewServer(adapthttp.New(f, authSvc, opts).Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, facade: f, auth: authSvc}
}

// user creates an account directly through the facade and returns it with a
// valid access token.
func (e *testEnv) user(t *testing.T, email string, admin bool) (*domain.User, string) {
	t.Helper()
	u, err := e.facade.CreateUser(context.Background(), app.UserInput{
		FirstName: "Test", LastName: "User", Email: email, Password: "password", IsAdmin: admin,
	})
	require.NoError(t, err)
	token, err := e.auth.IssueToken(u)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeObject(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), "body: %s", raw)
	return m
}

func decodeList(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var l []map[string]any
	require.NoError(t, json.Unmarshal(raw, &l), "body: %s", raw)
	return l
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})

	resp, raw := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeObject(t, raw)["ok"])
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})

	resp, raw := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "ada@example.com", "password": "secret1", "first_name": "Ada", "last_name": "Lovelace",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	body := decodeObject(t, raw)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, false, body["is_admin"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "password_hash")

	resp, raw = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "ADA@example.com", "password": "secret1", "first_name": "Ada", "last_name": "L",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	token, _ := decodeObject(t, raw)["access_token"].(string)
	require.NotEmpty(t, token)

	claims, err := env.auth.ParseToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, body["id"], claims.UserID)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterWithoutNames(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})

	resp, raw := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "user@test.com", "password": "123456",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	body := decodeObject(t, raw)
	assert.Equal(t, "user", body["first_name"])
	assert.Equal(t, "user", body["last_name"])

	resp, raw = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "user@test.com", "password": "123456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.NotEmpty(t, decodeObject(t, raw)["access_token"])
}

func TestLoginRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})

	resp, raw := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email": "a@b.io", "password": "x", "remember": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeObject(t, raw)["error"], "invalid json")
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{LoginRate: 0.001, LoginBurst: 1})
	env.user(t, "rl@example.com", false)

	creds := map[string]any{"email": "rl@example.com", "password": "password"}
	resp, _ := env.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestAuthConfigAndDisabledSSO(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})

	resp, raw := env.do(t, http.MethodGet, "/api/v1/auth/config", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeObject(t, raw)["sso_enabled"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/auth/sso/login", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/auth/sso/callback?state=x&code=y", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSSOStateCheck(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{OIDC: adapthttp.OIDCConfig{
		Enabled: true,
		OAuth2Config: oauth2.Config{
			ClientID:    "hbnb",
			RedirectURL: "http://localhost/api/v1/auth/sso/callback",
			Endpoint:    oauth2.Endpoint{AuthURL: "https://idp.example.com/auth", TokenURL: "https://idp.example.com/token"},
		},
	}})
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	resp, err := client.Get(env.srv.URL + "/api/v1/auth/sso/login")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "https://idp.example.com/auth?"))
	var state *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "oauth_state" {
			state = c
		}
	}
	require.NotNil(t, state)
	require.NotEmpty(t, state.Value)

	tests := []struct {
		name   string
		cookie string
		query  string
	}{
		{name: "no cookie", cookie: "", query: state.Value},
		{name: "mismatched state", cookie: state.Value, query: "forged"},
		{name: "empty state", cookie: state.Value, query: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/api/v1/auth/sso/callback?code=abc&state="+tc.query, nil)
			require.NoError(t, err)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "oauth_state", Value: tc.cookie})
			}
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	_, userToken := env.user(t, "user@example.com", false)
	_, adminToken := env.user(t, "admin@example.com", true)

	payload := map[string]any{
		"first_name": "New", "last_name": "Person", "email": "new@example.com", "password": "password",
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{name: "anonymous", token: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "regular user", token: userToken, wantStatus: http.StatusForbidden},
		{name: "admin", token: adminToken, wantStatus: http.StatusCreated},
		{name: "admin duplicate", token: adminToken, wantStatus: http.StatusConflict},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodPost, "/api/v1/users/", tc.token, payload)
			assert.Equal(t, tc.wantStatus, resp.StatusCode, string(raw))
		})
	}
}

func TestListAndGetUsers(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	u1, _ := env.user(t, "one@example.com", false)
	env.user(t, "two@example.com", false)

	resp, raw := env.do(t, http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decodeList(t, raw)
	require.Len(t, users, 2)
	assert.Equal(t, "one@example.com", users[0]["email"])
	assert.NotContains(t, users[0], "password")

	resp, raw = env.do(t, http.MethodGet, "/api/v1/users/"+u1.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, u1.ID, decodeObject(t, raw)["id"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/users/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateUserPermissions(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	self, selfToken := env.user(t, "self@example.com", false)
	other, _ := env.user(t, "other@example.com", false)
	_, adminToken := env.user(t, "admin@example.com", true)

	resp, raw := env.do(t, http.MethodPut, "/api/v1/users/"+self.ID, selfToken, map[string]any{"first_name": "Renamed"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "Renamed", decodeObject(t, raw)["first_name"])

	resp, _ = env.do(t, http.MethodPut, "/api/v1/users/"+self.ID, selfToken, map[string]any{"email": "new@example.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/users/"+other.ID, selfToken, map[string]any{"first_name": "Hijack"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/users/"+self.ID, adminToken, map[string]any{"email": "other@example.com"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPut, "/api/v1/users/"+self.ID, adminToken, map[string]any{"email": "moved@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "moved@example.com", decodeObject(t, raw)["email"])

	resp, _ = env.do(t, http.MethodPut, "/api/v1/users/"+self.ID, "", map[string]any{"first_name": "Anon"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPlaceLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	owner, ownerToken := env.user(t, "owner@example.com", false)
	_, strangerToken := env.user(t, "stranger@example.com", false)
	wifi, err := env.facade.CreateAmenity(context.Background(), "WiFi")
	require.NoError(t, err)

	payload := map[string]any{
		"title": "Cozy flat", "description": "Near the park", "price": 75.5,
		"latitude": 48.85, "longitude": 2.35, "amenities": []string{wifi.ID},
	}

	resp, _ := env.do(t, http.MethodPost, "/api/v1/places/", "", payload)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/places/", ownerToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	created := decodeObject(t, raw)
	placeID, _ := created["id"].(string)
	require.NotEmpty(t, placeID)
	assert.Equal(t, owner.ID, created["owner_id"])

	resp, raw = env.do(t, http.MethodGet, "/api/v1/places/"+placeID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	details := decodeObject(t, raw)
	ownerView, _ := details["owner"].(map[string]any)
	assert.Equal(t, "owner@example.com", ownerView["email"])
	amenities, _ := details["amenities"].([]any)
	require.Len(t, amenities, 1)
	assert.Equal(t, "WiFi", amenities[0].(map[string]any)["name"])
	reviews, _ := details["reviews"].([]any)
	assert.Empty(t, reviews)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/places/"+placeID, strangerToken, map[string]any{"price": 10})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/places/"+placeID, ownerToken, map[string]any{"latitude": 91})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPut, "/api/v1/places/"+placeID, ownerToken, map[string]any{"price": 99})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, 99.0, decodeObject(t, raw)["price"])

	resp, raw = env.do(t, http.MethodGet, "/api/v1/places", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeList(t, raw)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "owner")

	resp, raw = env.do(t, http.MethodGet, "/api/v1/users/"+owner.ID+"/places", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeList(t, raw), 1)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/users/missing/places", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePlaceValidation(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	_, token := env.user(t, "owner@example.com", false)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name:       "valid at the origin",
			payload:    map[string]any{"title": "Null Island", "price": 1, "latitude": 0, "longitude": 0},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "zero price",
			payload:    map[string]any{"title": "Free", "price": 0, "latitude": 1, "longitude": 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "longitude out of range",
			payload:    map[string]any{"title": "Far", "price": 10, "latitude": 1, "longitude": 181},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			payload:    map[string]any{"price": 10, "latitude": 1, "longitude": 1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown amenity",
			payload:    map[string]any{"title": "Flat", "price": 10, "latitude": 1, "longitude": 1, "amenities": []string{"nope"}},
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodPost, "/api/v1/places/", token, tc.payload)
			assert.Equal(t, tc.wantStatus, resp.StatusCode, string(raw))
		})
	}
}

func TestAddAmenityToPlace(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	owner, ownerToken := env.user(t, "owner@example.com", false)
	_, strangerToken := env.user(t, "stranger@example.com", false)
	pool, err := env.facade.CreateAmenity(context.Background(), "Pool")
	require.NoError(t, err)
	p, err := env.facade.CreatePlace(context.Background(), app.PlaceInput{
		Title: "Villa", Price: 300, Latitude: 43.7, Longitude: 7.26, OwnerID: owner.ID,
	})
	require.NoError(t, err)

	path := "/api/v1/places/" + p.ID + "/amenities/" + pool.ID
	resp, _ := env.do(t, http.MethodPost, path, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, []any{pool.ID}, decodeObject(t, raw)["amenity_ids"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/places/"+p.ID+"/amenities/missing", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReviewLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	owner, ownerToken := env.user(t, "owner@example.com", false)
	guest, guestToken := env.user(t, "guest@example.com", false)
	_, otherToken := env.user(t, "other@example.com", false)
	_, adminToken := env.user(t, "admin@example.com", true)
	p, err := env.facade.CreatePlace(context.Background(), app.PlaceInput{
		Title: "Cabin", Price: 120, Latitude: 46.2, Longitude: 6.1, OwnerID: owner.ID,
	})
	require.NoError(t, err)

	review := map[string]any{"text": "Lovely stay", "rating": 5, "place_id": p.ID}

	resp, _ := env.do(t, http.MethodPost, "/api/v1/reviews/", ownerToken, review)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "owners cannot review their own place")

	resp, raw := env.do(t, http.MethodPost, "/api/v1/reviews/", guestToken, review)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	created := decodeObject(t, raw)
	reviewID, _ := created["id"].(string)
	assert.Equal(t, guest.ID, created["user_id"])
	assert.Equal(t, p.ID, created["place_id"])

	resp, _ = env.do(t, http.MethodPost, "/api/v1/reviews/", guestToken, review)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "second review of the same place")

	resp, _ = env.do(t, http.MethodPost, "/api/v1/reviews/", otherToken, map[string]any{"text": "Bad", "rating": 6, "place_id": p.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = env.do(t, http.MethodGet, "/api/v1/places/"+p.ID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeList(t, raw), 1)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/places/missing/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/api/v1/reviews/"+reviewID, otherToken, map[string]any{"rating": 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPut, "/api/v1/reviews/"+reviewID, guestToken, map[string]any{"rating": 4})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, 4.0, decodeObject(t, raw)["rating"])

	resp, _ = env.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = env.do(t, http.MethodDelete, "/api/v1/reviews/"+reviewID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeObject(t, raw))

	resp, _ = env.do(t, http.MethodGet, "/api/v1/reviews/"+reviewID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAmenityEndpoints(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	_, userToken := env.user(t, "user@example.com", false)
	_, adminToken := env.user(t, "admin@example.com", true)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/amenities/", userToken, map[string]any{"name": "WiFi"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := env.do(t, http.MethodPost, "/api/v1/amenities/", adminToken, map[string]any{"name": "WiFi"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	id, _ := decodeObject(t, raw)["id"].(string)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/amenities/", adminToken, map[string]any{"name": "wifi"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/v1/amenities/", adminToken, map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = env.do(t, http.MethodPut, "/api/v1/amenities/"+id, adminToken, map[string]any{"name": "Fast WiFi"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "Fast WiFi", decodeObject(t, raw)["name"])

	resp, raw = env.do(t, http.MethodGet, "/api/v1/amenities/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeList(t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, "Fast WiFi", list[0]["name"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/amenities/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRepositoryFailureIsHidden(t *testing.T) {
	env := newTestEnv(t, &mockPlaceRepo{
		listFn: func(context.Context) ([]domain.Place, error) {
			return nil, errors.New("connection reset by peer")
		},
	}, adapthttp.Options{})

	resp, raw := env.do(t, http.MethodGet, "/api/v1/places/", "", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", decodeObject(t, raw)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.Options{})
	env.do(t, http.MethodGet, "/api/v1/amenities/", "", nil)

	resp, raw := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(raw)
	assert.True(t, strings.Contains(text, "hbnb_http_requests_total"), "missing request counter")
	assert.Contains(t, text, `route="/api/v1/amenities`)
}
