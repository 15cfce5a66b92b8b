package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &auth.Server{
		Log:    zap.NewNop(),
		Store:  account.NewMemStore(),
		Tokens: auth.NewTokenMaker(testSecret),
	}

	r := chi.NewRouter()
	r.Post("/auth/signup", s.SignupHandler())
	r.Post("/auth/login", s.LoginHandler())

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type session struct {
	Token string         `json:"token"`
	Cart  map[string]int `json:"cart"`
}

func postJSON(t *testing.T, url string, body any) (*http.Response, envelope) {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func TestSignupReturnsTokenAndSeededCart(t *testing.T) {
	ts := newAuthTS(t)

	resp, env := postJSON(t, ts.URL+"/auth/signup", map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password123",
	})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if !env.Success {
		t.Fatalf("success=false error=%q", env.Error)
	}

	var sess session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("empty token")
	}
	if len(sess.Cart) != account.SeededSlots {
		t.Fatalf("cart slots=%d want=%d", len(sess.Cart), account.SeededSlots)
	}
	for k, v := range sess.Cart {
		if v != 0 {
			t.Fatalf("cart[%s]=%d, want 0", k, v)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ts := newAuthTS(t)

	body := map[string]any{"name": "Ada", "email": "ada@example.com", "password": "password123"}

	if resp, _ := postJSON(t, ts.URL+"/auth/signup", body); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup status=%d", resp.StatusCode)
	}

	resp, env := postJSON(t, ts.URL+"/auth/signup", body)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestSignupValidation(t *testing.T) {
	ts := newAuthTS(t)

	cases := []map[string]any{
		{"email": "x@example.com", "password": "password123"},
		{"name": "Ada", "password": "password123"},
		{"name": "Ada", "email": "x@example.com"},
		{"name": "Ada", "email": "x@example.com", "password": "short"},
	}

	for i, body := range cases {
		resp, _ := postJSON(t, ts.URL+"/auth/signup", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("case %d: status=%d", i, resp.StatusCode)
		}
	}
}

func TestLoginAfterSignup(t *testing.T) {
	ts := newAuthTS(t)

	_, signupEnv := postJSON(t, ts.URL+"/auth/signup", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})

	var signedUp session
	if err := json.Unmarshal(signupEnv.Data, &signedUp); err != nil {
		t.Fatalf("decode signup session: %v", err)
	}

	resp, env := postJSON(t, ts.URL+"/auth/login", map[string]any{
		"email": "ada@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status=%d", resp.StatusCode)
	}

	var sess session
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode login session: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("empty token")
	}
	if len(sess.Cart) != len(signedUp.Cart) {
		t.Fatalf("login cart differs from freshly seeded cart: %d vs %d", len(sess.Cart), len(signedUp.Cart))
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	ts := newAuthTS(t)

	resp, _ := postJSON(t, ts.URL+"/auth/login", map[string]any{
		"email": "nobody@example.com", "password": "password123",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestLoginBadPassword(t *testing.T) {
	ts := newAuthTS(t)

	postJSON(t, ts.URL+"/auth/signup", map[string]any{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})

	resp, _ := postJSON(t, ts.URL+"/auth/login", map[string]any{
		"email": "ada@example.com", "password": "not-the-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
