package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/pkg/kit"
)

const (
	maxBodyBytes   = 1 << 20
	minPasswordLen = 8
)

type Server struct {
	Log    *zap.Logger
	Store  account.Store
	Tokens *TokenMaker
}

func (s *Server) SignupHandler() http.HandlerFunc { return s.handleSignup }
func (s *Server) LoginHandler() http.HandlerFunc  { return s.handleLogin }

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResp struct {
	Token string       `json:"token"`
	Cart  account.Cart `json:"cart"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Password = strings.TrimSpace(req.Password)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name/email/password required", nil)
		return
	}
	if len(req.Password) < minPasswordLen {
		kit.WriteError(w, r, http.StatusBadRequest, "password too short", map[string]any{"min_len": minPasswordLen})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.Log.Error("hash password", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	a := account.Account{
		ID:           "u_" + uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Cart:         account.NewSeededCart(),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Create(r.Context(), a); err != nil {
		if errors.Is(err, account.ErrEmailExists) {
			kit.WriteError(w, r, http.StatusConflict, "email already registered", nil)
			return
		}
		s.Log.Error("create account", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	tok, err := s.Tokens.Issue(a.ID)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteData(w, http.StatusCreated, sessionResp{Token: tok, Cart: a.Cart})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Email = normalizeEmail(req.Email)
	req.Password = strings.TrimSpace(req.Password)

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email/password required", nil)
		return
	}

	a, err := s.Store.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "account not found", nil)
			return
		}
		s.Log.Error("find account", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	if err := CheckPassword(a.PasswordHash, req.Password); err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	tok, err := s.Tokens.Issue(a.ID)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteData(w, http.StatusOK, sessionResp{Token: tok, Cart: a.Cart})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
