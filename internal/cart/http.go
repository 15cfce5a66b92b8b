package cart

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/auth"
	"storefront/pkg/kit"
)

const maxItemIDLen = 64

// Server mutates and reads the cart embedded in the caller's account.
// Every handler assumes auth.RequireAccount ran first.
type Server struct {
	Log   *zap.Logger
	Store account.Store
}

func (s *Server) AddHandler() http.HandlerFunc    { return s.add }
func (s *Server) RemoveHandler() http.HandlerFunc { return s.remove }
func (s *Server) GetHandler() http.HandlerFunc    { return s.get }

type itemResp struct {
	ItemID string `json:"item_id"`
	Count  int    `json:"count"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no account", nil)
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	count, err := s.Store.IncrementItem(r.Context(), accountID, itemID)
	if err != nil {
		s.writeStoreError(w, r, err, itemID)
		return
	}

	kit.WriteData(w, http.StatusOK, itemResp{ItemID: itemID, Count: count})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no account", nil)
		return
	}

	itemID, err := itemIDParam(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	count, err := s.Store.DecrementItem(r.Context(), accountID, itemID)
	if err != nil {
		s.writeStoreError(w, r, err, itemID)
		return
	}

	kit.WriteData(w, http.StatusOK, itemResp{ItemID: itemID, Count: count})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.AccountIDFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no account", nil)
		return
	}

	c, err := s.Store.Cart(r.Context(), accountID)
	if err != nil {
		s.writeStoreError(w, r, err, "")
		return
	}

	kit.WriteData(w, http.StatusOK, map[string]any{"cart": c})
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error, itemID string) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "account not found", nil)
	case errors.Is(err, account.ErrItemNotInCart):
		kit.WriteError(w, r, http.StatusConflict, "item not in cart", map[string]any{"item_id": itemID})
	default:
		if s.Log != nil {
			s.Log.Error("cart store", zap.Error(err), zap.String("item_id", itemID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

var errBadItemID = errors.New("invalid item id")

// itemIDParam validates the opaque item key. Dots and dollars are rejected
// because the id becomes a document field path in the store.
func itemIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxItemIDLen {
		return "", errBadItemID
	}
	if strings.ContainsAny(id, ".$") {
		return "", errBadItemID
	}
	return id, nil
}
