package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/images"
	"storefront/pkg/kit"
)

const (
	// RecentLimit is how many products the recent listing returns.
	RecentLimit = 8
	// CategoryLimit is how many products a category listing returns.
	CategoryLimit = 4
)

type Server struct {
	Store  Store
	Images *images.Store
	Log    *zap.Logger
}

func (s *Server) CreateHandler() http.HandlerFunc     { return s.create }
func (s *Server) ListHandler() http.HandlerFunc       { return s.list }
func (s *Server) RecentHandler() http.HandlerFunc     { return s.recent }
func (s *Server) ByCategoryHandler() http.HandlerFunc { return s.byCategory }
func (s *Server) DeleteHandler() http.HandlerFunc     { return s.delete }

// create inserts a product from a multipart form: the image under the
// `product` field plus name/category/price fields.
func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	url, err := s.Images.SaveFromRequest(r)
	if err != nil {
		switch {
		case errors.Is(err, images.ErrNoFile):
			kit.WriteError(w, r, http.StatusBadRequest, "image file required", map[string]any{"field": images.FieldName})
		case errors.Is(err, images.ErrBadType):
			kit.WriteError(w, r, http.StatusBadRequest, "unsupported image type", nil)
		default:
			s.Log.Error("store image", zap.Error(err))
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		}
		return
	}

	p, err := productFromForm(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	p.Image = url

	created, err := s.Store.Insert(r.Context(), p)
	if err != nil {
		s.Log.Error("insert product", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteData(w, http.StatusCreated, created)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.ListAll(r.Context())
	if err != nil {
		s.Log.Error("list products", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteData(w, http.StatusOK, products)
}

func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.ListRecent(r.Context(), RecentLimit)
	if err != nil {
		s.Log.Error("recent products", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteData(w, http.StatusOK, products)
}

func (s *Server) byCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(chi.URLParam(r, "name"))
	if category == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "category required", nil)
		return
	}

	products, err := s.Store.ListByCategory(r.Context(), category, CategoryLimit)
	if err != nil {
		s.Log.Error("category products", zap.Error(err), zap.String("category", category))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteData(w, http.StatusOK, products)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	if err := s.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "product not found", map[string]any{"id": id})
			return
		}
		s.Log.Error("delete product", zap.Error(err), zap.Int64("id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteData(w, http.StatusOK, map[string]any{"deleted": id})
}

func productFromForm(r *http.Request) (Product, error) {
	name := strings.TrimSpace(r.FormValue("name"))
	category := strings.TrimSpace(r.FormValue("category"))

	if name == "" {
		return Product{}, errors.New("name required")
	}
	if category == "" {
		return Product{}, errors.New("category required")
	}

	price, err := strconv.ParseInt(r.FormValue("price_cents"), 10, 64)
	if err != nil || price < 0 {
		return Product{}, errors.New("price_cents must be a non-negative integer")
	}

	offer := price
	if v := r.FormValue("offer_price_cents"); v != "" {
		offer, err = strconv.ParseInt(v, 10, 64)
		if err != nil || offer < 0 {
			return Product{}, errors.New("offer_price_cents must be a non-negative integer")
		}
	}

	available := true
	if v := r.FormValue("available"); v != "" {
		available = v == "true"
	}

	return Product{
		Name:            name,
		Category:        category,
		PriceCents:      price,
		OfferPriceCents: offer,
		Available:       available,
	}, nil
}
