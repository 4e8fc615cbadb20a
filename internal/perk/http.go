package perk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"PerksAPI/pkg/kit"
)

const (
	maxBody      = 1 << 20
	readyTimeout = 1 * time.Second
)

type Server struct {
	Perks *Service
	Log   *zap.Logger

	// WriteLimiter throttles mutating routes per client IP when set.
	WriteLimiter *kit.IPRateLimiter
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Route("/api/perks", func(pr chi.Router) {
		pr.Get("/", s.list)
		pr.Get("/{id}", s.get)
		pr.Head("/{id}", s.head)
		pr.Post("/savings", s.savings)

		pr.Group(func(wr chi.Router) {
			if s.WriteLimiter != nil {
				wr.Use(s.WriteLimiter.Middleware)
			}
			wr.Post("/", s.create)
			wr.Put("/{id}", s.update)
			wr.Delete("/{id}", s.delete)
		})
	})

	return r
}

type perkReq struct {
	ID               int64           `json:"id" validate:"gte=0"`
	Name             string          `json:"name" validate:"required"`
	StandalonePrice  decimal.Decimal `json:"standalonePrice"`
	VerizonPerkPrice decimal.Decimal `json:"verizonPerkPrice"`
}

func (p perkReq) perk() Perk {
	return Perk{
		ID:               p.ID,
		Name:             p.Name,
		StandalonePrice:  p.StandalonePrice,
		VerizonPerkPrice: p.VerizonPerkPrice,
	}
}

type savingsReq struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Perks.Store.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	perks, err := s.Perks.ListPerks(r.Context())
	if err != nil {
		s.serverError(w, r, "list perks failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, perks)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, found, err := s.Perks.FindPerk(r.Context(), id)
	if err != nil {
		s.serverError(w, r, "get perk failed", err, zap.Int64("id", id))
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) head(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		kit.WriteStatus(w, http.StatusBadRequest)
		return
	}

	found, err := s.Perks.HasPerk(r.Context(), id)
	switch {
	case err != nil:
		s.logger().Error("perk exists check failed", zap.Error(err), zap.Int64("id", id))
		kit.WriteStatus(w, http.StatusInternalServerError)
	case !found:
		kit.WriteStatus(w, http.StatusNotFound)
	default:
		kit.WriteStatus(w, http.StatusOK)
	}
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var req perkReq
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.Perks.AddPerk(r.Context(), req.perk())
	if err != nil {
		s.serverError(w, r, "create perk failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, p)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req perkReq
	if !decodeBody(w, r, &req) {
		return
	}

	p, found, err := s.Perks.ChangePerk(r.Context(), id, req.perk())
	if err != nil {
		s.serverError(w, r, "update perk failed", err, zap.Int64("id", id))
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.Perks.RemovePerk(r.Context(), id); err != nil {
		s.serverError(w, r, "delete perk failed", err, zap.Int64("id", id))
		return
	}
	kit.WriteStatus(w, http.StatusNoContent)
}

func (s *Server) savings(w http.ResponseWriter, r *http.Request) {
	var req savingsReq
	if !decodeBody(w, r, &req) {
		return
	}

	q, err := s.Perks.Quote(r.Context(), req.IDs)
	if err != nil {
		s.serverError(w, r, "savings quote failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, q)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	s.logger().Error(msg, append(fields, zap.Error(err))...)
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid id", map[string]any{"id": raw})
		return 0, false
	}
	return id, true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// decodeBody reads one JSON object into dst and validates it. It writes the
// 400 itself and reports false on failure. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": "extra data after json object"})
		return false
	}

	if err := validate.Struct(dst); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "validation failed", validationDetails(err))
		return false
	}
	return true
}

func validationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details[fe.Field()] = "is required"
		case "min":
			details[fe.Field()] = fmt.Sprintf("must have at least %s entries", fe.Param())
		case "gte":
			details[fe.Field()] = fmt.Sprintf("must be at least %s", fe.Param())
		default:
			details[fe.Field()] = "is invalid"
		}
	}
	return details
}
