package reports

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/insuite-dev/insuite/internal/platform/httpx"
)

type Handler struct {
	service *Service
	group   singleflight.Group
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.TrialBalance)
	r.Get("/day-book", h.DayBook)
}

// build collapses concurrent identical report requests into one execution.
func (h *Handler) build(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	resultChan := h.group.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}
	key := "tb:" + strconv.FormatInt(companyID, 10)
	val, err := h.build(r.Context(), key, func(ctx context.Context) (interface{}, error) {
		return h.service.TrialBalance(ctx, companyID)
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, val)
}

func (h *Handler) DayBook(w http.ResponseWriter, r *http.Request) {
	companyID, ok := companyIDParam(w, r)
	if !ok {
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date query parameter must be YYYY-MM-DD")
		return
	}
	key := "db:" + strconv.FormatInt(companyID, 10) + ":" + date.Format("2006-01-02")
	val, err := h.build(r.Context(), key, func(ctx context.Context) (interface{}, error) {
		return h.service.DayBook(ctx, companyID, date)
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, val)
}

func companyIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "company_id query parameter required")
		return 0, false
	}
	return id, true
}
