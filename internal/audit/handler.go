package audit

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/insuite-dev/insuite/internal/platform/httpx"
	"github.com/insuite-dev/insuite/internal/shared"
)

// Handler exposes the read side of the audit trail.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "company_id query parameter required")
		return
	}
	filter := Filter{
		CompanyID: companyID,
		Entity:    r.URL.Query().Get("entity"),
		Action:    r.URL.Query().Get("action"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &parsed
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = &parsed
		}
	}

	total, err := h.repo.Count(r.Context(), filter)
	if err != nil {
		h.logger.Error("count audit trail", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	p := shared.NewPagination(page, perPage, total)

	entries, err := h.repo.List(r.Context(), filter, p.PerPage, p.Offset())
	if err != nil {
		h.logger.Error("list audit trail", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries":    entries,
		"pagination": p,
	})
}
