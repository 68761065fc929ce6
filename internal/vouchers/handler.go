package vouchers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/insuite-dev/insuite/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Post)
	r.Post("/derive", h.Derive)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/cancel", h.Cancel)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(r.URL.Query().Get("company_id"), 10, 64)
	if err != nil || companyID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "company_id query parameter required")
		return
	}
	filter := ListFilter{CompanyID: companyID}
	if f := r.URL.Query().Get("fy_id"); f != "" {
		if parsed, err := strconv.ParseInt(f, 10, 64); err == nil {
			filter.FinancialYear = &parsed
		}
	}
	if t := r.URL.Query().Get("type"); t != "" {
		vt := Type(t)
		if vt.Valid() {
			filter.Type = &vt
		}
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
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	vouchers, pagination, err := h.service.ListPage(r.Context(), filter, page, perPage)
	if err != nil {
		h.logger.Error("list vouchers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"vouchers":   vouchers,
		"pagination": pagination,
	})
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostingInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	voucher, err := h.service.Post(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, voucher)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	voucher, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, voucher)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return
	}
	if err := h.service.Cancel(r.Context(), id, 0); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Derive(w http.ResponseWriter, r *http.Request) {
	var req DeriveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	items, totals := h.service.Derive(req.Lines, req.InterState)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"totals": totals,
	})
}
