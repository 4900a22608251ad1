package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/platform/httpx"
	"github.com/shopstack/shopstack/internal/shared"
)

// Handler exposes transaction endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches transaction routes to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
}

type transactionResponse struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	FromStoreID *int64  `json:"from_store_id,omitempty"`
	ToStoreID   *int64  `json:"to_store_id,omitempty"`
	ProductID   int64   `json:"product_id"`
	Qty         int64   `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	CreatedBy   int64   `json:"created_by"`
	CreatedAt   string  `json:"created_at"`
}

func toResponse(t Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		Code:        t.Code,
		Type:        string(t.Type),
		FromStoreID: t.FromStoreID,
		ToStoreID:   t.ToStoreID,
		ProductID:   t.ProductID,
		Qty:         t.Qty,
		UnitPrice:   t.UnitPrice,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

type createTransactionRequest struct {
	Type        string  `json:"type" validate:"required,oneof=SALE TRANSFER"`
	FromStoreID *int64  `json:"from_store_id" validate:"omitempty,gt=0"`
	ToStoreID   *int64  `json:"to_store_id" validate:"omitempty,gt=0"`
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	Qty         int64   `json:"qty" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
}

type updateTransactionRequest struct {
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req createTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	txn, err := h.service.Create(r.Context(), actor, CreateTransactionInput{
		Type:        authz.TransactionType(req.Type),
		FromStoreID: req.FromStoreID,
		ToStoreID:   req.ToStoreID,
		ProductID:   req.ProductID,
		Qty:         req.Qty,
		UnitPrice:   req.UnitPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBadEndpoints), errors.Is(err, ErrProductStoreMismatch):
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		case errors.Is(err, ErrInsufficientStock):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Stock", err.Error())
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(txn))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}

	txn, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(txn))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	list, pagination, err := h.service.List(r.Context(), actor, shared.NewPagination(page, perPage, 0))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toResponse(t))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "pagination": pagination})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid transaction id")
		return
	}

	var req updateTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	txn, err := h.service.UpdateUnitPrice(r.Context(), actor, id, req.UnitPrice)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(txn))
}
