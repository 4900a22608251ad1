package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/shopstack/shopstack/internal/platform/httpx"
	"github.com/shopstack/shopstack/internal/shared"
)

// Handler exposes category and product endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountCategoryRoutes attaches category routes to the router.
func (h *Handler) MountCategoryRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Post("/", h.createCategory)
	r.Get("/{id}", h.getCategory)
	r.Patch("/{id}", h.updateCategory)
	r.Delete("/{id}", h.deleteCategory)
}

// MountProductRoutes attaches product routes to the router.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Post("/", h.createProduct)
	r.Get("/{id}", h.getProduct)
	r.Patch("/{id}", h.updateProduct)
	r.Delete("/{id}", h.deleteProduct)
	r.Post("/{id}/stock", h.adjustStock)
	r.Get("/{id}/serials", h.listSerials)
	r.Post("/{id}/serials", h.addSerials)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}

type categoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedBy int64  `json:"created_by"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toCategoryResponse(c Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

type productResponse struct {
	ID         int64   `json:"id"`
	StoreID    int64   `json:"store_id"`
	CategoryID *int64  `json:"category_id,omitempty"`
	Name       string  `json:"name"`
	SKU        string  `json:"sku"`
	Price      float64 `json:"price"`
	StockQty   int64   `json:"stock_qty"`
	MinStock   int64   `json:"min_stock"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:         p.ID,
		StoreID:    p.StoreID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		SKU:        p.SKU,
		Price:      p.Price,
		StockQty:   p.StockQty,
		MinStock:   p.MinStock,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

type serialResponse struct {
	ID     int64  `json:"id"`
	Serial string `json:"serial"`
	Status string `json:"status"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type createProductRequest struct {
	StoreID    int64   `json:"store_id" validate:"required,gt=0"`
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Name       string  `json:"name" validate:"required"`
	SKU        string  `json:"sku" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
	StockQty   int64   `json:"stock_qty" validate:"gte=0"`
	MinStock   int64   `json:"min_stock" validate:"gte=0"`
}

type updateProductRequest struct {
	CategoryID *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Name       *string  `json:"name" validate:"omitempty,min=1"`
	Price      *float64 `json:"price" validate:"omitempty,gte=0"`
	MinStock   *int64   `json:"min_stock" validate:"omitempty,gte=0"`
}

type adjustStockRequest struct {
	Delta int64 `json:"delta" validate:"required"`
}

type addSerialsRequest struct {
	Serials []string `json:"serials" validate:"required,min=1,dive,required"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req createCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), actor, CreateCategoryInput{Name: req.Name})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	category, err := h.service.GetCategory(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	list, pagination, err := h.service.ListCategories(r.Context(), actor, shared.NewPagination(page, perPage, 0))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, toCategoryResponse(c))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "pagination": pagination})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req createCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), actor, id, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req createProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), actor, CreateProductInput{
		StoreID:    req.StoreID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		SKU:        req.SKU,
		Price:      req.Price,
		StockQty:   req.StockQty,
		MinStock:   req.MinStock,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.service.GetProduct(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	list, pagination, err := h.service.ListProducts(r.Context(), actor, shared.NewPagination(page, perPage, 0))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]productResponse, 0, len(list))
	for _, p := range list {
		items = append(items, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "pagination": pagination})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), actor, id, UpdateProductInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Price:      req.Price,
		MinStock:   req.MinStock,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	product, err := h.service.AdjustStock(r.Context(), actor, id, req.Delta)
	if err != nil {
		if errors.Is(err, ErrNegativeStock) {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Adjustment", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) listSerials(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	serials, err := h.service.ListSerials(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]serialResponse, 0, len(serials))
	for _, s := range serials {
		items = append(items, serialResponse{ID: s.ID, Serial: s.Serial, Status: string(s.Status)})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) addSerials(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req addSerialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	serials, err := h.service.AddSerials(r.Context(), actor, id, req.Serials)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]serialResponse, 0, len(serials))
	for _, s := range serials {
		items = append(items, serialResponse{ID: s.ID, Serial: s.Serial, Status: string(s.Status)})
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"items": items})
}
