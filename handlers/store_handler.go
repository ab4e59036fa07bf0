package handlers

import (
	"net/http"

	"github.com/esportsfed/platform/middleware"
	"github.com/esportsfed/platform/services"
)

type StoreHandler struct {
	storeService services.StoreService
}

func NewStoreHandler(storeService services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

func (h *StoreHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		PriceCents  int     `json:"price_cents"`
		Stock       int     `json:"stock"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	product, err := h.storeService.CreateProduct(r.Context(), services.CreateProductInput{
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Stock:       input.Stock,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"product": product}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StoreHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := readPagination(r)

	products, err := h.storeService.ListProducts(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"products": products}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StoreHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "productID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	product, err := h.storeService.GetProductByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"product": product}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StoreHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	order, err := h.storeService.PlaceOrder(r.Context(), userID, input.ProductID, input.Quantity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"order": order}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StoreHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	orders, err := h.storeService.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"orders": orders}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
