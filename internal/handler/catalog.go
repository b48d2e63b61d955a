package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storekeeper/internal/domain"
	"storekeeper/internal/service"
)

// CatalogHandler serves the /api/categories and /api/products resources.
// Catalog deletes are strict: a missing id answers 404, never a silent 204.
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, categories, http.StatusOK)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var cat domain.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		writeError(w, "Invalid request body", "", err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.CreateCategory(r.Context(), &cat)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, created, http.StatusCreated)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid category ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	cat, err := h.svc.GetCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, cat, http.StatusOK)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid category ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	var cat domain.Category
	if err := json.NewDecoder(r.Body).Decode(&cat); err != nil {
		writeError(w, "Invalid request body", "", err.Error(), http.StatusBadRequest)
		return
	}
	cat.ID = id // the path wins over the body

	updated, err := h.svc.UpdateCategory(r.Context(), &cat)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid category ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategoryProducts handles GET /api/categories/{id}/products.
func (h *CatalogHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid category ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	products, err := h.svc.ListProductsByCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, products, http.StatusOK)
}

// ListProducts handles GET /api/products. Without query parameters it
// returns the full list; with page or page_size it returns one page wrapped
// in pagination metadata.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	sizeStr := r.URL.Query().Get("page_size")

	if pageStr == "" && sizeStr == "" {
		products, err := h.svc.ListProducts(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, products, http.StatusOK)
		return
	}

	var page, size int
	var err error
	if pageStr != "" {
		if page, err = strconv.Atoi(pageStr); err != nil {
			writeError(w, "Invalid page parameter", "", err.Error(), http.StatusBadRequest)
			return
		}
	}
	if sizeStr != "" {
		if size, err = strconv.Atoi(sizeStr); err != nil {
			writeError(w, "Invalid page_size parameter", "", err.Error(), http.StatusBadRequest)
			return
		}
	}
	result, err := h.svc.ListProductsPage(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "Invalid request body", "", err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.CreateProduct(r.Context(), &p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, created, http.StatusCreated)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid product ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid product ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "Invalid request body", "", err.Error(), http.StatusBadRequest)
		return
	}
	p.ID = id

	updated, err := h.svc.UpdateProduct(r.Context(), &p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, updated, http.StatusOK)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, "Invalid product ID", "", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
