package rest

import (
	"encoding/json"
	"net/http"

	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
)

type toggleFeaturedResponse struct {
	Success    bool   `json:"success"`
	IsFeatured bool   `json:"isFeatured"`
	Message    string `json:"message"`
}

func (h *Handler) FindAllProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *Handler) FindFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.FindFeatured(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *Handler) FindProductsByCategory(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.FindByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// CreateProduct handles the creation of a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductCreateDto
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondValidationError(w, h.logger, err)
		return
	}

	created, err := h.products.Create(r.Context(), dto)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.products.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

func (h *Handler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.products.ToggleFeatured(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	msg := "Product removed from featured"
	if featured {
		msg = "Product marked as featured"
	}
	h.logger.InfoContext(r.Context(), "Featured flag toggled", "ID", r.PathValue("id"), "isFeatured", featured)
	web.RespondJSON(w, h.logger, http.StatusOK, toggleFeaturedResponse{Success: true, IsFeatured: featured, Message: msg})
}
