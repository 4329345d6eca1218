package controllers

import (
	"net/http"

	"github.com/mtsdigital/storefront/api/responses"
	"github.com/mtsdigital/storefront/api/validators"
	"github.com/mtsdigital/storefront/internal/admins"
	"github.com/mtsdigital/storefront/internal/catalog"
	"github.com/mtsdigital/storefront/pkg/enums"
	"github.com/mtsdigital/storefront/pkg/logger"
)

type productRequest struct {
	Name            string   `json:"name" validate:"required,max=200"`
	FullProductName string   `json:"fullProductName" validate:"omitempty,max=300"`
	Subcategory     *string  `json:"subcategory" validate:"omitempty,max=100"`
	Duration        string   `json:"duration" validate:"required,max=50"`
	Description     string   `json:"description" validate:"required,max=5000"`
	Features        []string `json:"features" validate:"omitempty,max=50,dive,max=300"`
	Price           int      `json:"price" validate:"required,min=1"`
	OriginalPrice   int      `json:"originalPrice" validate:"omitempty,min=0"`
	Discount        int      `json:"discount" validate:"omitempty,min=0,max=100"`
	Category        string   `json:"category" validate:"required,slug,max=100"`
	Icon            string   `json:"icon" validate:"omitempty,max=100"`
	Image           *string  `json:"image" validate:"omitempty,max=1000"`
	ActivationTime  string   `json:"activationTime" validate:"omitempty,max=100"`
	Warranty        string   `json:"warranty" validate:"omitempty,max=100"`
	Notes           *string  `json:"notes" validate:"omitempty,max=2000"`
	Popular         bool     `json:"popular"`
	Trending        bool     `json:"trending"`
	Available       *bool    `json:"available"`
	ParentProductID *string  `json:"parentProductId" validate:"omitempty,max=64"`
}

func (p productRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:            p.Name,
		FullProductName: p.FullProductName,
		Subcategory:     p.Subcategory,
		Duration:        p.Duration,
		Description:     p.Description,
		Features:        p.Features,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		Discount:        p.Discount,
		Category:        p.Category,
		Icon:            p.Icon,
		Image:           p.Image,
		ActivationTime:  p.ActivationTime,
		Warranty:        p.Warranty,
		Notes:           p.Notes,
		Popular:         p.Popular,
		Trending:        p.Trending,
		Available:       p.Available,
		ParentProductID: p.ParentProductID,
	}
}

// productPatchRequest mirrors productRequest with every field optional so
// zero values can be written explicitly.
type productPatchRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=1,max=200"`
	FullProductName *string   `json:"fullProductName" validate:"omitempty,max=300"`
	Subcategory     *string   `json:"subcategory" validate:"omitempty,max=100"`
	Duration        *string   `json:"duration" validate:"omitempty,max=50"`
	Description     *string   `json:"description" validate:"omitempty,max=5000"`
	Features        *[]string `json:"features" validate:"omitempty,max=50,dive,max=300"`
	Price           *int      `json:"price" validate:"omitempty,min=1"`
	OriginalPrice   *int      `json:"originalPrice" validate:"omitempty,min=0"`
	Discount        *int      `json:"discount" validate:"omitempty,min=0,max=100"`
	Category        *string   `json:"category" validate:"omitempty,slug,max=100"`
	Icon            *string   `json:"icon" validate:"omitempty,max=100"`
	Image           *string   `json:"image" validate:"omitempty,max=1000"`
	ActivationTime  *string   `json:"activationTime" validate:"omitempty,max=100"`
	Warranty        *string   `json:"warranty" validate:"omitempty,max=100"`
	Notes           *string   `json:"notes" validate:"omitempty,max=2000"`
	Popular         *bool     `json:"popular"`
	Trending        *bool     `json:"trending"`
	Available       *bool     `json:"available"`
}

func (p productPatchRequest) toPatch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:            p.Name,
		FullProductName: p.FullProductName,
		Subcategory:     p.Subcategory,
		Duration:        p.Duration,
		Description:     p.Description,
		Features:        p.Features,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		Discount:        p.Discount,
		Category:        p.Category,
		Icon:            p.Icon,
		Image:           p.Image,
		ActivationTime:  p.ActivationTime,
		Warranty:        p.Warranty,
		Notes:           p.Notes,
		Popular:         p.Popular,
		Trending:        p.Trending,
		Available:       p.Available,
	}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,slug,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Icon        string `json:"icon" validate:"omitempty,max=100"`
}

type categoryPatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,slug,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
}

func AdminCreateProduct(svc catalog.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionProductCreate, product.ID, product.Name)
		responses.WriteCreated(w, product)
	}
}

func AdminUpdateProduct(svc catalog.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req productPatchRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(r.Context(), id, req.toPatch())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionProductUpdate, product.ID, product.Name)
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc catalog.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionProductDelete, id, "")
		responses.WriteNoContent(w)
	}
}

func AdminCreateCategory(svc catalog.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), catalog.CategoryInput{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			Icon:        req.Icon,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionCategoryCreate, category.ID, category.Slug)
		responses.WriteCreated(w, category)
	}
}

func AdminUpdateCategory(svc catalog.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req categoryPatchRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.UpdateCategory(r.Context(), id, catalog.CategoryPatch{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			Icon:        req.Icon,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionCategoryUpdate, category.ID, category.Slug)
		responses.WriteSuccess(w, category)
	}
}

func AdminDeleteCategory(svc catalog.Service, auditor *admins.Auditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		audit(r, auditor, enums.AdminActionCategoryDelete, id, "")
		responses.WriteNoContent(w)
	}
}
