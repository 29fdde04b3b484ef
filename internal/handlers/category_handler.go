package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "ledgerly/internal/errors"
	"ledgerly/internal/pagination"
	"ledgerly/internal/services"
)

// CategoryHandler handles the expense categorization endpoints.
type CategoryHandler struct {
	categorizationService services.CategorizationServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categorizationService services.CategorizationServicer) *CategoryHandler {
	return &CategoryHandler{categorizationService: categorizationService}
}

// ImportOperationsRequest is a batch of bank statement lines.
type ImportOperationsRequest struct {
	Operations []services.RawOperationInput `json:"operations" binding:"required,min=1,dive"`
}

// LinkRequest names the (category, sub-category) pair to assign.
type LinkRequest struct {
	Category    string `json:"category" binding:"required"`
	SubCategory string `json:"sub_category" binding:"required"`
}

// DeleteResponse reports how many operations became unprocessed.
type DeleteResponse struct {
	LinksRemoved int64 `json:"links_removed"`
}

// ListCategories handles listing the label set.
// @Summary     List categories
// @Description Get every category with its sub-categories
// @Tags        categories
// @Produce     json
// @Success     200 {array}  models.Category "Categories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	cats, err := h.categorizationService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// DeleteCategory handles removing a category.
// @Summary     Delete category
// @Description Delete a category with its sub-categories; linked operations become unprocessed
// @Tags        categories
// @Produce     json
// @Security    ApiKeyAuth
// @Param       name path string true "Category name"
// @Success     200 {object} DeleteResponse "Links removed"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	removed, err := h.categorizationService.DeleteCategory(c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{LinksRemoved: removed})
}

// DeleteSubCategory handles removing a sub-category.
// @Summary     Delete sub-category
// @Description Delete a sub-category; linked operations become unprocessed
// @Tags        categories
// @Produce     json
// @Security    ApiKeyAuth
// @Param       name path string true "Category name"
// @Param       sub  path string true "Sub-category name"
// @Success     200 {object} DeleteResponse "Links removed"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Category or sub-category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{name}/sub-categories/{sub} [delete]
func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	removed, err := h.categorizationService.DeleteSubCategory(c.Param("name"), c.Param("sub"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeleteResponse{LinksRemoved: removed})
}

// ImportOperations handles importing bank statement lines.
// @Summary     Import raw operations
// @Description Append statement lines; a line is skipped only as many times as an identical line is already stored
// @Tags        operations
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ImportOperationsRequest true "Operations"
// @Success     201 {object} services.ImportResult "Import summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations [post]
func (h *CategoryHandler) ImportOperations(c *gin.Context) {
	var req ImportOperationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categorizationService.AddRawOperations(req.Operations)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListUnprocessed handles listing operations awaiting categorization.
// @Summary     List unprocessed operations
// @Description Get a paginated list of raw operations without a category, oldest first
// @Tags        operations
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RawOperation] "Paginated operations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations/unprocessed [get]
func (h *CategoryHandler) ListUnprocessed(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.categorizationService.ListUnprocessed(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOperation handles reading one raw operation.
// @Summary     Get raw operation
// @Description Get a raw operation with its processed flag
// @Tags        operations
// @Produce     json
// @Param       id path int true "Operation ID"
// @Success     200 {object} models.RawOperation "Operation"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Operation not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations/{id} [get]
func (h *CategoryHandler) GetOperation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	op, err := h.categorizationService.GetRawOperation(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, op)
}

// LinkOperation handles categorizing a raw operation.
// @Summary     Categorize operation
// @Description Assign a (category, sub-category) pair to an unprocessed operation
// @Tags        operations
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path int         true "Operation ID"
// @Param       request body LinkRequest true "Category pair"
// @Success     201 {object} models.CategorizedOperation "Link created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Operation or category not found"
// @Failure     409 {object} ErrorResponse "Already categorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations/{id}/category [post]
func (h *CategoryHandler) LinkOperation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	link, err := h.categorizationService.Link(id, req.Category, req.SubCategory)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UnlinkOperation handles removing the category of a raw operation.
// @Summary     Uncategorize operation
// @Description Remove the category of an operation, making it unprocessed again
// @Tags        operations
// @Security    ApiKeyAuth
// @Param       id path int true "Operation ID"
// @Success     204 "No content"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Operation not found or not categorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations/{id}/category [delete]
func (h *CategoryHandler) UnlinkOperation(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categorizationService.Unlink(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCategorized handles listing categorized operations.
// @Summary     List categorized operations
// @Description Get categorized operations with their labels, optionally for one year
// @Tags        operations
// @Produce     json
// @Param       year query int false "Calendar year"
// @Success     200 {array}  services.CategorizedOperationView "Categorized operations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /operations/categorized [get]
func (h *CategoryHandler) ListCategorized(c *gin.Context) {
	var year *int
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid year"))
			return
		}
		year = &y
	}

	ops, err := h.categorizationService.GetCategorizedOperations(year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ops)
}
