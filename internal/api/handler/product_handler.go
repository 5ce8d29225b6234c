package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vbforge/product-catalog/internal/api/metrics"
	"github.com/vbforge/product-catalog/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /api/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.Create(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}
	metrics.ProductsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, toProductResponse(product))
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// List handles GET /api/products. Optional query params narrow the result:
// name (substring search), min_price/max_price (range), tag (tag name).
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name       query     string  false  "Filter by name substring"
// @Param        min_price  query     number  false  "Minimum price"
// @Param        max_price  query     number  false  "Maximum price"
// @Param        tag        query     string  false  "Filter by tag name"
// @Success      200        {array}   productResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if name := c.QueryParam("name"); name != "" {
		products, err := h.service.SearchByName(ctx, name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toProductResponses(products))
	}

	if tag := c.QueryParam("tag"); tag != "" {
		products, err := h.service.FindByTagName(ctx, tag)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toProductResponses(products))
	}

	minStr, maxStr := c.QueryParam("min_price"), c.QueryParam("max_price")
	if minStr != "" || maxStr != "" {
		min, err := parsePrice(minStr, 0)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		max, err := parsePrice(maxStr, maxPriceCeiling)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		products, err := h.service.FindByPriceRange(ctx, min, max)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toProductResponses(products))
	}

	products, err := h.service.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// Update handles PUT /api/products/:id.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product ID"
// @Param        body  body      productRequest  true  "Product details"
// @Success      200   {object}  productResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product, err := h.service.Update(c.Request().Context(), c.Param("id"), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "Product ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddTag handles POST /api/products/:id/tags/:tagId.
//
// @Summary      Attach a tag to a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Product ID"
// @Param        tagId  path      string  true  "Tag ID"
// @Success      200    {object}  productResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/products/{id}/tags/{tagId} [post]
func (h *ProductHandler) AddTag(c echo.Context) error {
	product, err := h.service.AddTag(c.Request().Context(), c.Param("id"), c.Param("tagId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

// RemoveTag handles DELETE /api/products/:id/tags/:tagId.
//
// @Summary      Detach a tag from a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Product ID"
// @Param        tagId  path      string  true  "Tag ID"
// @Success      200    {object}  productResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/products/{id}/tags/{tagId} [delete]
func (h *ProductHandler) RemoveTag(c echo.Context) error {
	product, err := h.service.RemoveTag(c.Request().Context(), c.Param("id"), c.Param("tagId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(product))
}

const maxPriceCeiling = 1e12

func parsePrice(s string, fallback float64) (float64, error) {
	if s == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(s, 64)
}
