package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vbforge/product-catalog/internal/api/metrics"
	"github.com/vbforge/product-catalog/internal/core/ports"
)

// TagHandler handles HTTP requests for tag operations.
type TagHandler struct {
	service ports.TagService
}

func NewTagHandler(service ports.TagService) *TagHandler {
	return &TagHandler{service: service}
}

// Create handles POST /api/tags.
//
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      tagRequest  true  "Tag details"
// @Success      201   {object}  tagResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/tags [post]
func (h *TagHandler) Create(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.service.Create(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	metrics.TagsCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, toTagResponse(tag))
}

// List handles GET /api/tags. The optional name query param looks up a
// single tag by exact name.
//
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        name  query    string  false  "Exact tag name"
// @Success      200   {array}  tagResponse
// @Router       /api/tags [get]
func (h *TagHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if name := c.QueryParam("name"); name != "" {
		tag, err := h.service.GetByName(ctx, name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toTagResponse(tag))
	}

	tags, err := h.service.List(ctx)
	if err != nil {
		return err
	}
	out := make([]tagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, toTagResponse(&tags[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/tags/:id.
//
// @Summary      Get a tag by ID
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tag ID"
// @Success      200  {object}  tagResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tags/{id} [get]
func (h *TagHandler) Get(c echo.Context) error {
	tag, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTagResponse(tag))
}

// Update handles PUT /api/tags/:id.
//
// @Summary      Rename a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Tag ID"
// @Param        body  body      tagRequest  true  "Tag details"
// @Success      200   {object}  tagResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/tags/{id} [put]
func (h *TagHandler) Update(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tag, err := h.service.Update(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTagResponse(tag))
}

// Delete handles DELETE /api/tags/:id.
//
// @Summary      Delete a tag
// @Tags         tags
// @Security     BearerAuth
// @Param        id  path  string  true  "Tag ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/tags/{id} [delete]
func (h *TagHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
