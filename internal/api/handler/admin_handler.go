package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vbforge/product-catalog/internal/core/ports"
)

// AdminHandler serves the admin-only introspection endpoints. Access is
// restricted to the ADMIN role by the access table, not by the handler.
type AdminHandler struct {
	products ports.ProductRepository
	tags     ports.TagRepository
	users    ports.UserRepository
	started  time.Time
}

func NewAdminHandler(products ports.ProductRepository, tags ports.TagRepository, users ports.UserRepository) *AdminHandler {
	return &AdminHandler{
		products: products,
		tags:     tags,
		users:    users,
		started:  time.Now().UTC(),
	}
}

type adminStatsResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	Admin         string    `json:"admin"`
	TotalProducts int64     `json:"totalProducts"`
	TotalTags     int64     `json:"totalTags"`
	TotalUsers    int64     `json:"totalUsers"`
}

type adminInfoResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	Admin      string    `json:"admin"`
	GoVersion  string    `json:"goVersion"`
	OS         string    `json:"os"`
	NumCPU     int       `json:"availableProcessors"`
	Goroutines int       `json:"goroutines"`
	Uptime     string    `json:"uptime"`
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Catalog statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	products, err := h.products.Count(ctx)
	if err != nil {
		return err
	}
	tags, err := h.tags.Count(ctx)
	if err != nil {
		return err
	}
	users, err := h.users.Count(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminStatsResponse{
		Timestamp:     time.Now().UTC(),
		Admin:         identity.Username,
		TotalProducts: products,
		TotalTags:     tags,
		TotalUsers:    users,
	})
}

// Info handles GET /api/admin/info.
//
// @Summary      Server information
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminInfoResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/info [get]
func (h *AdminHandler) Info(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminInfoResponse{
		Timestamp:  time.Now().UTC(),
		Admin:      identity.Username,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		NumCPU:     runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
	})
}
