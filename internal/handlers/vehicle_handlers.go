package handlers

import (
	"net/http"

	"garagepro/internal/common"
	"garagepro/internal/models"
	"garagepro/internal/services"

	"github.com/labstack/echo/v4"
)

type VehicleHandlers struct {
	vehicleService services.VehicleServiceInterface
}

func NewVehicleHandlers(vehicleService services.VehicleServiceInterface) *VehicleHandlers {
	return &VehicleHandlers{vehicleService: vehicleService}
}

// ListVehicles handles GET /vehicles, optionally filtered by ?customerId=
func (h *VehicleHandlers) ListVehicles(c echo.Context) error {
	vehicles, err := h.vehicleService.ListVehicles(c.Request().Context(), c.QueryParam("customerId"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, vehicles)
}

// CreateVehicle handles POST /vehicles
func (h *VehicleHandlers) CreateVehicle(c echo.Context) error {
	var req models.CreateVehicleData
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request().Context(), req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle handles GET /vehicles/:id
func (h *VehicleHandlers) GetVehicle(c echo.Context) error {
	vehicle, err := h.vehicleService.GetVehicle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle handles PUT /vehicles/:id
func (h *VehicleHandlers) UpdateVehicle(c echo.Context) error {
	var req models.UpdateVehicleData
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle handles DELETE /vehicles/:id
func (h *VehicleHandlers) DeleteVehicle(c echo.Context) error {
	deleted, err := h.vehicleService.DeleteVehicle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return common.SendError(c, err)
	}
	if !deleted {
		return common.SendNotFoundError(c, "Vehicle")
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "Vehicle deleted successfully"})
}

func (h *VehicleHandlers) RegisterRoutes(g *echo.Group) {
	vehicles := g.Group("/vehicles")
	vehicles.GET("", h.ListVehicles)
	vehicles.POST("", h.CreateVehicle)
	vehicles.GET("/:id", h.GetVehicle)
	vehicles.PUT("/:id", h.UpdateVehicle)
	vehicles.DELETE("/:id", h.DeleteVehicle)
}
