package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/service"
)

type dispatchService interface {
	Dispatch(ctx context.Context, cmd service.DispatchCommand) (*service.Dispatch, error)
	Return(ctx context.Context, vehicleID string) error
}

type dispatchRequest struct {
	VehicleID string   `json:"vehicleId" validate:"required"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type DispatchHandler struct {
	dispatchSvc dispatchService
}

func NewDispatchHandler(dispatchSvc dispatchService) *DispatchHandler {
	return &DispatchHandler{dispatchSvc: dispatchSvc}
}

func (h *DispatchHandler) Register(r *gin.RouterGroup) {
	r.POST("/dispatches", h.Create)
	r.POST("/vehicles/:vehicle_id/return", h.Return)
}

func (h *DispatchHandler) Create(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	hasCoords := req.Latitude != nil && req.Longitude != nil
	if !hasCoords && req.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address or latitude/longitude required"})
		return
	}

	cmd := service.DispatchCommand{VehicleID: req.VehicleID, Address: req.Address}
	if hasCoords {
		cmd.Target = &domain.LatLng{Lat: *req.Latitude, Lng: *req.Longitude}
	}

	d, err := h.dispatchSvc.Dispatch(c.Request.Context(), cmd)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, d)
	case errors.Is(err, domain.ErrGeocodingFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "주소를 찾을 수 없습니다"})
	case errors.Is(err, domain.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch"})
	}
}

func (h *DispatchHandler) Return(c *gin.Context) {
	err := h.dispatchSvc.Return(c.Request.Context(), c.Param("vehicle_id"))
	writeRegistryResult(c, err)
}
