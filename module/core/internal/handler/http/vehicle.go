package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type locationService interface {
	GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.VehicleLocation, error)
}

type registryService interface {
	List(ctx context.Context) []domain.Vehicle
	Import(ctx context.Context, vehicles []domain.Vehicle) error
	SetStatus(ctx context.Context, vehicleID string, status domain.Status) error
	SetRally(ctx context.Context, vehicleID string, rally bool) error
}

type locationResponse struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

type positionResponse struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

// vehicleBody is both the import row and the list item. Position is output
// only.
type vehicleBody struct {
	ID          string            `json:"id" validate:"required"`
	Sido        string            `json:"sido"`
	Station     string            `json:"station"`
	Type        string            `json:"type"`
	CallSign    string            `json:"callSign"`
	Capacity    int               `json:"capacity" validate:"gte=0"`
	Personnel   int               `json:"personnel" validate:"gte=0"`
	AVLNumber   string            `json:"avlNumber"`
	PSLTENumber string            `json:"psLteNumber"`
	Status      domain.Status     `json:"status"`
	RallyPoint  bool              `json:"rallyPoint"`
	Position    *positionResponse `json:"position"`
}

type statusRequest struct {
	Status domain.Status `json:"status" validate:"required"`
}

type rallyRequest struct {
	RallyPoint *bool `json:"rallyPoint" validate:"required"`
}

type VehicleHandler struct {
	locationSvc locationService
	registrySvc registryService
}

func NewVehicleHandler(locationSvc locationService, registrySvc registryService) *VehicleHandler {
	return &VehicleHandler{locationSvc: locationSvc, registrySvc: registrySvc}
}

func (h *VehicleHandler) Register(r *gin.RouterGroup) {
	r.GET("/vehicles", h.GetAllVehicles)
	r.POST("/vehicles/import", h.ImportVehicles)
	r.PUT("/vehicles/:vehicle_id/status", h.SetStatus)
	r.PUT("/vehicles/:vehicle_id/rally", h.SetRally)
	r.GET("/vehicles/:vehicle_id/location", h.GetLatestLocation)
	r.GET("/vehicles/:vehicle_id/history", h.GetHistory)
}

func (h *VehicleHandler) GetAllVehicles(c *gin.Context) {
	vehicles := h.registrySvc.List(c.Request.Context())

	results := make([]vehicleBody, len(vehicles))
	for i, v := range vehicles {
		results[i] = toVehicleBody(v)
	}
	c.JSON(http.StatusOK, results)
}

func (h *VehicleHandler) ImportVehicles(c *gin.Context) {
	var rows []vehicleBody
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	vehicles := make([]domain.Vehicle, len(rows))
	for i, row := range rows {
		if err := validate.Struct(row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err), "row": i})
			return
		}
		vehicles[i] = row.toDomain()
	}

	if err := h.registrySvc.Import(c.Request.Context(), vehicles); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) || errors.Is(err, domain.ErrDuplicateVehicle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": len(vehicles)})
}

func (h *VehicleHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	err := h.registrySvc.SetStatus(c.Request.Context(), c.Param("vehicle_id"), req.Status)
	writeRegistryResult(c, err)
}

func (h *VehicleHandler) SetRally(c *gin.Context) {
	var req rallyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	err := h.registrySvc.SetRally(c.Request.Context(), c.Param("vehicle_id"), *req.RallyPoint)
	writeRegistryResult(c, err)
}

func (h *VehicleHandler) GetLatestLocation(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	vl, err := h.locationSvc.GetLatest(c.Request.Context(), vehicleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, toLocationResponse(vl))
}

func (h *VehicleHandler) GetHistory(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")

	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}
	if end < start {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end before start"})
		return
	}

	query := &domain.HistoryQuery{
		VehicleID: vehicleID,
		Start:     time.Unix(start, 0),
		End:       time.Unix(end, 0),
	}

	locations, err := h.locationSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]locationResponse, len(locations))
	for i, vl := range locations {
		results[i] = toLocationResponse(&vl)
	}
	c.JSON(http.StatusOK, results)
}

func writeRegistryResult(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, domain.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
	case errors.Is(err, domain.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update vehicle"})
	}
}

func toLocationResponse(vl *domain.VehicleLocation) locationResponse {
	return locationResponse{
		VehicleID: vl.VehicleID,
		Latitude:  vl.Location.Lat,
		Longitude: vl.Location.Lon,
		Timestamp: vl.Location.Timestamp.Unix(),
	}
}

func toVehicleBody(v domain.Vehicle) vehicleBody {
	b := vehicleBody{
		ID:          v.ID,
		Sido:        v.Sido,
		Station:     v.Station,
		Type:        v.Type,
		CallSign:    v.CallSign,
		Capacity:    v.Capacity,
		Personnel:   v.Personnel,
		AVLNumber:   v.AVLNumber,
		PSLTENumber: v.PSLTENumber,
		Status:      v.Status,
		RallyPoint:  v.RallyPoint,
	}
	if loc, ok := v.Located(); ok {
		b.Position = &positionResponse{
			Lat:       loc.Point.Lat,
			Lng:       loc.Point.Lng,
			Timestamp: loc.Timestamp.UnixMilli(),
		}
	}
	return b
}

func (b vehicleBody) toDomain() domain.Vehicle {
	return domain.Vehicle{
		ID:          b.ID,
		Sido:        b.Sido,
		Station:     b.Station,
		Type:        b.Type,
		CallSign:    b.CallSign,
		Capacity:    b.Capacity,
		Personnel:   b.Personnel,
		AVLNumber:   b.AVLNumber,
		PSLTENumber: b.PSLTENumber,
		Status:      b.Status,
		RallyPoint:  b.RallyPoint,
		Position:    domain.Unlocated{},
	}
}
