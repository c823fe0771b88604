package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type ingestService interface {
	Ingest(ctx context.Context, vl *domain.VehicleLocation) (bool, error)
}

// GPSHandler receives crew device reports. Devices do not send a timestamp,
// so the receipt time stands in for it.
type GPSHandler struct {
	ingestSvc ingestService
	now       func() time.Time
}

func NewGPSHandler(ingestSvc ingestService) *GPSHandler {
	return &GPSHandler{ingestSvc: ingestSvc, now: time.Now}
}

func (h *GPSHandler) Register(r *gin.RouterGroup) {
	r.POST("/gps/send", h.Send)
}

func (h *GPSHandler) Send(c *gin.Context) {
	var req domain.PositionReport
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	applied, err := h.ingestSvc.Ingest(c.Request.Context(), &domain.VehicleLocation{
		VehicleID: req.VehicleID,
		Location: domain.Location{
			Lat:       req.Latitude,
			Lon:       req.Longitude,
			Timestamp: h.now(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save position"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}
