package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/boundary/geojson"
)

type boundaryIndex interface {
	ResolvePolygonsForZoom(level int) []domain.BoundaryPolygon
	TierForZoom(level int) domain.Tier
	Locate(lat, lng float64, level int) (*domain.BoundaryPolygon, bool)
}

type regionAggregator interface {
	AggregateByPolygon(ring domain.Ring, vehicles []domain.Vehicle) domain.Aggregate
	AggregateByRectangle(corner1, corner2 domain.LatLng, vehicles []domain.Vehicle) domain.Aggregate
	AggregateByTier(polygons []domain.BoundaryPolygon, vehicles []domain.Vehicle) []domain.RegionCount
	Summarize(vehicles []domain.Vehicle) domain.Summary
}

type vehicleSnapshotter interface {
	Snapshot() []domain.Vehicle
}

type polygonRequest struct {
	Ring [][]float64 `json:"ring" validate:"required,dive,len=2"`
}

type rectangleRequest struct {
	Corner1 *domain.LatLng `json:"corner1" validate:"required"`
	Corner2 *domain.LatLng `json:"corner2" validate:"required"`
}

type regionResponse struct {
	Name string      `json:"name"`
	Tier domain.Tier `json:"tier"`
}

type RegionHandler struct {
	index      boundaryIndex
	aggregator regionAggregator
	store      vehicleSnapshotter
}

func NewRegionHandler(index boundaryIndex, aggregator regionAggregator, store vehicleSnapshotter) *RegionHandler {
	return &RegionHandler{index: index, aggregator: aggregator, store: store}
}

func (h *RegionHandler) Register(r *gin.RouterGroup) {
	r.GET("/boundaries", h.GetBoundaries)
	r.GET("/regions/locate", h.Locate)
	r.GET("/regions/counts", h.Counts)
	r.POST("/aggregate/polygon", h.AggregatePolygon)
	r.POST("/aggregate/rectangle", h.AggregateRectangle)
	r.GET("/stats", h.Stats)
}

func (h *RegionHandler) GetBoundaries(c *gin.Context) {
	zoom, ok := zoomParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, geojson.ToFeatureCollection(h.index.ResolvePolygonsForZoom(zoom)))
}

func (h *RegionHandler) Locate(c *gin.Context) {
	zoom, ok := zoomParam(c)
	if !ok {
		return
	}
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat/lng parameter"})
		return
	}

	p, found := h.index.Locate(lat, lng, zoom)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no region at this point"})
		return
	}
	c.JSON(http.StatusOK, regionResponse{Name: p.Name, Tier: p.Tier})
}

func (h *RegionHandler) Counts(c *gin.Context) {
	zoom, ok := zoomParam(c)
	if !ok {
		return
	}
	counts := h.aggregator.AggregateByTier(h.index.ResolvePolygonsForZoom(zoom), h.store.Snapshot())
	c.JSON(http.StatusOK, gin.H{
		"tier":    h.index.TierForZoom(zoom),
		"regions": counts,
	})
}

func (h *RegionHandler) AggregatePolygon(c *gin.Context) {
	var req polygonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}

	ring := make(domain.Ring, len(req.Ring))
	for i, p := range req.Ring {
		ring[i] = domain.LatLng{Lat: p[0], Lng: p[1]}
	}
	c.JSON(http.StatusOK, h.aggregator.AggregateByPolygon(ring, h.store.Snapshot()))
}

func (h *RegionHandler) AggregateRectangle(c *gin.Context) {
	var req rectangleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	c.JSON(http.StatusOK, h.aggregator.AggregateByRectangle(*req.Corner1, *req.Corner2, h.store.Snapshot()))
}

func (h *RegionHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.aggregator.Summarize(h.store.Snapshot()))
}

func zoomParam(c *gin.Context) (int, bool) {
	zoom, err := strconv.Atoi(c.Query("zoom"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid zoom parameter"})
		return 0, false
	}
	return zoom, true
}
