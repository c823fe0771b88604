package service

import (
	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/geo"
)

// BoundaryIndex selects between the district and province tiers by zoom
// level. It is read-only after construction.
type BoundaryIndex struct {
	fine    []domain.BoundaryPolygon
	coarse  []domain.BoundaryPolygon
	cutover int
}

func NewBoundaryIndex(fine, coarse []domain.BoundaryPolygon, cutover int) *BoundaryIndex {
	return &BoundaryIndex{
		fine:    fine,
		coarse:  coarse,
		cutover: cutover,
	}
}

// ResolvePolygonsForZoom returns the district tier below the cutover and the
// province tier at or above it.
func (b *BoundaryIndex) ResolvePolygonsForZoom(level int) []domain.BoundaryPolygon {
	if level < b.cutover {
		return b.fine
	}
	return b.coarse
}

func (b *BoundaryIndex) TierForZoom(level int) domain.Tier {
	if level < b.cutover {
		return domain.TierDistrict
	}
	return domain.TierProvince
}

// Districts returns the fine tier regardless of zoom.
func (b *BoundaryIndex) Districts() []domain.BoundaryPolygon {
	return b.fine
}

// FindContaining returns the first polygon, in slice order, with a ring that
// contains the point.
func (b *BoundaryIndex) FindContaining(lat, lng float64, polygons []domain.BoundaryPolygon) (*domain.BoundaryPolygon, bool) {
	for i := range polygons {
		if geo.PointInRings(lat, lng, polygons[i].Rings) {
			return &polygons[i], true
		}
	}
	return nil, false
}

// Locate is FindContaining over the tier in effect at level.
func (b *BoundaryIndex) Locate(lat, lng float64, level int) (*domain.BoundaryPolygon, bool) {
	return b.FindContaining(lat, lng, b.ResolvePolygonsForZoom(level))
}

func (b *BoundaryIndex) Lookup(name string, level int) (*domain.BoundaryPolygon, bool) {
	polygons := b.ResolvePolygonsForZoom(level)
	for i := range polygons {
		if polygons[i].Name == name {
			return &polygons[i], true
		}
	}
	return nil, false
}
