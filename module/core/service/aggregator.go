package service

import (
	"sort"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/geo"
)

// RegionAggregator counts vehicles inside selection regions. It works on
// store snapshots and never fails: bad shapes yield empty results.
type RegionAggregator struct{}

func NewRegionAggregator() *RegionAggregator {
	return &RegionAggregator{}
}

func (a *RegionAggregator) AggregateByPolygon(ring domain.Ring, vehicles []domain.Vehicle) domain.Aggregate {
	if len(ring) < 3 {
		return emptyAggregate()
	}
	return collect(vehicles, func(p domain.LatLng) bool {
		return geo.PointInPolygon(p.Lat, p.Lng, ring)
	})
}

// AggregateByBoundary counts vehicles inside any ring of the polygon.
func (a *RegionAggregator) AggregateByBoundary(polygon domain.BoundaryPolygon, vehicles []domain.Vehicle) domain.Aggregate {
	return collect(vehicles, func(p domain.LatLng) bool {
		return geo.PointInRings(p.Lat, p.Lng, polygon.Rings)
	})
}

func (a *RegionAggregator) AggregateByRectangle(corner1, corner2 domain.LatLng, vehicles []domain.Vehicle) domain.Aggregate {
	return collect(vehicles, func(p domain.LatLng) bool {
		return geo.RectContains(corner1, corner2, p)
	})
}

// AggregateSelection evaluates whichever shape the selection holds.
func (a *RegionAggregator) AggregateSelection(sel domain.SelectionRegion, vehicles []domain.Vehicle) domain.Aggregate {
	switch sel.Kind {
	case domain.SelectionPolygon:
		if sel.Polygon == nil {
			return emptyAggregate()
		}
		return a.AggregateByBoundary(*sel.Polygon, vehicles)
	case domain.SelectionRectangle:
		return a.AggregateByRectangle(sel.Corner1, sel.Corner2, vehicles)
	}
	return emptyAggregate()
}

// AggregateByTier counts vehicles per polygon. A vehicle is attributed to the
// first polygon containing it, matching BoundaryIndex.FindContaining.
func (a *RegionAggregator) AggregateByTier(polygons []domain.BoundaryPolygon, vehicles []domain.Vehicle) []domain.RegionCount {
	counts := make([]domain.RegionCount, len(polygons))
	for i, p := range polygons {
		counts[i].Name = p.Name
	}

	for _, v := range vehicles {
		loc, ok := v.Located()
		if !ok {
			continue
		}
		for i := range polygons {
			if geo.PointInRings(loc.Point.Lat, loc.Point.Lng, polygons[i].Rings) {
				counts[i].Count++
				break
			}
		}
	}
	return counts
}

// Summarize builds the dashboard KPI figures.
func (a *RegionAggregator) Summarize(vehicles []domain.Vehicle) domain.Summary {
	s := domain.Summary{
		Total:      len(vehicles),
		ByStatus:   make(map[domain.Status]int),
		ByProvince: make(map[string]int),
	}
	for _, v := range vehicles {
		s.ByStatus[v.Status]++
		if v.Sido != "" {
			s.ByProvince[v.Sido]++
		}
		if v.RallyPoint {
			s.Rally++
		}
		if _, ok := v.Located(); ok {
			s.Located++
		}
	}
	return s
}

func collect(vehicles []domain.Vehicle, inside func(domain.LatLng) bool) domain.Aggregate {
	agg := emptyAggregate()
	for _, v := range vehicles {
		loc, ok := v.Located()
		if !ok {
			continue
		}
		if inside(loc.Point) {
			agg.VehicleIDs = append(agg.VehicleIDs, v.ID)
		}
	}
	sort.Strings(agg.VehicleIDs)
	agg.Count = len(agg.VehicleIDs)
	return agg
}

func emptyAggregate() domain.Aggregate {
	return domain.Aggregate{VehicleIDs: []string{}}
}
