package ws

import "github.com/FireFighterProject/fire-dispatch/module/core/domain"

type inboundMessage struct {
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}

type vehicleView struct {
	ID         string        `json:"id"`
	CallSign   string        `json:"callSign"`
	Station    string        `json:"station"`
	Status     domain.Status `json:"status"`
	RallyPoint bool          `json:"rallyPoint"`
	Lat        *float64      `json:"lat"`
	Lng        *float64      `json:"lng"`
	UpdatedAt  int64         `json:"updatedAt,omitempty"`
}

type selectionView struct {
	Kind       domain.SelectionKind `json:"kind"`
	Region     string               `json:"region,omitempty"`
	Corner1    *domain.LatLng       `json:"corner1,omitempty"`
	Corner2    *domain.LatLng       `json:"corner2,omitempty"`
	Count      int                  `json:"count"`
	VehicleIDs []string             `json:"vehicleIds"`
}

type snapshotMessage struct {
	Type      string        `json:"type"`
	Vehicles  []vehicleView `json:"vehicles"`
	Selection selectionView `json:"selection"`
}

func toVehicleViews(vehicles []domain.Vehicle) []vehicleView {
	out := make([]vehicleView, len(vehicles))
	for i, v := range vehicles {
		out[i] = vehicleView{
			ID:         v.ID,
			CallSign:   v.CallSign,
			Station:    v.Station,
			Status:     v.Status,
			RallyPoint: v.RallyPoint,
		}
		if loc, ok := v.Located(); ok {
			lat, lng := loc.Point.Lat, loc.Point.Lng
			out[i].Lat, out[i].Lng = &lat, &lng
			out[i].UpdatedAt = loc.Timestamp.UnixMilli()
		}
	}
	return out
}

func toSelectionView(sel domain.SelectionRegion, agg domain.Aggregate) selectionView {
	view := selectionView{Kind: sel.Kind, Count: agg.Count, VehicleIDs: agg.VehicleIDs}
	switch sel.Kind {
	case domain.SelectionPolygon:
		if sel.Polygon != nil {
			view.Region = sel.Polygon.Name
		}
	case domain.SelectionRectangle:
		c1, c2 := sel.Corner1, sel.Corner2
		view.Corner1, view.Corner2 = &c1, &c2
	}
	return view
}
