package domain

type SelectionKind string

const (
	SelectionNone      SelectionKind = ""
	SelectionPolygon   SelectionKind = "polygon"
	SelectionRectangle SelectionKind = "rectangle"
)

// SelectionRegion is a transient query shape: a boundary polygon or a
// rectangle spanned by two drag corners.
type SelectionRegion struct {
	Kind    SelectionKind
	Polygon *BoundaryPolygon
	Corner1 LatLng
	Corner2 LatLng
}

type Aggregate struct {
	Count      int      `json:"count"`
	VehicleIDs []string `json:"vehicleIds"`
}

type RegionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Summary struct {
	Total      int            `json:"total"`
	Located    int            `json:"located"`
	Rally      int            `json:"rally"`
	ByStatus   map[Status]int `json:"byStatus"`
	ByProvince map[string]int `json:"byProvince"`
}
