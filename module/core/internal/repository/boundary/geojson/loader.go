// Package geojson reads administrative boundary collections. GeoJSON stores
// vertices as [lon, lat]; everything returned here is already in lat/lng
// order, and the reverse conversion happens in ToFeatureCollection.
package geojson

import (
	"fmt"
	"log"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

// nameKeys are tried in order for a feature's region label.
var nameKeys = []string{"name", "SIG_KOR_NM", "CTP_KOR_NM", "adm_nm"}

func Load(path string, tier domain.Tier) ([]domain.BoundaryPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries %s: %w", path, err)
	}
	return Parse(data, tier)
}

// Parse converts a FeatureCollection into boundary polygons. Features without
// a name or with a non-polygon geometry are skipped. Degenerate rings are
// kept and simply never match.
func Parse(data []byte, tier domain.Tier) ([]domain.BoundaryPolygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedBoundary, err)
	}

	polygons := make([]domain.BoundaryPolygon, 0, len(fc.Features))
	for i, f := range fc.Features {
		name := featureName(f)
		if name == "" || f.Geometry == nil {
			log.Printf("boundary feature %d skipped: missing name or geometry", i)
			continue
		}

		var rings []domain.Ring
		switch f.Geometry.Type {
		case geojson.GeometryPolygon:
			rings = convertPolygon(f.Geometry.Polygon)
		case geojson.GeometryMultiPolygon:
			for _, p := range f.Geometry.MultiPolygon {
				rings = append(rings, convertPolygon(p)...)
			}
		default:
			log.Printf("boundary %s skipped: unsupported geometry %s", name, f.Geometry.Type)
			continue
		}

		for _, r := range rings {
			if len(r) < 3 {
				log.Printf("boundary %s: %v: ring with %d vertices", name, domain.ErrMalformedBoundary, len(r))
			}
		}
		polygons = append(polygons, domain.BoundaryPolygon{Name: name, Tier: tier, Rings: rings})
	}
	return polygons, nil
}

func featureName(f *geojson.Feature) string {
	for _, k := range nameKeys {
		if s, err := f.PropertyString(k); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// convertPolygon flattens every ring of a polygon. Rings are a union; inner
// rings are not treated as holes.
func convertPolygon(polygon [][][]float64) []domain.Ring {
	rings := make([]domain.Ring, 0, len(polygon))
	for _, coords := range polygon {
		ring := make(domain.Ring, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			ring = append(ring, domain.LatLng{Lat: c[1], Lng: c[0]})
		}
		rings = append(rings, ring)
	}
	return rings
}

// ToFeatureCollection renders polygons back to GeoJSON for map clients, one
// MultiPolygon feature per region.
func ToFeatureCollection(polygons []domain.BoundaryPolygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range polygons {
		multi := make([][][][]float64, 0, len(p.Rings))
		for _, r := range p.Rings {
			coords := make([][]float64, len(r))
			for i, v := range r {
				coords[i] = []float64{v.Lng, v.Lat}
			}
			multi = append(multi, [][][]float64{coords})
		}
		f := geojson.NewMultiPolygonFeature(multi...)
		f.SetProperty("name", p.Name)
		f.SetProperty("tier", string(p.Tier))
		fc.AddFeature(f)
	}
	return fc
}
