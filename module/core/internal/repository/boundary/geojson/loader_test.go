package geojson

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

const districts = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"SIG_KOR_NM": "종로구"},
      "geometry": {"type": "Polygon", "coordinates": [[[126.9, 37.5], [127.0, 37.5], [127.0, 37.6], [126.9, 37.6], [126.9, 37.5]]]}
    },
    {
      "type": "Feature",
      "properties": {"name": "옹진군"},
      "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[126.0, 37.0], [126.1, 37.0], [126.1, 37.1], [126.0, 37.0]]],
        [[[125.5, 37.5], [125.6, 37.5], [125.6, 37.6], [125.5, 37.5]]]
      ]}
    },
    {
      "type": "Feature",
      "properties": {"name": "점"},
      "geometry": {"type": "Point", "coordinates": [127.0, 37.5]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 0]]]}
    },
    {
      "type": "Feature",
      "properties": {"name": "퇴화"},
      "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 1]]]}
    }
  ]
}`

func TestParse(t *testing.T) {
	polygons, err := Parse([]byte(districts), domain.TierDistrict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(polygons) != 3 {
		t.Fatalf("expected 3 polygons, got %d", len(polygons))
	}

	jongno := polygons[0]
	if jongno.Name != "종로구" || jongno.Tier != domain.TierDistrict {
		t.Errorf("unexpected polygon %+v", jongno)
	}
	if v := jongno.Rings[0][1]; v.Lat != 37.5 || v.Lng != 127.0 {
		t.Errorf("expected lon/lat swapped to lat/lng, got %+v", v)
	}

	if len(polygons[1].Rings) != 2 {
		t.Errorf("expected multipolygon flattened to 2 rings, got %d", len(polygons[1].Rings))
	}
	if len(polygons[2].Rings[0]) != 2 {
		t.Errorf("degenerate ring should be kept as is, got %+v", polygons[2].Rings)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"type": "FeatureCollection", "features": [`), domain.TierDistrict)
	if !errors.Is(err, domain.ErrMalformedBoundary) {
		t.Fatalf("expected ErrMalformedBoundary, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sido.geojson")
	if err := os.WriteFile(path, []byte(districts), 0o600); err != nil {
		t.Fatal(err)
	}

	polygons, err := Load(path, domain.TierProvince)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if polygons[0].Tier != domain.TierProvince {
		t.Errorf("expected province tier, got %s", polygons[0].Tier)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.geojson"), domain.TierProvince); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestToFeatureCollection(t *testing.T) {
	polygons, _ := Parse([]byte(districts), domain.TierDistrict)
	fc := ToFeatureCollection(polygons[:2])

	if len(fc.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(fc.Features))
	}
	f := fc.Features[0]
	if name, _ := f.PropertyString("name"); name != "종로구" {
		t.Errorf("expected 종로구, got %s", name)
	}
	first := f.Geometry.MultiPolygon[0][0][0]
	if first[0] != 126.9 || first[1] != 37.5 {
		t.Errorf("expected lon/lat order on output, got %v", first)
	}
	if len(fc.Features[1].Geometry.MultiPolygon) != 2 {
		t.Errorf("expected one polygon per ring, got %d", len(fc.Features[1].Geometry.MultiPolygon))
	}

	back, err := fc.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(back, domain.TierDistrict)
	if err != nil || len(again) != 2 || again[0].Rings[0][2] != polygons[0].Rings[0][2] {
		t.Errorf("round trip changed polygons: %+v, %v", again, err)
	}
}
