package service

import (
	"testing"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

func TestSelection_Drag(t *testing.T) {
	s := NewSelection(testIndex())
	a := domain.LatLng{Lat: 37.5, Lng: 127.0}
	b := domain.LatLng{Lat: 37.6, Lng: 127.1}

	s.BeginDrag(a)
	if !s.Dragging() {
		t.Fatal("expected drag in progress")
	}
	s.MoveDrag(domain.LatLng{Lat: 37.55, Lng: 127.05})
	if got := s.Current(); got.Corner2.Lat != 37.55 {
		t.Errorf("expected moving corner to follow, got %+v", got)
	}

	sel := s.EndDrag(b)
	if s.Dragging() {
		t.Error("drag should be finished")
	}
	if sel.Kind != domain.SelectionRectangle || sel.Corner1 != a || sel.Corner2 != b {
		t.Errorf("unexpected selection %+v", sel)
	}
}

func TestSelection_NewDragDiscardsPrevious(t *testing.T) {
	s := NewSelection(testIndex())
	s.Click(domain.LatLng{Lat: 37.55, Lng: 126.95}, 5)
	if s.Current().Kind != domain.SelectionPolygon {
		t.Fatal("expected polygon selection")
	}

	s.BeginDrag(domain.LatLng{Lat: 1, Lng: 1})
	s.BeginDrag(domain.LatLng{Lat: 2, Lng: 2})
	sel := s.EndDrag(domain.LatLng{Lat: 3, Lng: 3})

	if sel.Kind != domain.SelectionRectangle {
		t.Fatalf("expected rectangle, got %s", sel.Kind)
	}
	if sel.Corner1 != (domain.LatLng{Lat: 2, Lng: 2}) {
		t.Errorf("expected second drag anchor, got %+v", sel.Corner1)
	}
}

func TestSelection_EndWithoutDrag(t *testing.T) {
	s := NewSelection(testIndex())
	s.MoveDrag(domain.LatLng{Lat: 1, Lng: 1})
	if sel := s.EndDrag(domain.LatLng{Lat: 2, Lng: 2}); sel.Kind != domain.SelectionNone {
		t.Errorf("expected no selection, got %+v", sel)
	}
}

func TestSelection_Click(t *testing.T) {
	tests := []struct {
		name  string
		point domain.LatLng
		zoom  int
		want  string
	}{
		{"district at low zoom", domain.LatLng{Lat: 37.55, Lng: 126.95}, 5, "종로구"},
		{"province at high zoom", domain.LatLng{Lat: 37.55, Lng: 126.95}, 12, "서울특별시"},
		{"outside every boundary", domain.LatLng{Lat: 35.1, Lng: 129.0}, 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection(testIndex())
			s.BeginDrag(domain.LatLng{})
			s.EndDrag(domain.LatLng{Lat: 1, Lng: 1})

			sel := s.Click(tt.point, tt.zoom)
			if tt.want == "" {
				if sel.Kind != domain.SelectionNone {
					t.Errorf("expected selection cleared, got %+v", sel)
				}
				return
			}
			if sel.Kind != domain.SelectionPolygon || sel.Polygon.Name != tt.want {
				t.Errorf("expected %s, got %+v", tt.want, sel)
			}
		})
	}
}

func TestSelection_ClickDuringDragIgnored(t *testing.T) {
	s := NewSelection(testIndex())
	s.BeginDrag(domain.LatLng{Lat: 37.5, Lng: 126.9})

	sel := s.Click(domain.LatLng{Lat: 37.55, Lng: 126.95}, 5)
	if sel.Kind != domain.SelectionRectangle || !s.Dragging() {
		t.Errorf("click must not interrupt a drag, got %+v", sel)
	}
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelection(testIndex())
	s.BeginDrag(domain.LatLng{})
	s.Clear()

	if s.Dragging() || s.Current().Kind != domain.SelectionNone {
		t.Errorf("expected empty selection, got %+v", s.Current())
	}
}
