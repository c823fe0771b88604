package service

import (
	"sync"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

// Selection is the map view's current selection region. One instance exists
// per connected map client.
type Selection struct {
	mu       sync.Mutex
	index    *BoundaryIndex
	current  domain.SelectionRegion
	dragging bool
	anchor   domain.LatLng
}

func NewSelection(index *BoundaryIndex) *Selection {
	return &Selection{index: index}
}

// BeginDrag starts a rectangle selection, discarding any previous selection
// and any drag still in progress.
func (s *Selection) BeginDrag(corner domain.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dragging = true
	s.anchor = corner
	s.current = domain.SelectionRegion{
		Kind:    domain.SelectionRectangle,
		Corner1: corner,
		Corner2: corner,
	}
}

func (s *Selection) MoveDrag(corner domain.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dragging {
		return
	}
	s.current.Corner2 = corner
}

// EndDrag fixes the rectangle. Without a drag in progress it does nothing.
func (s *Selection) EndDrag(corner domain.LatLng) domain.SelectionRegion {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dragging {
		return s.current
	}
	s.dragging = false
	s.current = domain.SelectionRegion{
		Kind:    domain.SelectionRectangle,
		Corner1: s.anchor,
		Corner2: corner,
	}
	return s.current
}

// Click handles a map click outside of a drag: the selection is dropped and,
// when the point falls inside a boundary of the zoom's tier, that boundary
// becomes the new selection.
func (s *Selection) Click(point domain.LatLng, zoom int) domain.SelectionRegion {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dragging {
		return s.current
	}
	s.current = domain.SelectionRegion{}
	if s.index == nil {
		return s.current
	}
	if p, ok := s.index.Locate(point.Lat, point.Lng, zoom); ok {
		s.current = domain.SelectionRegion{Kind: domain.SelectionPolygon, Polygon: p}
	}
	return s.current
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false
	s.current = domain.SelectionRegion{}
}

func (s *Selection) Current() domain.SelectionRegion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Selection) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}
