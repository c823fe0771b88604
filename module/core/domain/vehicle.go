package domain

import "time"

type Status string

const (
	StatusStandby   Status = "standby"
	StatusActive    Status = "active"
	StatusWithdrawn Status = "withdrawn"
	StatusEnRoute   Status = "en-route"
)

func (s Status) Valid() bool {
	switch s {
	case StatusStandby, StatusActive, StatusWithdrawn, StatusEnRoute:
		return true
	}
	return false
}

// Position is either Located or Unlocated. A vehicle has no coordinates until
// the first live report arrives.
type Position interface {
	isPosition()
}

type Located struct {
	Point     LatLng
	Timestamp time.Time
}

type Unlocated struct{}

func (Located) isPosition()   {}
func (Unlocated) isPosition() {}

// Vehicle is one fire or rescue unit. ID never changes after registration;
// only Position, Status and RallyPoint are touched by live traffic.
type Vehicle struct {
	ID          string
	Sido        string
	Station     string
	Type        string
	CallSign    string
	Capacity    int
	Personnel   int
	AVLNumber   string
	PSLTENumber string
	Status      Status
	RallyPoint  bool
	Position    Position
}

// Located reports the vehicle's position when it has one.
func (v Vehicle) Located() (Located, bool) {
	loc, ok := v.Position.(Located)
	return loc, ok
}
