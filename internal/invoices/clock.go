package invoices

import "time"

// Clock supplies the zone used to turn stored instants into calendar dates.
type Clock interface {
	Location() *time.Location
}

// SystemClock reads the process zone on every call, so a zone change on the
// host shows up on the next read.
type SystemClock struct{}

func (SystemClock) Location() *time.Location { return time.Local }

// FixedClock pins every date to one zone.
type FixedClock struct {
	Loc *time.Location
}

func (c FixedClock) Location() *time.Location {
	if c.Loc == nil {
		return time.UTC
	}
	return c.Loc
}

// ClockFor returns a FixedClock for the named IANA zone, or SystemClock when
// name is empty.
func ClockFor(name string) (Clock, error) {
	if name == "" {
		return SystemClock{}, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return FixedClock{Loc: loc}, nil
}
