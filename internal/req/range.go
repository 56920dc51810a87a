package req

import (
	"fmt"
	"strings"
)

// Range is how broadly a requirement is evaluated. Ranges are ordered from
// the narrowest (a single unit or building) to the broadest (the whole game).
type Range int

const (
	RangeLocal Range = iota
	RangeTile
	RangeCAdjacent
	RangeAdjacent
	RangeCity
	RangeTradeRoute
	RangeContinent
	RangePlayer
	RangeTeam
	RangeAlliance
	RangeWorld

	rangeCount
)

var rangeNames = [rangeCount]string{
	RangeLocal:      "Local",
	RangeTile:       "Tile",
	RangeCAdjacent:  "CAdjacent",
	RangeAdjacent:   "Adjacent",
	RangeCity:       "City",
	RangeTradeRoute: "Traderoute",
	RangeContinent:  "Continent",
	RangePlayer:     "Player",
	RangeTeam:       "Team",
	RangeAlliance:   "Alliance",
	RangeWorld:      "World",
}

func (r Range) String() string {
	if r < 0 || r >= rangeCount {
		return fmt.Sprintf("Range(%d)", int(r))
	}
	return rangeNames[r]
}

// Valid returns whether r is one of the defined ranges.
func (r Range) Valid() bool {
	return r >= 0 && r < rangeCount
}

// Contains returns whether a requirement fulfilled at range r is also
// fulfilled at range o, ie whether o is at least as broad as r.
func (r Range) Contains(o Range) bool {
	return r <= o
}

// RangeByName returns the Range with the given name. Case is ignored.
func RangeByName(name string) (Range, bool) {
	for i := range rangeNames {
		if strings.EqualFold(rangeNames[i], name) {
			return Range(i), true
		}
	}
	return RangeLocal, false
}

// Ranges returns every defined range in order.
func Ranges() []Range {
	rs := make([]Range, rangeCount)
	for i := range rs {
		rs[i] = Range(i)
	}
	return rs
}
