package req

import (
	"fmt"
	"strings"
)

// Kind is the type of thing a requirement tests for. The meaning of a
// Universal's value depends on its Kind; it is a record id, a flag id, an
// index into a fixed list of names, or a plain number.
type Kind int

const (
	KindInvalid Kind = iota - 1
	KindNone
	KindAdvance
	KindTechFlag
	KindGovernment
	KindBuilding
	KindBuildingGenus
	KindExtra
	KindExtraFlag
	KindTerrain
	KindTerrainClass
	KindTerrainFlag
	KindTerrainAlter
	KindUnitType
	KindUnitFlag
	KindUnitClass
	KindUnitClassFlag
	KindNation
	KindSpecialist
	KindAchievement
	KindGood
	KindStyle
	KindCounter
	KindAction
	KindDiplRel
	KindCityTile
	KindCityStatus
	KindMinSize
	KindMinYear
	KindMinMoveFrags
	KindMinVeteran
	KindMinHitPoints
	KindMinTechs
	KindMinCulture
	KindAge
	KindMaxUnitsOnTile

	kindCount
)

type domain int

const (
	domainNone domain = iota
	domainRecord
	domainFlag
	domainEnum
	domainNumber
)

type kindInfo struct {
	name   string
	domain domain

	// names of the values of an enum kind.
	enum []string

	// ranges the kind may be evaluated at. The first is the default.
	ranges []Range

	// two different values of an exclusive kind can never both be present at
	// the same range.
	exclusive bool

	// at Local range the requirement is about the acting unit itself.
	unitSubject bool

	// numeric kind that gives an upper bound instead of a lower one.
	maximum bool
}

var (
	unitRanges   = []Range{RangeLocal, RangeTile, RangeCAdjacent, RangeAdjacent}
	tileRanges   = []Range{RangeTile, RangeCAdjacent, RangeAdjacent, RangeCity}
	playerRanges = []Range{RangePlayer, RangeTeam, RangeAlliance, RangeWorld}
	localOnly    = []Range{RangeLocal}
	cityRanges   = []Range{RangeCity, RangeTradeRoute, RangePlayer}
	allRanges    = Ranges()

	buildingRanges = []Range{
		RangeCity, RangeLocal, RangeTile, RangeTradeRoute, RangeContinent,
		RangePlayer, RangeAlliance, RangeWorld,
	}
)

// Names of the values of the enum kinds.
var (
	TerrainClassNames  = []string{"Land", "Oceanic"}
	BuildingGenusNames = []string{"GreatWonder", "SmallWonder", "Improvement", "Special", "Convert"}
	TerrainAlterNames  = []string{"CanIrrigate", "CanMine", "CanRoad", "CanBase", "CanPlace"}
	CityTileNames      = []string{"Center", "Claimed", "Extras Owned", "Worked", "Same Continent"}
	CityStatusNames    = []string{"OwnedByOriginal", "Starved", "Disorder", "Celebration"}
	DiplRelNames       = []string{
		"Armistice", "War", "Cease-fire", "Peace", "Alliance", "Never met", "Team",
		"Foreign", "Has real embassy", "Has Casus Belli", "Provided Casus Belli",
	}
)

// Index of the DiplRel values that describe the main diplomatic state. Only
// one of them can be in effect between two players at a time.
const (
	DiplRelArmistice = iota
	DiplRelWar
	DiplRelCeasefire
	DiplRelPeace
	DiplRelAlliance
	DiplRelNeverMet
	DiplRelTeam
	DiplRelForeign
)

var kinds = [kindCount]kindInfo{
	KindNone:          {name: "None", domain: domainNone, ranges: allRanges},
	KindAdvance:       {name: "Tech", domain: domainRecord, ranges: playerRanges},
	KindTechFlag:      {name: "TechFlag", domain: domainFlag, ranges: playerRanges},
	KindGovernment:    {name: "Gov", domain: domainRecord, ranges: []Range{RangePlayer}, exclusive: true},
	KindBuilding:      {name: "Building", domain: domainRecord, ranges: buildingRanges},
	KindBuildingGenus: {name: "BuildingGenus", domain: domainEnum, enum: BuildingGenusNames, ranges: localOnly, exclusive: true},
	KindExtra:         {name: "Extra", domain: domainRecord, ranges: append([]Range{RangeTile, RangeLocal}, tileRanges[1:]...)},
	KindExtraFlag:     {name: "ExtraFlag", domain: domainFlag, ranges: append([]Range{RangeTile, RangeLocal}, tileRanges[1:]...)},
	KindTerrain:       {name: "Terrain", domain: domainRecord, ranges: tileRanges, exclusive: true},
	KindTerrainClass:  {name: "TerrainClass", domain: domainEnum, enum: TerrainClassNames, ranges: tileRanges, exclusive: true},
	KindTerrainFlag:   {name: "TerrainFlag", domain: domainFlag, ranges: tileRanges},
	KindTerrainAlter:  {name: "TerrainAlter", domain: domainEnum, enum: TerrainAlterNames, ranges: []Range{RangeTile}},
	KindUnitType:      {name: "UnitType", domain: domainRecord, ranges: unitRanges, exclusive: true, unitSubject: true},
	KindUnitFlag:      {name: "UnitFlag", domain: domainFlag, ranges: unitRanges, unitSubject: true},
	KindUnitClass:     {name: "UnitClass", domain: domainRecord, ranges: unitRanges, exclusive: true, unitSubject: true},
	KindUnitClassFlag: {name: "UnitClassFlag", domain: domainFlag, ranges: unitRanges, unitSubject: true},
	KindNation:        {name: "Nation", domain: domainRecord, ranges: playerRanges, exclusive: true},
	KindSpecialist:    {name: "Specialist", domain: domainRecord, ranges: localOnly},
	KindAchievement:   {name: "Achievement", domain: domainRecord, ranges: playerRanges},
	KindGood:          {name: "Good", domain: domainRecord, ranges: cityRanges},
	KindStyle:         {name: "Style", domain: domainRecord, ranges: []Range{RangePlayer}, exclusive: true},
	KindCounter:       {name: "Counter", domain: domainRecord, ranges: []Range{RangeCity}},
	KindAction:        {name: "Action", domain: domainRecord, ranges: localOnly, exclusive: true},
	KindDiplRel:       {name: "DiplRel", domain: domainEnum, enum: DiplRelNames, ranges: []Range{RangeLocal, RangePlayer, RangeTeam, RangeAlliance, RangeWorld}},
	KindCityTile:      {name: "CityTile", domain: domainEnum, enum: CityTileNames, ranges: tileRanges},
	KindCityStatus:    {name: "CityStatus", domain: domainEnum, enum: CityStatusNames, ranges: []Range{RangeCity, RangeTradeRoute}},
	KindMinSize:       {name: "MinSize", domain: domainNumber, ranges: cityRanges[:2]},
	KindMinYear:       {name: "MinYear", domain: domainNumber, ranges: []Range{RangeWorld}},
	KindMinMoveFrags:  {name: "MinMoveFrags", domain: domainNumber, ranges: localOnly, unitSubject: true},
	KindMinVeteran:    {name: "MinVeteranLevel", domain: domainNumber, ranges: localOnly, unitSubject: true},
	KindMinHitPoints:  {name: "MinHitPoints", domain: domainNumber, ranges: localOnly, unitSubject: true},
	KindMinTechs:      {name: "MinTechs", domain: domainNumber, ranges: []Range{RangePlayer, RangeWorld}},
	KindMinCulture:    {name: "MinCulture", domain: domainNumber, ranges: []Range{RangeCity, RangeTradeRoute, RangePlayer, RangeTeam, RangeAlliance, RangeWorld}},
	KindAge:           {name: "Age", domain: domainNumber, ranges: []Range{RangeLocal, RangeCity, RangePlayer}},
	KindMaxUnitsOnTile: {
		name: "MaxUnitsOnTile", domain: domainNumber, ranges: tileRanges[:3], maximum: true,
	},
}

func (k Kind) info() kindInfo {
	if k < 0 || k >= kindCount {
		return kindInfo{}
	}
	return kinds[k]
}

// String returns the name of the kind as used in ruleset files.
func (k Kind) String() string {
	if k == KindInvalid {
		return "(invalid)"
	}
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// Valid returns whether k is a usable kind. KindInvalid is not valid.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// IsRecord returns whether values of k are record ids in the catalog.
func (k Kind) IsRecord() bool {
	return k.info().domain == domainRecord
}

// IsFlag returns whether values of k are flag ids of some flag table.
func (k Kind) IsFlag() bool {
	return k.info().domain == domainFlag
}

// IsNumeric returns whether values of k are plain numbers compared against a
// threshold.
func (k Kind) IsNumeric() bool {
	return k.info().domain == domainNumber
}

// IsMaximum returns whether k is numeric and gives an upper bound.
func (k Kind) IsMaximum() bool {
	return k.info().maximum
}

// Exclusive returns whether two different values of k can never both be
// present at the same range.
func (k Kind) Exclusive() bool {
	return k.info().exclusive
}

// UnitSubject returns whether at Local range k describes the acting unit
// itself.
func (k Kind) UnitSubject() bool {
	return k.info().unitSubject
}

// EnumNames returns the value names of an enum kind, or nil if k is not an
// enum kind.
func (k Kind) EnumNames() []string {
	return k.info().enum
}

// DefaultRange is the range used when a ruleset does not give one.
func (k Kind) DefaultRange() Range {
	rs := k.info().ranges
	if len(rs) == 0 {
		return RangeLocal
	}
	return rs[0]
}

// ValidRange returns whether requirements of kind k may be evaluated at
// range r.
func (k Kind) ValidRange(r Range) bool {
	for _, vr := range k.info().ranges {
		if vr == r {
			return true
		}
	}
	return false
}

// KindByName returns the Kind with the given ruleset name. Case is ignored.
// A few long-form aliases are accepted alongside the short names.
func KindByName(name string) (Kind, bool) {
	for i := range kinds {
		if strings.EqualFold(kinds[i].name, name) {
			return Kind(i), true
		}
	}
	switch strings.ToLower(name) {
	case "advance":
		return KindAdvance, true
	case "government":
		return KindGovernment, true
	case "minveteran":
		return KindMinVeteran, true
	}
	return KindInvalid, false
}

// Kinds returns every valid kind in order.
func Kinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}
