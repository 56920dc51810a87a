package catalog

import "github.com/dekarrin/civrules/internal/req"

// Built-in flag names. User flags are appended after these in each table.
var (
	BuiltinUnitFlags = []string{
		"TradeRoute", "HelpWonder", "IgZOC", "NonMil", "IgTer", "OneAttack",
		"FieldUnit", "Marines", "PartialInvis", "Settlers", "Workers", "Diplomat",
		"Nuclear", "AddToCity", "Cities", "Capturer", "Capturable", "Paradropper",
		"Bombarder", "CanEscape", "Cant_Fortify", "GameLoss", "NoVeteran",
		"BeachLander", "Provoking", "Unique",
	}
	BuiltinUnitClassFlags = []string{
		"TerrainSpeed", "DamageSlows", "CanOccupyCity", "BuildAnywhere",
		"Unreachable", "CollectRansom", "ZOC", "CanFortify", "AttackNonNative",
		"KillCitizen", "HutFrighten",
	}
	BuiltinTerrainFlags = []string{
		"NoBarbs", "NoCities", "Starter", "CanHaveRiver", "UnsafeCoast",
		"FreshWater", "NotGenerated", "NoZoc", "Frozen",
	}
	BuiltinTechFlags = []string{
		"Bonus_Tech", "Bridge", "Build_Airborne", "Claim_Ocean",
		"Claim_Ocean_Limited",
	}
	BuiltinExtraFlags = []string{
		"NativeTile", "Refuel", "TerrChangeRemoves", "AutoOnCityCenter",
		"AlwaysOnCityCenter", "ConnectLand", "GlobalWarming", "NuclearWinter",
		"ShowFlag", "NaturalDefense", "NoStackDeath",
	}
)

// Names of the enumerated values some record fields take.
var (
	ExtraCategories  = []string{"Infra", "Natural", "Nuisance", "Resource"}
	DisasterEffects  = []string{"DestroyBuilding", "ReducePopulation", "EmptyFoodStock", "EmptyProdStock", "Pollution", "Fallout", "ReducePopDestroy"}
	AchievementTypes = []string{"Spaceship", "Map_Known", "Multicultural", "Cultured_City", "Cultured_Nation", "Lucky", "Huts", "Metropolis", "Literate", "Land_Ahoy"}
	CounterTypes     = []string{"Owned", "Celebration", "Disorder"}
	ClauseTypes      = []string{"Advance", "Gold", "Map", "Seamap", "City", "Ceasefire", "Peace", "Alliance", "Vision", "Embassy", "SharedTiles"}
	GoodsFlags       = []string{"Bidirectional", "Depletes", "Self-Provided"}
)

// Tech is an advance that players research.
type Tech struct {
	ID       ID
	Name     string
	Req1     ID
	Req2     ID
	RootReq  ID
	Research req.Vector
	Flags    FlagSet
	Cost     int
	Graphic  string
	Helptext string
}

// Building is a city improvement or wonder.
type Building struct {
	ID         ID
	Name       string
	Genus      int
	Reqs       req.Vector
	ObsoleteBy req.Vector
	BuildCost  int
	Upkeep     int
	Sabotage   int
	Graphic    string
}

// UnitClass is a group of unit types that share movement rules.
type UnitClass struct {
	ID        ID
	Name      string
	Flags     FlagSet
	MinSpeed  int
	HPLossPct int
}

// UnitType is a kind of unit that can be built.
type UnitType struct {
	ID          ID
	Name        string
	Class       ID
	TechReq     ID
	ObsoletedBy ID
	BuildReqs   req.Vector
	Flags       FlagSet
	BuildCost   int
	Attack      int
	Defense     int
	HP          int
	Firepower   int
	MoveRate    int
	VisionSq    int
}

// Terrain is a type of map tile.
type Terrain struct {
	ID          ID
	Name        string
	Class       int
	Flags       FlagSet
	MoveCost    int
	Defense     int
	Food        int
	Shield      int
	Trade       int
	TransformTo ID
}

// Extra is something that can exist on a tile in addition to its terrain,
// such as a road, a river or a resource.
type Extra struct {
	ID       ID
	Name     string
	Category int
	Reqs     req.Vector
	RmReqs   req.Vector
	Flags    FlagSet
}

// Government is a form of government a player may choose.
type Government struct {
	ID          ID
	Name        string
	Reqs        req.Vector
	RulerMale   string
	RulerFemale string
}

// Nation is a nation players may play as.
type Nation struct {
	ID               ID
	Name             string
	Plural           string
	Legend           string
	InitGovernment   ID
	Style            ID
	PreferredTerrain []ID
	InitUnits        []ID
}

// Disaster is a random event that may strike cities.
type Disaster struct {
	ID        ID
	Name      string
	Reqs      req.Vector
	Frequency int
	Effects   []int
}

// Achievement is a milestone players can reach.
type Achievement struct {
	ID       ID
	Name     string
	Type     int
	Value    int
	Unique   bool
	Culture  int
	FirstMsg string
	CantMsg  string
}

// Counter is a per-city counter.
type Counter struct {
	ID         ID
	Name       string
	Type       int
	Checkpoint int
	Default    int
}

// Multiplier is a policy value players can adjust.
type Multiplier struct {
	ID      ID
	Name    string
	Start   int
	Stop    int
	Step    int
	Default int
	Offset  int
	Factor  int
	Reqs    req.Vector
}

// Clause is a kind of diplomatic treaty clause. Each clause type appears at
// most once.
type Clause struct {
	ID           ID
	Name         string
	Type         int
	GiverReqs    req.Vector
	ReceiverReqs req.Vector
	EitherReqs   req.Vector
}

// Goods are what trade routes carry.
type Goods struct {
	ID         ID
	Name       string
	Reqs       req.Vector
	FromPct    int
	ToPct      int
	OneTimePct int
	Flags      []int
}

// MusicStyle selects music to play.
type MusicStyle struct {
	ID       ID
	Name     string
	Reqs     req.Vector
	Peaceful string
	Combat   string
}

// CityStyle selects how cities look.
type CityStyle struct {
	ID         ID
	Name       string
	Reqs       req.Vector
	Graphic    string
	GraphicAlt string
}

// Specialist is a kind of citizen that does not work a tile.
type Specialist struct {
	ID        ID
	Name      string
	ShortName string
	Reqs      req.Vector
	Graphic   string
}

// About holds the descriptive information of a ruleset.
type About struct {
	Name        string
	Version     string
	Summary     string
	Description string
}

// VectorOwner is a record with at least one requirement vector that the
// sanity sweep examines.
type VectorOwner struct {
	What    string
	Name    string
	VecName string
	Vec     *req.Vector
}
