package ruleset

import (
	"fmt"
	"path/filepath"

	"github.com/dekarrin/civrules/internal/secfile"
)

// Names of the files a ruleset is made of.
const (
	FileGame        = "game.toml"
	FileTechs       = "techs.toml"
	FileBuildings   = "buildings.toml"
	FileUnits       = "units.toml"
	FileTerrain     = "terrain.toml"
	FileGovernments = "governments.toml"
	FileNations     = "nations.toml"
	FileCities      = "cities.toml"
	FileStyles      = "styles.toml"
	FileEffects     = "effects.toml"
)

// Files returns the name of every ruleset file. The game file comes first,
// and is the one the format versions of the others are compared against.
func Files() []string {
	return []string{
		FileGame,
		FileTechs,
		FileBuildings,
		FileUnits,
		FileTerrain,
		FileGovernments,
		FileNations,
		FileCities,
		FileStyles,
		FileEffects,
	}
}

// Section name prefixes of each kind of record.
const (
	prefixTech        = "advance_"
	prefixBuilding    = "building_"
	prefixUnitClass   = "unitclass_"
	prefixUnitType    = "unit_"
	prefixTerrain     = "terrain_"
	prefixExtra       = "extra_"
	prefixGovernment  = "government_"
	prefixNation      = "nation_"
	prefixSpecialist  = "specialist_"
	prefixCityStyle   = "citystyle_"
	prefixMusicStyle  = "musicstyle_"
	prefixAction      = "action_"
	prefixEnabler     = "enabler_"
	prefixDisaster    = "disaster_"
	prefixAchievement = "achievement_"
	prefixCounter     = "counter_"
	prefixMultiplier  = "multiplier_"
	prefixClause      = "clause_"
	prefixGoods       = "goods_"
	prefixEffect      = "effect_"
)

// fileSet is the open files of one ruleset.
type fileSet struct {
	dir   string
	files map[string]*secfile.File
}

func openFiles(dir string) (*fileSet, error) {
	fs := &fileSet{dir: dir, files: map[string]*secfile.File{}}
	for _, name := range Files() {
		f, err := secfile.Load(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("opening ruleset file: %w", err)
		}
		fs.files[name] = f
	}
	return fs, nil
}

func (fs *fileSet) get(name string) *secfile.File {
	return fs.files[name]
}

// all returns every file in the order of Files.
func (fs *fileSet) all() []*secfile.File {
	var all []*secfile.File
	for _, name := range Files() {
		all = append(all, fs.files[name])
	}
	return all
}
