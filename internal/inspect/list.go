package inspect

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/util"
)

const maxSectionWidth = 32

type named interface {
	Names() []string
	Len() int
}

func (in *Inspector) tableOf(kind string) named {
	c := in.cat
	switch kind {
	case "TECHS":
		return c.Techs
	case "BUILDINGS":
		return c.Buildings
	case "UNITCLASSES":
		return c.UnitClasses
	case "UNITS":
		return c.UnitTypes
	case "TERRAINS":
		return c.Terrains
	case "EXTRAS":
		return c.Extras
	case "GOVERNMENTS":
		return c.Governments
	case "NATIONS":
		return c.Nations
	case "ACTIONS":
		return c.Actions
	case "DISASTERS":
		return c.Disasters
	case "ACHIEVEMENTS":
		return c.Achievements
	case "COUNTERS":
		return c.Counters
	case "MULTIPLIERS":
		return c.Multipliers
	case "CLAUSES":
		return c.Clauses
	case "GOODS":
		return c.Goods
	case "MUSICSTYLES":
		return c.MusicStyles
	case "CITYSTYLES":
		return c.CityStyles
	case "SPECIALISTS":
		return c.Specialists
	default:
		return nil
	}
}

func (in *Inspector) list(kind string) (string, error) {
	switch kind {
	case "EFFECTS":
		return in.listEffects(), nil
	case "ACTIONS":
		return in.listActions(), nil
	}

	tbl := in.tableOf(kind)
	if tbl == nil {
		return "", fmt.Errorf("unknown kind %q", kind)
	}
	if tbl.Len() == 0 {
		return fmt.Sprintf("There are no %s.\n", strings.ToLower(kind)), nil
	}

	data := [][]string{{"ID", "Name"}}
	for id, name := range tbl.Names() {
		data = append(data, []string{fmt.Sprintf("%d", id), name})
	}
	return in.table(data), nil
}

func (in *Inspector) listActions() string {
	data := [][]string{{"ID", "Name", "Enablers", "Disabled"}}
	for _, act := range in.cat.Actions.All() {
		var active, disabled int
		for _, e := range in.cat.EnablersFor(act.ID) {
			if e.Disabled {
				disabled++
			} else {
				active++
			}
		}
		data = append(data, []string{fmt.Sprintf("%d", act.ID), act.Name, fmt.Sprintf("%d", active), fmt.Sprintf("%d", disabled)})
	}
	return in.table(data)
}

func (in *Inspector) listEffects() string {
	effs := in.cat.Effects()
	if len(effs) == 0 {
		return "There are no effects.\n"
	}

	data := [][]string{{"Section", "Type", "Value", "Reqs"}}
	for _, ef := range effs {
		data = append(data, []string{util.Truncate(ef.Origin, maxSectionWidth), ef.Type, fmt.Sprintf("%d", ef.Value), fmt.Sprintf("%d", len(ef.Reqs))})
	}
	return in.table(data)
}
