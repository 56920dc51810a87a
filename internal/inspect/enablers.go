package inspect

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/command"
)

func (in *Inspector) enablers(action string) (string, error) {
	act := in.cat.Action(action)
	if act == nil {
		return "", command.Userf("There is no action named %q; try LIST ACTIONS", action)
	}

	ens := in.cat.EnablersFor(act.ID)
	if len(ens) == 0 {
		return fmt.Sprintf("Nothing enables %q.\n", act.Name), nil
	}

	var sb strings.Builder
	for i, e := range ens {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("#%d %s", e.ID, e.Origin))
		if e.Disabled {
			sb.WriteString(" (disabled)")
		}
		sb.WriteString("\n")
		sb.WriteString(in.describeVector(catalog.VectorName(catalog.VectorActor), e.Actor))
		sb.WriteString(in.describeVector(catalog.VectorName(catalog.VectorTarget), e.Target))
	}
	return sb.String(), nil
}
