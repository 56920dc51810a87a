// Package inspect answers the commands of the ruleset inspector about a
// loaded ruleset.
package inspect

import (
	"fmt"
	"strings"

	"github.com/dekarrin/civrules/internal/catalog"
	"github.com/dekarrin/civrules/internal/command"
	"github.com/dekarrin/civrules/internal/enabler"
	"github.com/dekarrin/civrules/internal/report"
	"github.com/dekarrin/civrules/internal/util"
	"github.com/dekarrin/rosed"
)

var tableOpts = rosed.Options{
	TableHeaders:             true,
	NoTrailingLineSeparators: true,
}

// Inspector executes inspector commands against a single loaded ruleset.
//
// Inspector should not be created directly; use New.
type Inspector struct {
	cat   *catalog.Catalog
	rep   *report.Report
	ch    *enabler.Checker
	width int
}

// New creates an Inspector for the given catalog and the report of its load.
// Output is laid out for the given width; if it is not positive,
// report.DefaultWidth is used.
func New(c *catalog.Catalog, rep *report.Report, width int) *Inspector {
	if width <= 0 {
		width = report.DefaultWidth
	}
	return &Inspector{
		cat:   c,
		rep:   rep,
		ch:    enabler.NewChecker(c),
		width: width,
	}
}

// Completions returns the words the inspector offers for tab completion,
// keyed by the verb they may follow.
func Completions() map[string][]string {
	comps := map[string][]string{}
	for verb := range command.Verbs {
		comps[verb] = nil
	}
	comps["LIST"] = command.Kinds
	comps["SHOW"] = command.Kinds
	comps["HELP"] = util.OrderedKeys(command.Verbs)

	var cats []string
	for _, c := range report.Categories() {
		cats = append(cats, strings.ToUpper(string(c)))
	}
	comps["WARNINGS"] = cats
	return comps
}

// Execute runs cmd and returns the text to show the user. Errors about input
// that names something which does not exist carry a message for the user;
// see command.UserMessage.
//
// QUIT does nothing here and gives no output; ending the session is up to
// the caller.
func (in *Inspector) Execute(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "HELP":
		return in.help(cmd.Kind), nil
	case "SUMMARY":
		return in.summary(), nil
	case "LIST":
		return in.list(cmd.Kind)
	case "SHOW":
		return in.show(cmd.Kind, cmd.Name)
	case "ENABLERS":
		return in.enablers(cmd.Name)
	case "PROBLEMS":
		return in.problems(), nil
	case "WARNINGS":
		return in.warnings(cmd.Kind)
	case "QUIT":
		return "", nil
	default:
		return "", fmt.Errorf("unknown verb %q", cmd.Verb)
	}
}

func (in *Inspector) table(data [][]string) string {
	return rosed.Edit("").InsertTableOpts(0, data, in.width, tableOpts).String() + "\n"
}

func (in *Inspector) wrap(s string) string {
	return rosed.Edit(s).Wrap(in.width).String() + "\n"
}

func (in *Inspector) help(verb string) string {
	if verb != "" {
		u := command.Verbs[verb]
		text := fmt.Sprintf("%s %s.", u.Syntax, u.Summary)
		if u.Example != "" {
			text += fmt.Sprintf(" For example: %s", u.Example)
		}
		return in.wrap(text)
	}

	data := [][]string{{"Command", "Description"}}
	for _, v := range util.OrderedKeys(command.Verbs) {
		u := command.Verbs[v]
		data = append(data, []string{u.Syntax, u.Summary})
	}
	return in.table(data) + in.wrap("Kinds of record: "+strings.ToLower(strings.Join(command.Kinds, ", ")))
}

func (in *Inspector) summary() string {
	name := in.rep.Ruleset
	if name == "" {
		name = "(unnamed)"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ruleset:     %s\n", name))
	if in.cat.About.Version != "" {
		sb.WriteString(fmt.Sprintf("Version:     %s\n", in.cat.About.Version))
	}
	sb.WriteString(fmt.Sprintf("Format:      %d\n", in.rep.Version))
	sb.WriteString(fmt.Sprintf("Fingerprint: %s\n", in.rep.Fingerprint))
	if in.cat.About.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(in.wrap(in.cat.About.Summary))
	}
	sb.WriteString("\n")
	sb.WriteString(in.rep.CountsTable(in.width))
	sb.WriteString("\n")

	if n := len(in.rep.Warnings); n > 0 {
		sb.WriteString(fmt.Sprintf("\n%d warning(s); type WARNINGS to see them.\n", n))
	} else {
		sb.WriteString("\nNo warnings.\n")
	}
	return sb.String()
}

func (in *Inspector) warnings(cat string) (string, error) {
	var cats []report.Category
	if cat != "" {
		c, err := report.ParseCategory(cat)
		if err != nil {
			var names []string
			for _, c := range report.Categories() {
				names = append(names, string(c))
			}
			return "", command.WrapUserf(err, "%q is not a category of warning; try one of %s", cat, util.MakeTextList(names))
		}
		cats = append(cats, c)
	}

	out := in.rep.RenderWarnings(in.width, cats...)
	if out == "" {
		return "No warnings.\n", nil
	}
	return out, nil
}
