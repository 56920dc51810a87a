// Package command defines the commands of the ruleset inspector and handles
// parsing them from input sources.
package command

// Command is a valid command received from an inspector input source.
type Command struct {

	// Verb is the canonical name of the command being invoked, such as
	// "LIST", "SHOW", or "QUIT". Some verbs have shorthand forms which are
	// typed differently; "LS" could be typed instead of "LIST", and the
	// resulting Command would still have a verb of LIST.
	Verb string

	// Kind is the kind of record the command is about, such as "TECHS" or
	// "UNITS". It is always one of Kinds. For HELP it is instead the verb that
	// help is wanted for, and for WARNINGS the category to show.
	Kind string

	// Name is the name of the record the command is about, in the case it was
	// typed in. For ENABLERS it is the name of the action.
	Name string
}

// Kinds are the kinds of record that can be listed and shown, in the order
// they are shown to the user.
var Kinds = []string{
	"TECHS",
	"BUILDINGS",
	"UNITCLASSES",
	"UNITS",
	"TERRAINS",
	"EXTRAS",
	"GOVERNMENTS",
	"NATIONS",
	"ACTIONS",
	"EFFECTS",
	"DISASTERS",
	"ACHIEVEMENTS",
	"COUNTERS",
	"MULTIPLIERS",
	"CLAUSES",
	"GOODS",
	"MUSICSTYLES",
	"CITYSTYLES",
	"SPECIALISTS",
}

// KindAliases maps other ways of typing a kind to the kind. They are all
// uppercase.
var KindAliases = map[string]string{
	"TECH":        "TECHS",
	"ADVANCE":     "TECHS",
	"ADVANCES":    "TECHS",
	"BUILDING":    "BUILDINGS",
	"IMPROVEMENT": "BUILDINGS",
	"CLASS":       "UNITCLASSES",
	"CLASSES":     "UNITCLASSES",
	"UNITCLASS":   "UNITCLASSES",
	"UNIT":        "UNITS",
	"TERRAIN":     "TERRAINS",
	"EXTRA":       "EXTRAS",
	"GOVERNMENT":  "GOVERNMENTS",
	"GOV":         "GOVERNMENTS",
	"NATION":      "NATIONS",
	"ACTION":      "ACTIONS",
	"EFFECT":      "EFFECTS",
	"DISASTER":    "DISASTERS",
	"ACHIEVEMENT": "ACHIEVEMENTS",
	"COUNTER":     "COUNTERS",
	"MULTIPLIER":  "MULTIPLIERS",
	"POLICY":      "MULTIPLIERS",
	"POLICIES":    "MULTIPLIERS",
	"CLAUSE":      "CLAUSES",
	"GOOD":        "GOODS",
	"MUSICSTYLE":  "MUSICSTYLES",
	"MUSIC":       "MUSICSTYLES",
	"CITYSTYLE":   "CITYSTYLES",
	"SPECIALIST":  "SPECIALISTS",
}

// Usage describes how to use a verb.
type Usage struct {
	Syntax  string
	Summary string
	Example string
}

// Verbs are the canonical verbs the inspector understands, along with how to
// use each.
var Verbs = map[string]Usage{
	"HELP":     {Syntax: "HELP [VERB]", Summary: "shows the commands, or how to use one of them", Example: "HELP SHOW"},
	"SUMMARY":  {Syntax: "SUMMARY", Summary: "shows the name, format and record counts of the ruleset"},
	"LIST":     {Syntax: "LIST KIND", Summary: "lists every record of a kind", Example: "LIST UNITS"},
	"SHOW":     {Syntax: "SHOW KIND NAME", Summary: "shows the details of one record", Example: "SHOW UNIT Warriors"},
	"ENABLERS": {Syntax: "ENABLERS ACTION", Summary: "shows every enabler of an action", Example: "ENABLERS Fortify"},
	"PROBLEMS": {Syntax: "PROBLEMS", Summary: "shows what is still wrong with the requirements of the ruleset"},
	"WARNINGS": {Syntax: "WARNINGS [CATEGORY]", Summary: "shows the warnings given while the ruleset was loaded", Example: "WARNINGS REPAIR"},
	"QUIT":     {Syntax: "QUIT", Summary: "leaves the inspector"},
}
