package command

import (
	"strings"
)

// VerbAliases maps shorthand verbs (which must be the first words in a
// command) to their canonical forms. They are all uppercase.
var VerbAliases = map[string]string{
	"?":        "HELP",
	"H":        "HELP",
	"-H":       "HELP",
	"/?":       "HELP",
	"INFO":     "SUMMARY",
	"STATS":    "SUMMARY",
	"LS":       "LIST",
	"DESCRIBE": "SHOW",
	"DESC":     "SHOW",
	"LOOK AT":  "SHOW",
	"WHO CAN":  "ENABLERS",
	"ISSUES":   "PROBLEMS",
	"WARN":     "WARNINGS",
	"SHOW ALL": "LIST",
	"BYE":      "QUIT",
	"EXIT":     "QUIT",
	"Q":        "QUIT",
}

// Parse parses a command from the given text. If it cannot, a non-nil error is
// returned whose UserMessage explains what was wrong.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func Parse(toParse string) (Command, error) {
	var cmd Command

	// names keep their case; everything else is matched uppercase
	casedTokens := strings.Fields(toParse)
	originalTokens := strings.Fields(strings.ToUpper(toParse))

	tokens, consumed := expandAliases(originalTokens, 2)
	if len(tokens) < 1 {
		return cmd, nil
	}

	// cased lines up with tokens
	produced := len(tokens) - (len(originalTokens) - consumed)
	cased := append(append([]string{}, tokens[:produced]...), casedTokens[consumed:]...)

	cmd.Verb = tokens[0]

	switch cmd.Verb {
	case "HELP":
		if len(tokens) > 2 {
			return cmd, Userf("HELP takes at most one verb to explain")
		}
		if len(tokens) == 2 {
			verb := tokens[1]
			if expanded := ExpandAliases(tokens[1:], 1); len(expanded) > 0 {
				verb = expanded[0]
			}
			if _, ok := Verbs[verb]; !ok {
				return cmd, Userf("There is no %s command to explain", tokens[1])
			}
			cmd.Kind = verb
		}
	case "LIST":
		if len(tokens) < 2 {
			return cmd, Userf("I don't know what kind of record you want listed")
		}
		if len(tokens) > 2 {
			return cmd, Userf("LIST takes only a kind of record, like LIST UNITS")
		}
		kind, err := parseKind(tokens[1])
		if err != nil {
			return cmd, err
		}
		cmd.Kind = kind
	case "SHOW":
		if len(tokens) < 2 {
			return cmd, Userf("I don't know what you want shown")
		}
		kind, err := parseKind(tokens[1])
		if err != nil {
			return cmd, err
		}
		if len(tokens) < 3 {
			return cmd, Userf("I don't know which of the %s you want shown", strings.ToLower(kind))
		}
		cmd.Kind = kind
		cmd.Name = strings.Join(cased[2:], " ")
	case "ENABLERS":
		if len(tokens) > 1 && tokens[1] == "FOR" {
			cased = append(cased[:1], cased[2:]...)
			tokens = append(tokens[:1], tokens[2:]...)
		}
		if len(tokens) < 2 {
			return cmd, Userf("I don't know which action you want the enablers of")
		}
		cmd.Kind = "ACTIONS"
		cmd.Name = strings.Join(cased[1:], " ")
	case "WARNINGS":
		if len(tokens) > 2 {
			return cmd, Userf("WARNINGS takes at most one category")
		}
		if len(tokens) == 2 {
			cmd.Kind = strings.ToLower(tokens[1])
		}
	case "SUMMARY", "PROBLEMS", "QUIT":
		if len(tokens) > 1 {
			errMsg := "You can't %s *something*; type %s by itself"
			return cmd, Userf(errMsg, originalTokens[0], originalTokens[0])
		}
	default:
		return cmd, Userf("I don't know what you mean by %q", casedTokens[0])
	}

	return cmd, nil
}

func parseKind(tok string) (string, error) {
	if kind, ok := KindAliases[tok]; ok {
		return kind, nil
	}
	for _, k := range Kinds {
		if k == tok {
			return k, nil
		}
	}
	return "", Userf("%q is not a kind of record; try one of %s", strings.ToLower(tok), strings.ToLower(strings.Join(Kinds, ", ")))
}

// ExpandAliases takes a slice of tokens of user input and runs alias expansion
// on it. It expects all strings in the given slice to be upper case; failure to
// ensure this may cause the expansion to not work properly. The returned slice
// contains the same tokens but with aliases expanded.
//
// The unexpanded tokens slice is not modified during this operation.
//
// Aliases up to aliasLimit words long are supported. If it is less than 1,
// the given tokens will be returned unchanged. Aliases are not expanded again
// after being expanded once.
func ExpandAliases(tokens []string, aliasLimit int) []string {
	expanded, _ := expandAliases(tokens, aliasLimit)
	return expanded
}

// expandAliases is ExpandAliases but also gives the number of tokens the
// expanded alias replaced.
func expandAliases(tokens []string, aliasLimit int) ([]string, int) {
	expandedTokens := append([]string{}, tokens...)
	if aliasLimit < 1 {
		return expandedTokens, 0
	}

	if aliasLimit > len(tokens) {
		aliasLimit = len(tokens)
	}

	// longest alias wins, so "SHOW ALL" beats "SHOW"
	for curLimit := aliasLimit; curLimit >= 1; curLimit-- {
		checkStr := strings.Join(tokens[:curLimit], " ")
		if expansion, ok := VerbAliases[checkStr]; ok {
			replacementTokens := strings.Fields(expansion)
			return append(replacementTokens, tokens[curLimit:]...), curLimit
		}
	}

	return expandedTokens, 0
}
