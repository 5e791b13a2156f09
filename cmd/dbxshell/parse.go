package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bawdo/dbxshell/namespace"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// parseSQLArgs handles the block command's argument line:
// [-q|--no-display] [var_name], in any order.
func parseSQLArgs(args string) (varName string, noDisplay bool, err error) {
	varName = defaultVar
	seenName := false
	for _, tok := range strings.Fields(args) {
		switch tok {
		case "-q", "--no-display":
			noDisplay = true
		default:
			if seenName {
				return "", false, fmt.Errorf("unexpected argument %q", tok)
			}
			if !identPattern.MatchString(tok) {
				return "", false, fmt.Errorf("invalid variable name %q", tok)
			}
			varName = tok
			seenName = true
		}
	}
	return varName, noDisplay, nil
}

// splitAssignment recognizes the optional "name =" prefix of the line
// command. The prefix counts only when the text before the first '=' is
// a lone identifier, so comparisons inside query text never trigger it.
func splitAssignment(line string) (string, string) {
	if idx := strings.Index(line, "="); idx > 0 {
		candidate := strings.TrimSpace(line[:idx])
		if identPattern.MatchString(candidate) {
			return candidate, strings.TrimSpace(line[idx+1:])
		}
	}
	return defaultVar, strings.TrimSpace(line)
}

// classifyValue decides the tagged kind of a set-command value: quoted
// text keeps its content as text, anything that parses as a number is
// numeric, everything else is text.
func classifyValue(raw string) namespace.Value {
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') ||
			(raw[0] == '"' && raw[len(raw)-1] == '"') {
			return namespace.TextValue(raw[1 : len(raw)-1])
		}
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return namespace.NumericValue(raw)
	}
	return namespace.TextValue(raw)
}
