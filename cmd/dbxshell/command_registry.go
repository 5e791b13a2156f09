package main

import (
	"errors"
	"sort"
	"strings"
)

// commandEntry maps a shell prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- query execution ---
		{prefix: "sqlline ", handler: func(a string) error { return s.cmdSQLLine(a) }},
		{prefix: "sqlline", handler: func(_ string) error { return errors.New("usage: sqlline [name =] <query>") }},
		{prefix: "sql ", handler: func(a string) error { return s.cmdSQL(a) }},
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL("") }},

		// --- configuration / diagnostics ---
		{prefix: "config ", handler: func(a string) error { return s.cmdConfig(a) }},
		{prefix: "config", handler: func(_ string) error { return s.cmdConfig("") }},

		// --- namespace ---
		{prefix: "set ", handler: func(a string) error { return s.cmdSet(a) }},
		{prefix: "vars", handler: func(_ string) error { return s.cmdVars() }},
		{prefix: "show ", handler: func(a string) error { return s.cmdShow(a) }, completer: completeVarArgs},
		{prefix: "show", handler: func(_ string) error { return errors.New("usage: show <name>") }},

		// --- connection lifecycle ---
		{prefix: "close", handler: func(_ string) error { return s.cmdClose() }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdClose() }, hidden: true},

		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.Slice(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the shell loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// completeVarArgs completes the show command's argument with bound
// variable names.
func completeVarArgs(args string) (completionContext, string) {
	return contextVarName, strings.TrimSpace(args)
}
