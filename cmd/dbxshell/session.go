package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ergochat/readline"

	"github.com/bawdo/dbxshell/config"
	"github.com/bawdo/dbxshell/namespace"
	"github.com/bawdo/dbxshell/warehouse"
)

// defaultVar is the bind target when the user names none.
const defaultVar = "_last"

// displayLimit caps how many rows auto-display renders.
const displayLimit = 10

// queryRunner is the slice of the connection manager the shell drives.
type queryRunner interface {
	ExecuteQuery(ctx context.Context, query string) (*warehouse.Result, error)
	TestConnection(ctx context.Context) bool
	Close() error
}

// Session holds the shell state: the variable namespace, the connection
// manager, the command registry, and the readline instance.
type Session struct {
	cfg      config.Config
	ns       *namespace.Namespace
	runner   queryRunner
	commands []commandEntry // command registry (sorted by prefix length desc)
	rl       *readline.Instance
	out      io.Writer // destination for shell output (default os.Stdout)

	// readBodyLine supplies continuation lines for the block command.
	readBodyLine func() (string, error)
}

// NewSession creates a shell session over the given connection manager.
func NewSession(cfg config.Config, runner queryRunner, rl *readline.Instance) *Session {
	s := &Session{
		cfg:    cfg,
		ns:     namespace.New(),
		runner: runner,
		rl:     rl,
		out:    os.Stdout,
	}
	s.readBodyLine = s.promptBodyLine
	s.initCommands()
	return s
}

// Execute parses and runs a single shell command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(line[len(cmd.prefix):])
			}
		} else {
			if lower == cmd.prefix {
				return cmd.handler("")
			}
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// --- Query commands ---

// cmdSQL is the block form: the argument line carries flags and an
// optional target name, the query body follows on subsequent lines.
func (s *Session) cmdSQL(args string) error {
	varName, noDisplay, err := parseSQLArgs(args)
	if err != nil {
		return err
	}
	body, err := s.readQueryBody()
	if err != nil {
		return err
	}
	if body == "" {
		return errors.New("empty query")
	}
	s.runQuery(varName, body, !noDisplay)
	return nil
}

// cmdSQLLine is the single-line form with an optional "name =" prefix.
func (s *Session) cmdSQLLine(args string) error {
	varName, query := splitAssignment(args)
	if query == "" {
		return errors.New("usage: sqlline [name =] <query>")
	}
	s.runQuery(varName, query, true)
	return nil
}

// runQuery substitutes placeholders, executes, and binds. The target
// name is always written afterward: a failed query is rendered to the
// user and bound as an empty result so later references resolve.
func (s *Session) runQuery(name, query string, display bool) {
	query = s.ns.Substitute(strings.TrimSpace(query))

	start := time.Now()
	res, err := s.runner.ExecuteQuery(context.Background(), query)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		s.ns.Bind(name, warehouse.Empty())
		return
	}

	s.ns.Bind(name, res)
	fmt.Fprintf(s.out, "Query completed in %.2fs (%d rows)\n", elapsed.Seconds(), res.Len())
	if display && res.Len() > 0 {
		fmt.Fprint(s.out, res.Format(displayLimit))
	}
}

// readQueryBody collects the block command's query text. A lone ';', a
// blank line, or EOF terminates; a trailing ';' on a content line also
// terminates.
func (s *Session) readQueryBody() (string, error) {
	var lines []string
	for {
		line, err := s.readBodyLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == ";" {
			break
		}
		if strings.HasSuffix(trimmed, ";") {
			lines = append(lines, strings.TrimSuffix(trimmed, ";"))
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func (s *Session) promptBodyLine() (string, error) {
	if s.rl == nil {
		return "", io.EOF
	}
	s.rl.SetPrompt("  ...> ")
	defer s.rl.SetPrompt(mainPrompt)
	return s.rl.ReadLine()
}

// --- Status and namespace commands ---

func (s *Session) cmdConfig(args string) error {
	if strings.Contains(args, "--show-auth") {
		ctx := context.Background()
		if !s.runner.TestConnection(ctx) {
			return nil
		}
		if _, err := s.runner.ExecuteQuery(ctx, "SELECT 1"); err != nil {
			fmt.Fprintf(s.out, "SQL warehouse connection failed: %v\n", err)
			return nil
		}
		fmt.Fprintln(s.out, "SQL warehouse connection successful")
		return nil
	}
	fmt.Fprintln(s.out, "Current configuration:")
	s.cfg.Describe(s.out)
	return nil
}

func (s *Session) cmdSet(args string) error {
	name, raw, ok := strings.Cut(strings.TrimSpace(args), " ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return errors.New("usage: set <name> <value>")
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	v := classifyValue(raw)
	s.ns.Set(name, v)
	fmt.Fprintf(s.out, "  %s = %s (%s)\n", name, v.Repr, v.Kind)
	return nil
}

func (s *Session) cmdVars() error {
	names := s.ns.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "  (no variables)")
		return nil
	}
	for _, name := range names {
		if r, ok := s.ns.Result(name); ok {
			fmt.Fprintf(s.out, "  %s: result (%d columns, %d rows)\n",
				name, len(r.Columns), r.Len())
			continue
		}
		v, _ := s.ns.Lookup(name)
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, v.Kind, v.Repr)
	}
	return nil
}

func (s *Session) cmdShow(args string) error {
	name := strings.TrimSpace(args)
	if name == "" {
		return errors.New("usage: show <name>")
	}
	if r, ok := s.ns.Result(name); ok {
		fmt.Fprint(s.out, r.Format(displayLimit))
		return nil
	}
	if v, ok := s.ns.Lookup(name); ok {
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, v.Kind, v.Repr)
		return nil
	}
	return fmt.Errorf("no variable %q", name)
}

func (s *Session) cmdClose() error {
	if err := s.runner.Close(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "  Connection closed")
	return nil
}

func (s *Session) cmdHelp() {
	fmt.Fprint(s.out, `Commands:
  sql [-q|--no-display] [var]   multi-line query; end with ';' or a blank line
  sqlline [var =] <query>       single-line query
  config [--show-auth]          show configuration / check authentication
  set <name> <value>            bind a scalar variable ({name} in queries)
  vars                          list bound variables
  show <name>                   re-display a bound variable or result
  close                         release the warehouse connection
  help                          this help
  exit | quit                   leave the shell
`)
}
