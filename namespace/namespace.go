// Package namespace holds the shell's live variables and substitutes
// {name} placeholders in query text.
//
// Values are tagged rather than free-form: the host adapter (the set
// command, result binding) decides whether a value is text, numeric, or
// opaque, and the substitution core only renders the tag.
package namespace

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bawdo/dbxshell/warehouse"
)

// Kind tags how a value renders into SQL text.
type Kind int

const (
	// Text renders single-quoted with embedded quotes doubled.
	Text Kind = iota
	// Numeric renders as a bare literal.
	Numeric
	// Opaque renders its plain representation, unquoted.
	Opaque
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Numeric:
		return "numeric"
	default:
		return "opaque"
	}
}

// Value is a tagged scalar bound to a name.
type Value struct {
	Kind Kind
	Repr string // raw representation before any quoting
}

// TextValue tags s as SQL text.
func TextValue(s string) Value {
	return Value{Kind: Text, Repr: s}
}

// NumericValue tags v as a bare SQL literal.
func NumericValue(v any) Value {
	return Value{Kind: Numeric, Repr: fmt.Sprint(v)}
}

// OpaqueValue tags repr as an already-rendered fragment.
func OpaqueValue(repr string) Value {
	return Value{Kind: Opaque, Repr: repr}
}

// SQL renders the value as a SQL literal fragment.
func (v Value) SQL() string {
	if v.Kind == Text {
		return "'" + strings.ReplaceAll(v.Repr, "'", "''") + "'"
	}
	return v.Repr
}

// Namespace is the live name → value environment of one shell session.
// Bound query results are kept alongside their scalar representation so
// the name resolves both for display and for substitution.
type Namespace struct {
	vals    map[string]Value
	results map[string]*warehouse.Result
}

// New returns an empty namespace.
func New() *Namespace {
	return &Namespace{
		vals:    make(map[string]Value),
		results: make(map[string]*warehouse.Result),
	}
}

// Set binds a scalar value to name, replacing any previous binding.
func (n *Namespace) Set(name string, v Value) {
	n.vals[name] = v
	delete(n.results, name)
}

// Lookup returns the scalar value bound to name.
func (n *Namespace) Lookup(name string) (Value, bool) {
	v, ok := n.vals[name]
	return v, ok
}

// Bind associates a query result with name. The name is always written,
// even for an empty result, so later references never find it unbound.
func (n *Namespace) Bind(name string, r *warehouse.Result) {
	n.results[name] = r
	n.vals[name] = OpaqueValue(fmt.Sprintf("[result: %d columns, %d rows]",
		len(r.Columns), r.Len()))
}

// Result returns the query result bound to name, if any.
func (n *Namespace) Result(name string) (*warehouse.Result, bool) {
	r, ok := n.results[name]
	return r, ok
}

// Names returns every bound name, sorted.
func (n *Namespace) Names() []string {
	names := make([]string, 0, len(n.vals))
	for name := range n.vals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Substitute replaces {name} placeholders with SQL literals from the
// namespace in one left-to-right pass. Names with no binding keep the
// literal placeholder text; substituted text is never rescanned.
func (n *Namespace) Substitute(query string) string {
	return placeholderPattern.ReplaceAllStringFunc(query, func(match string) string {
		name := match[1 : len(match)-1]
		v, ok := n.vals[name]
		if !ok {
			return match
		}
		return v.SQL()
	})
}
