package main

import (
	"testing"

	"github.com/bawdo/dbxshell/config"
	"github.com/bawdo/dbxshell/namespace"
)

func newTestCompleter(vars ...string) *shellCompleter {
	sess := NewSession(config.Config{}, &fakeRunner{}, nil)
	for _, v := range vars {
		sess.ns.Set(v, namespace.NumericValue(1))
	}
	return &shellCompleter{sess: sess}
}

func TestCompleteCommandPrefix(t *testing.T) {
	c := newTestCompleter()
	ctx, prefix := c.parseContext("sq")
	if ctx != contextCommand || prefix != "sq" {
		t.Fatalf("expected command context with prefix 'sq', got %v %q", ctx, prefix)
	}
	candidates := filterPrefix(c.sess.commandNames(), prefix)
	found := map[string]bool{}
	for _, cand := range candidates {
		found[cand] = true
	}
	for _, want := range []string{"sql", "sqlline"} {
		if !found[want] {
			t.Errorf("expected %q in candidates: %v", want, candidates)
		}
	}
}

func TestCompleteVarNamesAfterShow(t *testing.T) {
	c := newTestCompleter("users", "uid", "total")
	ctx, prefix := c.parseContext("show u")
	if ctx != contextVarName || prefix != "u" {
		t.Fatalf("expected var context with prefix 'u', got %v %q", ctx, prefix)
	}
	candidates := filterPrefix(c.sess.ns.Names(), prefix)
	if len(candidates) != 2 || candidates[0] != "uid" || candidates[1] != "users" {
		t.Errorf("expected [uid users], got %v", candidates)
	}
}

func TestCompleteNothingMidCommand(t *testing.T) {
	c := newTestCompleter()
	newLine, _ := c.Do([]rune("set x "), 6)
	if len(newLine) != 0 {
		t.Errorf("no candidates expected mid-command, got %d", len(newLine))
	}
}

func TestDoAppendsSuffixes(t *testing.T) {
	c := newTestCompleter()
	newLine, length := c.Do([]rune("he"), 2)
	if length != 2 {
		t.Errorf("expected prefix length 2, got %d", length)
	}
	if len(newLine) != 1 || string(newLine[0]) != "lp " {
		t.Errorf("expected single completion 'lp ', got %v", newLine)
	}
}
