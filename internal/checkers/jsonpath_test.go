package checkers_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/agame/internal/checkers"
)

func TestJSONPathEquals_HappyPath(t *testing.T) {
	c := qt.New(t)

	doc := `{"phase":"ready","points":5,"buttons":[{"label":"+1 Point","enabled":true}]}`
	c.Assert(doc, checkers.JSONPathEquals("$.phase"), "ready")
	c.Assert(doc, checkers.JSONPathEquals("$.points"), float64(5))
	c.Assert([]byte(doc), checkers.JSONPathEquals("$.buttons[0].label"), "+1 Point")
	c.Assert(doc, checkers.JSONPathEquals("$.buttons[0].enabled"), true)
}

func TestJSONPathEquals_FailurePath(t *testing.T) {
	c := qt.New(t)

	checker := checkers.JSONPathEquals("$.phase")
	noop := func(string, any) {}

	c.Assert(checker.Check(`{"phase":"error"}`, []any{"ready"}, noop), qt.IsNotNil)
	c.Assert(checker.Check(`not json`, []any{"ready"}, noop), qt.IsNotNil)
	c.Assert(checker.Check(42, []any{"ready"}, noop), qt.IsNotNil)
	c.Assert(checkers.JSONPathEquals("$.missing").Check(`{"phase":"ready"}`, []any{"x"}, noop), qt.IsNotNil)
}
