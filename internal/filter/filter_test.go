package filter

import (
	"encoding/json"
	"testing"
)

func parseJSON(t *testing.T, js string) map[string]any {
	t.Helper()
	var tree map[string]any
	if err := json.Unmarshal([]byte(js), &tree); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return tree
}

func TestTranslateEquality(t *testing.T) {
	tree := parseJSON(t, `{"brand":{"$eq":"Pear"}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(json_extract(metadata,'$.brand') = 'Pear')"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestTranslateShorthandEquality(t *testing.T) {
	tree := parseJSON(t, `{"brand":"Pear"}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(json_extract(metadata,'$.brand') = 'Pear')"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestTranslateNestedPath(t *testing.T) {
	tree := parseJSON(t, `{"address":{"city":"NYC"}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(json_extract(metadata,'$.address.city') = 'NYC')"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestTranslateEmptyInIsAlwaysFalse(t *testing.T) {
	tree := parseJSON(t, `{"tags":{"$in":[]}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sql != "(1=0)" {
		t.Errorf("got %q, want (1=0)", sql)
	}
}

func TestTranslateEmptyNinIsAlwaysTrue(t *testing.T) {
	tree := parseJSON(t, `{"tags":{"$nin":[]}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if sql != "(1=1)" {
		t.Errorf("got %q, want (1=1)", sql)
	}
}

func TestTranslateInNumericUsesJSONEach(t *testing.T) {
	tree := parseJSON(t, `{"tags":{"$in":[3]}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(EXISTS (SELECT 1 FROM json_each(json_extract(metadata,'$.tags')) WHERE value = 3))"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestTranslateExists(t *testing.T) {
	tree := parseJSON(t, `{"tags":{"$exists":true}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(json_extract(metadata,'$.tags') IS NOT NULL)"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestTranslateUnknownOperatorIgnored(t *testing.T) {
	tree := parseJSON(t, `{"brand":{"$unknown":"x"},"age":{"$gt":5}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(json_extract(metadata,'$.age') > 5)"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}

func TestTranslateSiblingsAND(t *testing.T) {
	tree := parseJSON(t, `{"brand":"Pear","age":{"$gte":18}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	// Map iteration order is randomized, so check both orderings.
	a := "(json_extract(metadata,'$.brand') = 'Pear') AND (json_extract(metadata,'$.age') >= 18)"
	b := "(json_extract(metadata,'$.age') >= 18) AND (json_extract(metadata,'$.brand') = 'Pear')"
	if sql != a && sql != b {
		t.Errorf("got %q, want %q or %q", sql, a, b)
	}
}

func TestSQLEscaping(t *testing.T) {
	tree := parseJSON(t, `{"name":{"$eq":"O'Brien"}}`)
	node, err := Parse(tree)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sql, err := Translate(node)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	want := "(json_extract(metadata,'$.name') = 'O''Brien')"
	if sql != want {
		t.Errorf("got %q, want %q", sql, want)
	}
}
