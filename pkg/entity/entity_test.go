package entity

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestPropertiesOrder(t *testing.T) {
	var p Properties
	p.Set("name", "alice")
	p.Set("age", 30)
	p.Set("city", "Seoul")
	p.Set("age", 31)

	want := []string{"name", "age", "city"}
	if got := p.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if v, _ := p.Get("age"); v != 31 {
		t.Errorf("age = %v, want 31", v)
	}

	p.Delete("name")
	p.Delete("missing")
	if got := p.Keys(); !slices.Equal(got, []string{"age", "city"}) {
		t.Errorf("Keys() after Delete = %v", got)
	}
}

func TestPropertiesCloneIsIndependent(t *testing.T) {
	p := NewProperties("w", 2, "since", "2020")
	c := p.Clone()
	c.Set("w", 99)
	c.Set("extra", true)

	if v, _ := p.Get("w"); v != 2 {
		t.Errorf("original w = %v, want 2", v)
	}
	if p.Len() != 2 {
		t.Errorf("original Len() = %d, want 2", p.Len())
	}
}

func TestPropertiesJSONKeepsOrder(t *testing.T) {
	in := `{"zeta":1,"alpha":2.5,"mid":"x","nested":{"a":1}}`

	var p Properties
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got := p.Keys(); !slices.Equal(got, []string{"zeta", "alpha", "mid", "nested"}) {
		t.Fatalf("Keys() = %v", got)
	}
	if v, _ := p.Get("zeta"); v != json.Number("1") {
		t.Errorf("zeta = %#v, want json.Number(1)", v)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("Marshal = %s, want %s", out, in)
	}
}

func TestPropertiesUnmarshalRejectsNonObject(t *testing.T) {
	var p Properties
	if err := json.Unmarshal([]byte(`[1,2]`), &p); err == nil {
		t.Error("Unmarshal(array) should fail")
	}
	if err := json.Unmarshal([]byte(`null`), &p); err != nil {
		t.Errorf("Unmarshal(null) = %v", err)
	}
}

func TestPropertiesEqual(t *testing.T) {
	a := NewProperties("x", 1, "y", "two")
	b := NewProperties("x", 1, "y", "two")
	c := NewProperties("y", "two", "x", 1)

	if !a.Equal(b) {
		t.Error("identical properties should be equal")
	}
	if a.Equal(c) {
		t.Error("different key order should not be equal")
	}
}

func TestNewNodeDedupesLabels(t *testing.T) {
	n := NewNode("n1", []string{"Person", "", "Admin", "Person"}, Properties{})
	if !slices.Equal(n.Labels, []string{"Person", "Admin"}) {
		t.Errorf("Labels = %v", n.Labels)
	}
	if !n.HasLabel("Admin") || n.HasLabel("Robot") {
		t.Error("HasLabel mismatch")
	}
}

func TestNodeCloneIsDeep(t *testing.T) {
	n := NewNode("n1", []string{"A"}, NewProperties("k", "v"))
	c := n.Clone()
	c.Labels[0] = "B"
	c.Properties.Set("k", "changed")

	if n.Labels[0] != "A" {
		t.Error("Clone shares label slice")
	}
	if v, _ := n.Properties.Get("k"); v != "v" {
		t.Error("Clone shares properties")
	}
}

func TestNewEdgeDefaults(t *testing.T) {
	e := NewEdge("e1", []string{"KNOWS", "KNOWS"}, "a", "a", Properties{})
	if e.LineStyle != LineSolid {
		t.Errorf("LineStyle = %q, want %q", e.LineStyle, LineSolid)
	}
	if !slices.Equal(e.Types, []string{"KNOWS"}) {
		t.Errorf("Types = %v", e.Types)
	}
	if !e.IsLoop() {
		t.Error("a->a should be a loop")
	}
}
