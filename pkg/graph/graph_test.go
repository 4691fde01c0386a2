package graph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
)

const sample = `{
	"nodes": [
		{"id": "n1", "labels": ["Person"], "properties": {"name": "Ada", "born": 1815}, "x": 10, "y": 20},
		{"id": "n2", "labels": ["Person"], "properties": {"name": "Charles", "born": 1791}},
		{"id": "n3", "labels": ["Machine"], "properties": {"name": "Engine"}}
	],
	"edges": [
		{"id": "e1", "types": ["KNOWS"], "source": "n1", "target": "n2", "properties": {"since": 1833}},
		{"id": "e2", "types": ["BUILT"], "source": "n2", "target": "n3", "properties": {}}
	]
}`

func newEditor(t *testing.T) *editor.Editor {
	t.Helper()
	ed := editor.New(editor.Options{Logger: log.New(io.Discard)})
	t.Cleanup(ed.Close)
	return ed
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantCode  errors.Code
	}{
		{name: "Valid", input: sample, wantNodes: 3, wantEdges: 2},
		{name: "Empty", input: `{"nodes": [], "edges": []}`},
		{name: "Invalid", input: `{invalid json}`, wantCode: errors.ErrCodeInvalidFormat},
		{name: "MissingID", input: `{"nodes": [{"labels": ["X"]}]}`, wantCode: errors.ErrCodeInvalidFormat},
		{name: "BlankLabel", input: `{"nodes": [{"id": "a", "labels": [" "]}]}`, wantCode: errors.ErrCodeInvalidFormat},
		{name: "MissingTarget", input: `{"edges": [{"id": "e", "source": "a"}]}`, wantCode: errors.ErrCodeInvalidFormat},
		{name: "UnknownLineStyle", input: `{"edges": [{"id": "e", "source": "a", "target": "b", "line_style": "wavy"}]}`, wantCode: errors.ErrCodeInvalidFormat},
		{name: "PropertiesNotObject", input: `{"nodes": [{"id": "a", "properties": [1]}]}`, wantCode: errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Edges) != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges; want %d, %d", len(g.Nodes), len(g.Edges), tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestReadGraphKeepsPropertyOrderAndNumbers(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	props := g.Nodes[0].Properties
	if diff := cmp.Diff([]string{"name", "born"}, props.Keys()); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
	if v, _ := props.Get("born"); v != json.Number("1815") {
		t.Errorf("born = %#v, want json.Number", v)
	}
}

func TestLoad(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	ed := newEditor(t)

	res, err := Load(ed, g)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(LoadResult{Nodes: 3, Edges: 2}, res); diff != "" {
		t.Errorf("first load (-want +got):\n%s", diff)
	}

	n1, _ := ed.Node("n1")
	if n1.LastPosition != (entity.Position{X: 10, Y: 20}) {
		t.Errorf("n1 position = %v", n1.LastPosition)
	}

	res, err = Load(ed, g)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if diff := cmp.Diff(LoadResult{SkippedNodes: 3, SkippedEdges: 2}, res); diff != "" {
		t.Errorf("second load (-want +got):\n%s", diff)
	}
	if ed.NumVertices() != 3 || ed.NumEdges() != 2 {
		t.Errorf("editor has %d vertices, %d edges", ed.NumVertices(), ed.NumEdges())
	}
}

func TestLoadDanglingEdge(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}},
		Edges: []Edge{{ID: "e", Source: "a", Target: "ghost"}},
	}
	ed := newEditor(t)
	res, err := Load(ed, g)
	if !errors.Is(err, errors.ErrCodeInvalidEndpoint) {
		t.Fatalf("err = %v, want INVALID_ENDPOINT", err)
	}
	if res.Nodes != 1 || ed.NumEdges() != 0 {
		t.Errorf("res = %+v, edges = %d", res, ed.NumEdges())
	}
}

func TestLoadEdgeStyle(t *testing.T) {
	const styled = `{
		"nodes": [{"id": "a"}, {"id": "b"}],
		"edges": [
			{"id": "e", "source": "a", "target": "b", "properties": {}, "line_style": "dashed", "line_color": "#ff0000", "line_weight": 3},
			{"id": "f", "source": "b", "target": "a", "properties": {}, "line_color": "#00ff00"}
		]
	}`
	g, err := ReadGraph(strings.NewReader(styled))
	if err != nil {
		t.Fatal(err)
	}
	ed := newEditor(t)
	if _, err := Load(ed, g); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		id     string
		style  string
		color  string
		weight float64
	}{
		{"e", entity.LineDashed, "#ff0000", 3},
		{"f", entity.LineSolid, "#00ff00", 1},
	}
	for _, tt := range tests {
		got, ok := ed.Edge(tt.id)
		if !ok {
			t.Fatalf("edge %s missing", tt.id)
		}
		if got.LineStyle != tt.style || got.LineColor != tt.color || got.LineWeight != tt.weight {
			t.Errorf("edge %s = %s %s %v, want %s %s %v", tt.id,
				got.LineStyle, got.LineColor, got.LineWeight, tt.style, tt.color, tt.weight)
		}
	}
}

func TestLoadRejectsInvalidIDs(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a"}, {ID: "bad\nid"}}}
	ed := newEditor(t)
	res, err := Load(ed, g)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("err = %v, want INVALID_FORMAT", err)
	}
	if diff := cmp.Diff(LoadResult{}, res); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
	if ed.NumVertices() != 0 {
		t.Errorf("NumVertices() = %d, want 0", ed.NumVertices())
	}
}

func TestRoundTrip(t *testing.T) {
	g, _ := ReadGraph(strings.NewReader(sample))
	ed := newEditor(t)
	if _, err := Load(ed, g); err != nil {
		t.Fatal(err)
	}
	if ok, err := ed.SetEdgeStyle("e2", entity.LineDashed, "#ff0000", 3); !ok || err != nil {
		t.Fatalf("SetEdgeStyle(e2) = %v, %v", ok, err)
	}

	data, err := MarshalGraph(ed.Snapshot())
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	ed2 := newEditor(t)
	if _, err := Load(ed2, back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ed.Snapshot(), ed2.Snapshot()); diff != "" {
		t.Errorf("round trip changed the graph (-want +got):\n%s", diff)
	}

	if back.Nodes[0].Color == "" || back.Nodes[0].Radius != 35 {
		t.Errorf("display attributes not exported: %+v", back.Nodes[0])
	}
	if back.Edges[0].LineStyle != entity.LineSolid {
		t.Errorf("e1 LineStyle = %q", back.Edges[0].LineStyle)
	}
	if e := back.Edges[1]; e.LineStyle != entity.LineDashed || e.LineColor != "#ff0000" || e.LineWeight != 3 {
		t.Errorf("e2 style not exported: %+v", e)
	}
}

func TestWriteGraphEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(editor.Snapshot{}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(strings.Fields(buf.String()), ""); got != `{"nodes":[],"edges":[]}` {
		t.Errorf("WriteGraph(empty) = %s", got)
	}
}

func TestGraphFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	if err := os.WriteFile(in, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := ReadGraphFile(in)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	ed := newEditor(t)
	Load(ed, g)

	out := filepath.Join(dir, "out.json")
	if err := WriteGraphFile(ed.Snapshot(), out); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	data, _ := os.ReadFile(out)
	parsed, err := UnmarshalGraph(data)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if len(parsed.Nodes) != 3 || parsed.Nodes[2].DisplayLabel() != "Machine" {
		t.Errorf("parsed = %+v", parsed.Nodes)
	}

	if _, err := ReadGraphFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}
