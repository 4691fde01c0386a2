package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/querygraph/pkg/editor"
	"github.com/matzehuels/querygraph/pkg/entity"
	"github.com/matzehuels/querygraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a snapshot to indented JSON bytes.
func MarshalGraph(snap editor.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(FromSnapshot(snap), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(snap editor.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(FromSnapshot(snap), f)
}

// WriteGraph writes a snapshot as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(snap editor.Snapshot, w io.Writer) error {
	return writeGraphTo(FromSnapshot(snap), w)
}

// ReadGraphFile reads and validates a JSON graph file.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes and validates a JSON graph from an io.Reader.
// Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader) (Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Validate checks ids, labels, types and line styles, and that every edge
// names both endpoints. Dangling endpoint ids are left to Load.
func (g Graph) Validate() error {
	for i, n := range g.Nodes {
		if err := errors.ValidateID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "nodes[%d]", i)
		}
		for _, l := range n.Labels {
			if err := errors.ValidateLabel(l); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "nodes[%d] %q", i, n.ID)
			}
		}
	}
	for i, e := range g.Edges {
		if err := errors.ValidateID(e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "edges[%d]", i)
		}
		for _, t := range e.Types {
			if err := errors.ValidateLabel(t); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "edges[%d] %q", i, e.ID)
			}
		}
		if e.Source == "" || e.Target == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "edges[%d] %q: source and target are required", i, e.ID)
		}
		if e.LineStyle != "" && !entity.ValidLineStyle(e.LineStyle) {
			return errors.New(errors.ErrCodeInvalidFormat, "edges[%d] %q: unknown line style %q", i, e.ID, e.LineStyle)
		}
	}
	return nil
}
