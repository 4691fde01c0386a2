// Package layout selects how the graph is arranged and when the view's
// continuous relaxation runs.
//
// Computing positions is the renderer's job. This package only names the
// available strategies and owns the auto-layout toggle that the editor
// flips after topology changes.
package layout

import (
	"strings"

	"github.com/matzehuels/querygraph/pkg/errors"
)

// Strategy is a layout algorithm.
type Strategy int

const (
	Spring Strategy = iota
	Radial
	HorizontalTree
	VerticalTree
	Grid
)

var names = [...]string{
	Spring:         "spring",
	Radial:         "radial",
	HorizontalTree: "horizontal-tree",
	VerticalTree:   "vertical-tree",
	Grid:           "grid",
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{Spring, Radial, HorizontalTree, VerticalTree, Grid}
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool { return s >= 0 && int(s) < len(names) }

// Relaxes reports whether the strategy runs continuous force relaxation,
// which is what the automatic layout toggle drives.
func (s Strategy) Relaxes() bool { return s == Spring }

// ParseStrategy parses a strategy name. Matching ignores case, and
// underscores or spaces may stand in for hyphens.
func ParseStrategy(name string) (Strategy, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "-", " ", "-").Replace(n)
	switch n {
	case "htree", "horizontal":
		return HorizontalTree, nil
	case "vtree", "vertical", "tree":
		return VerticalTree, nil
	}
	for i, s := range names {
		if s == n {
			return Strategy(i), nil
		}
	}
	return Spring, errors.New(errors.ErrCodeInvalidLayout, "unknown layout %q (want one of %s)", name, strings.Join(names[:], ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "invalid layout %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so strategies can be
// named in config files.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
