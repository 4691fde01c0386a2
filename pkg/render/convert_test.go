package render

import (
	"testing"

	"github.com/matzehuels/querygraph/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"svg", FormatSVG},
		{"DOT", FormatDOT},
		{" png ", FormatPNG},
		{"pdf", FormatPDF},
		{"", FormatSVG},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(gif) err = %v", err)
	}
	if NeedsConverter(FormatSVG) || !NeedsConverter(FormatPDF) {
		t.Error("NeedsConverter misclassified formats")
	}
}
