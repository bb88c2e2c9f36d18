package styles

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/treesquares/treesquares/pkg/errors"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		expr    string
		want    Rule
		wantErr bool
	}{
		{">10", Rule{Op: GreaterThan, Threshold: 10, Background: "red"}, false},
		{" = 5 ", Rule{Op: Equal, Threshold: 5, Background: "red"}, false},
		{"<0.25", Rule{Op: LessThan, Threshold: 0.25, Background: "red"}, false},
		{"", Rule{Op: CatchAll, Background: "red"}, false},
		{">=3", Rule{}, true},
		{"10", Rule{}, true},
		{">", Rule{}, true},
		{">NaN", Rule{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseRule(tt.expr, " red ", "")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidRule) {
					t.Errorf("error code = %s, want INVALID_RULE", errors.GetCode(err))
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRule(%q) (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestParseRuleSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    Rule
		wantErr bool
	}{
		{">10,red,white", Rule{Op: GreaterThan, Threshold: 10, Background: "red", Foreground: "white"}, false},
		{"<5,#00ff00", Rule{Op: LessThan, Threshold: 5, Background: "#00ff00"}, false},
		{",grey", Rule{Background: "grey"}, false},
		{"red", Rule{}, true},
		{">1,5,red,white", Rule{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseRuleSpec(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRuleSpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); err == nil && diff != "" {
				t.Errorf("ParseRuleSpec(%q) (-want +got):\n%s", tt.spec, diff)
			}
			if err == nil && got.String() != tt.spec {
				t.Errorf("String() = %q, want %q", got.String(), tt.spec)
			}
		})
	}
}

func TestParseRuleSpecDecimalComma(t *testing.T) {
	_, err := ParseRuleSpec(">1,5,red,white")
	if !errors.Is(err, errors.ErrCodeInvalidRule) {
		t.Errorf("ParseRuleSpec() error = %v, want %s", err, errors.ErrCodeInvalidRule)
	}
}

func TestClassify(t *testing.T) {
	rules := Rules{
		{Op: GreaterThan, Threshold: 10, Background: "red", Foreground: "white"},
		{Op: Equal, Threshold: 5, Background: "yellow"},
		{Op: LessThan, Threshold: 6, Background: "green"},
		{Op: CatchAll, Background: "grey"},
	}
	tests := []struct {
		name   string
		q      float64
		bg, fg string
	}{
		{"greater", 11, "red", "white"},
		{"equal wins over later rule", 5, "yellow", "black"},
		{"less", 2, "green", "black"},
		{"no match falls back to last rule", 8, "grey", "black"},
		{"NaN falls back", math.NaN(), "grey", "black"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg, fg := rules.Classify(tt.q)
			if bg != tt.bg || fg != tt.fg {
				t.Errorf("Classify(%v) = (%s, %s), want (%s, %s)", tt.q, bg, fg, tt.bg, tt.fg)
			}
		})
	}
}

func TestClassifyCatchAllStops(t *testing.T) {
	// A catch-all before other rules stops evaluation; the default (last
	// rule's background) applies, not the catch-all's own color.
	rules := Rules{
		{Op: CatchAll, Background: "grey"},
		{Op: GreaterThan, Threshold: 0, Background: "red"},
		{Op: LessThan, Threshold: 100, Background: "blue"},
	}
	if bg, fg := rules.Classify(50); bg != "blue" || fg != "black" {
		t.Errorf("Classify() = (%s, %s), want (blue, black)", bg, fg)
	}
	if bg, fg := Rules(nil).Classify(1); bg != DefaultBackground || fg != DefaultForeground {
		t.Errorf("empty Classify() = (%s, %s)", bg, fg)
	}
}

func TestRulesValidate(t *testing.T) {
	if err := (Rules{{Op: GreaterThan, Threshold: 1}}).Validate(); !errors.Is(err, errors.ErrCodeInvalidRule) {
		t.Errorf("Validate() error = %v, want INVALID_RULE", err)
	}
	if err := (Rules{{Background: "red"}}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
