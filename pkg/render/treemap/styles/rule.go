package styles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/treesquares/treesquares/pkg/errors"
)

// DefaultForeground is the text color used when no rule sets one.
const DefaultForeground = "black"

// DefaultBackground fills cells when there are no rules at all.
const DefaultBackground = "white"

// Operator compares a quality value to a rule threshold.
type Operator int

const (
	// CatchAll matches nothing and stops rule evaluation.
	CatchAll Operator = iota
	GreaterThan
	Equal
	LessThan
)

func (o Operator) String() string {
	switch o {
	case GreaterThan:
		return ">"
	case Equal:
		return "="
	case LessThan:
		return "<"
	}
	return ""
}

// Rule is one color threshold.
type Rule struct {
	Op         Operator `json:"op"`
	Threshold  float64  `json:"threshold"`
	Background string   `json:"background"`
	Foreground string   `json:"foreground,omitempty"`
}

// Matches reports whether q satisfies the rule. NaN matches no rule.
func (r Rule) Matches(q float64) bool {
	switch r.Op {
	case GreaterThan:
		return q > r.Threshold
	case Equal:
		return q == r.Threshold
	case LessThan:
		return q < r.Threshold
	}
	return false
}

// Expr returns the rule's condition in the form accepted by [ParseRule].
func (r Rule) Expr() string {
	if r.Op == CatchAll {
		return ""
	}
	return r.Op.String() + strconv.FormatFloat(r.Threshold, 'g', -1, 64)
}

func (r Rule) String() string {
	s := r.Expr() + "," + r.Background
	if r.Foreground != "" {
		s += "," + r.Foreground
	}
	return s
}

// ParseRule parses a condition such as ">10", "=5" or "<0.25" together
// with its colors. An empty condition yields a catch-all rule.
func ParseRule(expr, background, foreground string) (Rule, error) {
	r := Rule{
		Background: strings.TrimSpace(background),
		Foreground: strings.TrimSpace(foreground),
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return r, nil
	}

	switch expr[0] {
	case '>':
		r.Op = GreaterThan
	case '=':
		r.Op = Equal
	case '<':
		r.Op = LessThan
	default:
		return Rule{}, errors.New(errors.ErrCodeInvalidRule, "rule %q: operator must be >, = or <", expr)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(expr[1:]), 64)
	if err != nil || math.IsNaN(v) {
		return Rule{}, errors.New(errors.ErrCodeInvalidRule, "rule %q: threshold is not a number", expr)
	}
	r.Threshold = v
	return r, nil
}

// ParseRuleSpec parses the compact "condition,background[,foreground]"
// form, e.g. ">10,red,white" or ",grey".
func ParseRuleSpec(spec string) (Rule, error) {
	parts := strings.Split(spec, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return Rule{}, errors.New(errors.ErrCodeInvalidRule, "rule %q: want condition,background[,foreground]", spec)
	}
	fg := ""
	if len(parts) == 3 {
		fg = parts[2]
	}
	return ParseRule(parts[0], parts[1], fg)
}

// Rules is an ordered list of color rules.
type Rules []Rule

// ParseRuleSpecs parses each spec with [ParseRuleSpec].
func ParseRuleSpecs(specs []string) (Rules, error) {
	rs := make(Rules, 0, len(specs))
	for _, s := range specs {
		r, err := ParseRuleSpec(s)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

// Classify returns the colors for quality q. The default is the last
// rule's background with [DefaultForeground]. Rules are tried in order;
// a catch-all stops the search, the first matching rule sets the
// background and, when it names one, the foreground.
func (rs Rules) Classify(q float64) (background, foreground string) {
	if len(rs) == 0 {
		return DefaultBackground, DefaultForeground
	}
	background, foreground = rs[len(rs)-1].Background, DefaultForeground
	for _, r := range rs {
		if r.Op == CatchAll {
			break
		}
		if r.Matches(q) {
			background = r.Background
			if r.Foreground != "" {
				foreground = r.Foreground
			}
			break
		}
	}
	return background, foreground
}

// Validate checks that every rule has a background color.
func (rs Rules) Validate() error {
	for i, r := range rs {
		if r.Background == "" {
			return errors.New(errors.ErrCodeInvalidRule, "rule %d (%s) has no background color", i+1, r.Expr())
		}
	}
	return nil
}

func (rs Rules) String() string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = r.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " | "))
}
