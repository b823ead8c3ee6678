// Package loyalty resolves bonus rules for catalog products and computes how
// many bonuses may be written off or must be accrued for a purchase.
//
// The rule table is data: the built-in table is embedded from rules.json and
// can be replaced at startup with LoadTableFile.
package loyalty

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed rules.json
var defaultRules []byte

var (
	ErrEmptyTable      = errors.New("loyalty table has no categories")
	ErrUnknownCategory = errors.New("fallback points to unknown category")
	ErrAmbiguousRule   = errors.New("rule sets both percent and fixed for one direction")
)

// Rule describes write-off and accrual limits for one product kind. For each
// direction a fixed value, when set, wins over a percent.
type Rule struct {
	WriteoffPercent *decimal.Decimal `json:"writeoff_percent,omitempty"`
	WriteoffFixed   *int64           `json:"writeoff_fixed,omitempty"`
	AccruePercent   *decimal.Decimal `json:"accrue_percent,omitempty"`
	AccrueFixed     *int64           `json:"accrue_fixed,omitempty"`
}

// Product is the part of a catalog item the resolver looks at.
type Product struct {
	Name     string
	Category string
}

type Resolver interface {
	Resolve(p Product) (Rule, bool)
}

// NameFallback maps a product name to a category when every substring in
// Contains occurs in the lowercased name.
type NameFallback struct {
	Category string   `json:"category"`
	Contains []string `json:"contains"`
}

type Table struct {
	rules     map[string]Rule
	fallbacks []NameFallback
}

type tableFile struct {
	Categories    map[string]Rule `json:"categories"`
	NameFallbacks []NameFallback  `json:"name_fallbacks"`
}

// DefaultTable returns the embedded rule table.
func DefaultTable() *Table {
	t, err := LoadTable(bytes.NewReader(defaultRules))
	if err != nil {
		panic(fmt.Sprintf("embedded loyalty rules are broken: %v", err))
	}
	return t
}

func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed open loyalty rules `%s`: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return LoadTable(f)
}

func LoadTable(r io.Reader) (*Table, error) {
	var tf tableFile
	if err := json.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("failed decode loyalty rules: %w", err)
	}
	if len(tf.Categories) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		rules:     make(map[string]Rule, len(tf.Categories)),
		fallbacks: make([]NameFallback, 0, len(tf.NameFallbacks)),
	}
	for category, rule := range tf.Categories {
		if (rule.WriteoffFixed != nil && rule.WriteoffPercent != nil) ||
			(rule.AccrueFixed != nil && rule.AccruePercent != nil) {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguousRule, category)
		}
		t.rules[strings.ToLower(category)] = rule
	}
	for _, fb := range tf.NameFallbacks {
		category := strings.ToLower(fb.Category)
		if _, ok := t.rules[category]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, fb.Category)
		}
		parts := make([]string, 0, len(fb.Contains))
		for _, c := range fb.Contains {
			parts = append(parts, strings.ToLower(c))
		}
		t.fallbacks = append(t.fallbacks, NameFallback{Category: category, Contains: parts})
	}

	return t, nil
}

// Resolve looks the product category up first and falls back to the name
// substrings in table order.
func (t *Table) Resolve(p Product) (Rule, bool) {
	if rule, ok := t.rules[strings.ToLower(strings.TrimSpace(p.Category))]; ok {
		return rule, true
	}

	if category, ok := t.MatchName(p.Name); ok {
		return t.rules[category], true
	}

	return Rule{}, false
}

// MatchName returns the category chosen by the name fallbacks.
func (t *Table) MatchName(name string) (string, bool) {
	name = strings.ToLower(name)
	if name == "" {
		return "", false
	}
	for _, fb := range t.fallbacks {
		if containsAll(name, fb.Contains) {
			return fb.Category, true
		}
	}
	return "", false
}

func containsAll(s string, parts []string) bool {
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

// BaseAmount is the amount percent rules apply to: the money subtotal when it
// is positive, otherwise the bonus nominal subtotal.
func BaseAmount(moneySubtotal decimal.Decimal, bonusSubtotal int64) decimal.Decimal {
	if moneySubtotal.IsPositive() {
		return moneySubtotal
	}
	return decimal.NewFromInt(bonusSubtotal)
}

// CalcWriteoff returns how many bonuses may be spent on the purchase.
func CalcWriteoff(rule *Rule, base decimal.Decimal, quantity int64) int64 {
	if rule == nil {
		return 0
	}
	return calc(rule.WriteoffFixed, rule.WriteoffPercent, base, quantity)
}

// CalcAccrual returns how many bonuses the purchase earns.
func CalcAccrual(rule *Rule, base decimal.Decimal, quantity int64) int64 {
	if rule == nil {
		return 0
	}
	return calc(rule.AccrueFixed, rule.AccruePercent, base, quantity)
}

func calc(fixed *int64, percent *decimal.Decimal, base decimal.Decimal, quantity int64) int64 {
	if fixed != nil {
		return max(*fixed*quantity, 0)
	}
	if percent != nil && base.IsPositive() {
		return max(base.Mul(*percent).Floor().IntPart(), 0)
	}
	return 0
}
