package bpe

import "strings"

// MergeRule is one recorded (pair -> replacement) entry of a MergeTable.
type MergeRule struct {
	Pair        string `json:"pair" yaml:"pair"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// MergeTable is the ordered record of learned merges. Re-recording a pair
// updates its replacement but keeps its original position.
type MergeTable struct {
	rules []MergeRule
	index map[string]int
}

func NewMergeTable() *MergeTable {
	return &MergeTable{index: map[string]int{}}
}

func (t *MergeTable) Put(pair, replacement string) {
	if i, ok := t.index[pair]; ok {
		t.rules[i].Replacement = replacement
		return
	}
	if t.index == nil {
		t.index = map[string]int{}
	}
	t.index[pair] = len(t.rules)
	t.rules = append(t.rules, MergeRule{Pair: pair, Replacement: replacement})
}

func (t *MergeTable) Lookup(pair string) (string, bool) {
	i, ok := t.index[pair]
	if !ok {
		return "", false
	}
	return t.rules[i].Replacement, true
}

func (t *MergeTable) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the entries in insertion order.
func (t *MergeTable) Rules() []MergeRule {
	return append([]MergeRule(nil), t.rules...)
}

func (t *MergeTable) Clone() *MergeTable {
	c := &MergeTable{
		rules: t.Rules(),
		index: make(map[string]int, len(t.index)),
	}
	for pair, i := range t.index {
		c.index[pair] = i
	}
	return c
}

// Encode replaces every occurrence of each pair with its replacement, one
// rule at a time in insertion order.
func (t *MergeTable) Encode(text string) string {
	for _, r := range t.rules {
		text = strings.ReplaceAll(text, r.Pair, r.Replacement)
	}
	return text
}

// Decode replaces each replacement with its pair, walking the rules in the
// same insertion order as Encode. When a later replacement appears inside an
// earlier pair this is not an exact inverse of Encode; see DecodeReverse.
func (t *MergeTable) Decode(text string) string {
	for _, r := range t.rules {
		text = strings.ReplaceAll(text, r.Replacement, r.Pair)
	}
	return text
}

// DecodeReverse undoes the rules latest-first.
func (t *MergeTable) DecodeReverse(text string) string {
	for i := len(t.rules) - 1; i >= 0; i-- {
		text = strings.ReplaceAll(text, t.rules[i].Replacement, t.rules[i].Pair)
	}
	return text
}
