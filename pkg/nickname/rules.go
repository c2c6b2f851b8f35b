package nickname

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"friendsofmonika/masvalidator/pkg/tokenize"
)

// Category is a nickname classification bucket.
type Category string

const (
	CategoryBad        Category = "bad"
	CategoryAwkward    Category = "awkward"
	CategoryPlayerGood Category = "playerGood"
	CategoryMonikaGood Category = "monikaGood"
)

// Categories lists every category in construction order.
var Categories = []Category{CategoryBad, CategoryAwkward, CategoryPlayerGood, CategoryMonikaGood}

// ParseCategory converts a configured category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown nickname category %q", s)
}

// Identifiers of the list literals in the upstream script.
const (
	ListBad        = "mas_bad_nickname_list"
	ListGoodBase   = "mas_good_nickname_list_base"
	ListGoodPlayer = "mas_good_nickname_list_player_modifiers"
	ListGoodMonika = "mas_good_nickname_list_monika_modifiers"
	ListAwkward    = "mas_awkward_nickname_list"
)

// BuiltinBadPattern is always part of the bad category, whatever the
// script contains.
const BuiltinBadPattern = "badname"

var builtinBad = MustCompilePattern(BuiltinBadPattern)

// Lists holds the raw list contents extracted from a script.
type Lists struct {
	Bad        []string `json:"bad"`
	GoodBase   []string `json:"goodBase"`
	GoodPlayer []string `json:"goodPlayer"`
	GoodMonika []string `json:"goodMonika"`
	Awkward    []string `json:"awkward"`
}

// CategoryRules is the ordered pattern list of one category.
type CategoryRules struct {
	Category Category
	Patterns []*Pattern
}

// PatternError records a list entry whose syntax does not compile. Such
// entries are left out of the rule sets.
type PatternError struct {
	List    string
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q in %s: %v", e.Pattern, e.List, e.Err)
}

// Unwrap returns the compile error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// RuleSets is the compiled classification bundle for one script revision.
// It is not modified after BuildRuleSets returns.
type RuleSets struct {
	// Revision identifies the script text the rules were built from.
	Revision string

	// Categories in construction order: bad, awkward, playerGood,
	// monikaGood.
	Categories []CategoryRules

	Lists   Lists
	Skipped []*PatternError
}

// Revision returns the content hash used to detect script changes.
func Revision(script string) string {
	sum := blake3.Sum256([]byte(script))
	return hex.EncodeToString(sum[:])
}

// BuildRuleSets tokenizes script once and compiles the nickname lists it
// contains into rule sets. Missing lists produce empty categories; the
// built-in bad pattern is always present.
func BuildRuleSets(ctx context.Context, tz tokenize.Tokenizer, script string) (*RuleSets, error) {
	tokens, err := tz.Tokenize(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("tokenize script: %w", err)
	}
	roles := tz.Roles()

	lists := Lists{
		Bad:        ExtractListLiteral(tokens, roles, ListBad),
		GoodBase:   ExtractListLiteral(tokens, roles, ListGoodBase),
		GoodPlayer: ExtractListLiteral(tokens, roles, ListGoodPlayer),
		GoodMonika: ExtractListLiteral(tokens, roles, ListGoodMonika),
		Awkward:    ExtractListLiteral(tokens, roles, ListAwkward),
	}

	rs := &RuleSets{Revision: Revision(script), Lists: lists}
	compile := func(list string, patterns []string) []*Pattern {
		out := make([]*Pattern, 0, len(patterns))
		for _, p := range patterns {
			pat, err := CompilePattern(p)
			if err != nil {
				rs.Skipped = append(rs.Skipped, &PatternError{List: list, Pattern: p, Err: err})
				continue
			}
			out = append(out, pat)
		}
		return out
	}

	bad := compile(ListBad, lists.Bad)
	bad = append(bad, builtinBad)
	awkward := compile(ListAwkward, lists.Awkward)
	base := compile(ListGoodBase, lists.GoodBase)
	player := compile(ListGoodPlayer, lists.GoodPlayer)
	monika := compile(ListGoodMonika, lists.GoodMonika)

	rs.Categories = []CategoryRules{
		{Category: CategoryBad, Patterns: bad},
		{Category: CategoryAwkward, Patterns: awkward},
		{Category: CategoryPlayerGood, Patterns: concat(base, player)},
		{Category: CategoryMonikaGood, Patterns: concat(base, monika)},
	}
	return rs, nil
}

// Ordered returns the categories in the given order. Categories not named
// are omitted; with no arguments the construction order is returned.
func (rs *RuleSets) Ordered(order ...Category) []CategoryRules {
	if len(order) == 0 {
		return rs.Categories
	}
	out := make([]CategoryRules, 0, len(order))
	for _, c := range order {
		if cr, ok := rs.Get(c); ok {
			out = append(out, cr)
		}
	}
	return out
}

// Get returns the rules of one category.
func (rs *RuleSets) Get(c Category) (CategoryRules, bool) {
	for _, cr := range rs.Categories {
		if cr.Category == c {
			return cr, true
		}
	}
	return CategoryRules{}, false
}

// PatternCounts returns the number of compiled patterns per category.
func (rs *RuleSets) PatternCounts() map[string]int {
	counts := make(map[string]int, len(rs.Categories))
	for _, cr := range rs.Categories {
		counts[string(cr.Category)] = len(cr.Patterns)
	}
	return counts
}

func concat(a, b []*Pattern) []*Pattern {
	out := make([]*Pattern, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
