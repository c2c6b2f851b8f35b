package nickname

import (
	"time"

	"github.com/dlclark/regexp2"
)

// patternMatchTimeout bounds a single match so that a backtracking list
// entry cannot stall classification.
const patternMatchTimeout = 100 * time.Millisecond

// Pattern is one compiled list entry. Entries use backtracking regular
// expression syntax, lookaround included, and always match
// case-insensitively.
type Pattern struct {
	source string
	re     *regexp2.Regexp
}

// CompilePattern compiles a list entry.
func CompilePattern(source string) (*Pattern, error) {
	re, err := regexp2.Compile(source, regexp2.IgnoreCase)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = patternMatchTimeout
	return &Pattern{source: source, re: re}, nil
}

// MustCompilePattern is like CompilePattern but panics on invalid syntax.
func MustCompilePattern(source string) *Pattern {
	p, err := CompilePattern(source)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchString reports whether name contains a match. A match that runs out
// of time counts as no match.
func (p *Pattern) MatchString(name string) bool {
	ok, err := p.re.MatchString(name)
	return err == nil && ok
}

// String returns the entry as written in the list.
func (p *Pattern) String() string {
	return p.source
}
