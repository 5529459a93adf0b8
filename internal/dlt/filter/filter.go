// Package filter evaluates identifier and regex predicates against decoded
// DLT messages. Patterns are compiled once into an ordered slice and
// evaluated in a fixed order against each candidate string, since Go's
// stdlib regexp has no RegexSet type: a single compiled pattern slice
// serves both the "did anything match" and "which named groups captured
// what" questions, evaluated in one pass instead of two.
package filter

import (
	"fmt"
	"regexp"

	"github.com/mabhi256/dltq/internal/dlt"
)

// declaredCaptureName extracts one (?P<name>...) group name per match from
// a pattern's source text, used to validate Capture(name) output fields
// before any message is decoded.
var declaredCaptureName = regexp.MustCompile(`\(\?P<([a-zA-Z_][a-zA-Z0-9_]*)>`)

// Set is a filter block's compiled predicates: optional identifier
// comparisons plus an optional list of compiled patterns shared between
// the "any pattern matched" test and per-pattern named-capture extraction.
type Set struct {
	ecuID, appID, contextID     string
	hasEcuID, hasAppID, hasCtx bool

	patterns []*regexp.Regexp
	sources  []string // pattern source text, same order as patterns
}

// New compiles a filter block. Identifier filters are applied only when
// non-nil; patterns are compiled once, in source order, and that order is
// shared by every later match/capture operation.
func New(ecuID, appID, contextID *string, patterns []string) (*Set, error) {
	s := &Set{}
	if ecuID != nil {
		s.ecuID, s.hasEcuID = *ecuID, true
	}
	if appID != nil {
		s.appID, s.hasAppID = *appID, true
	}
	if contextID != nil {
		s.contextID, s.hasCtx = *contextID, true
	}

	s.patterns = make([]*regexp.Regexp, len(patterns))
	s.sources = append([]string(nil), patterns...)
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("dlt: invalid pattern %q: %w", p, err)
		}
		s.patterns[i] = re
	}
	return s, nil
}

// HasPatterns reports whether this filter block configured any patterns.
func (s *Set) HasPatterns() bool { return len(s.patterns) > 0 }

// DeclaredCaptureNames returns the names of every (?P<name>...) group
// appearing in any of this filter's configured patterns.
func (s *Set) DeclaredCaptureNames() []string {
	var names []string
	for _, src := range s.sources {
		for _, m := range declaredCaptureName.FindAllStringSubmatch(src, -1) {
			names = append(names, m[1])
		}
	}
	return names
}

// passIdentifiers evaluates the EcuId -> AppId -> ContextId short-circuit
// chain. Each predicate accepts when its filter was not
// configured; when configured, it rejects a message missing the
// corresponding header field, and otherwise compares byte-for-byte
// (case-sensitive) against the NUL-trimmed identifier.
func (s *Set) passIdentifiers(msg *dlt.Message) bool {
	if s.hasEcuID {
		v, ok := msg.ResolvedEcuID()
		if !ok || v != s.ecuID {
			return false
		}
	}
	if s.hasAppID {
		v, ok := msg.AppID()
		if !ok || v != s.appID {
			return false
		}
	}
	if s.hasCtx {
		v, ok := msg.ContextID()
		if !ok || v != s.contextID {
			return false
		}
	}
	return true
}

// Evaluate runs the full predicate chain against msg: identifiers first
// (short-circuiting on the first rejection), then the pattern predicate.
//
// pass is false whenever the message should be dropped. When pass is true
// and no patterns were configured, captures is nil (treated as "pass
// through without projection"). When patterns were configured, pass is true
// as soon as some string-typed argument matches at least one pattern,
// whether or not that pattern declares named groups; captures then holds
// one entry per matching pattern on the first such string, in pattern
// order, each possibly empty when its pattern has no named groups.
func (s *Set) Evaluate(msg *dlt.Message) (pass bool, captures []map[string]string) {
	if !s.passIdentifiers(msg) {
		return false, nil
	}
	if !s.HasPatterns() {
		return true, nil
	}

	for _, str := range msg.StringArgs() {
		var bundles []map[string]string
		for _, re := range s.patterns {
			m := re.FindStringSubmatch(str)
			if m == nil {
				continue
			}
			bundles = append(bundles, namedGroups(re, m))
		}
		if len(bundles) > 0 {
			return true, bundles
		}
	}
	return false, nil
}

func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	group := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(match) {
			continue
		}
		group[name] = match[i]
	}
	return group
}
