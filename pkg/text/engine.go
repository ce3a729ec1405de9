// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package text implements the brand-token substitution engine: an ordered
// set of compiled patterns that rewrite product names, codenames and version
// numbers to a single replacement string.
package text

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Engine applies the three substitution rules to a string, in order:
//
//  1. composite: a whole-word product name, optionally followed by a codename
//     and a version token, replaced as one unit
//  2. standalone: any remaining whole-word codename
//  3. collapse: runs of adjacent replacement strings merged into one
//
// Each rule runs exactly once over the whole string; the output of one run is
// never fed back into rules 1-2. All matching is case-insensitive with
// Unicode word boundaries, so tokens inside larger identifiers are left
// alone. The stdlib regexp package is not usable here: RE2's \b is
// ASCII-only and its alternation is leftmost-longest rather than ordered,
// both of which break the boundary and precedence contract. regexp2 keeps
// .NET semantics (Unicode \w and \b, ordered alternation).
type Engine struct {
	composite   *regexp2.Regexp
	standalone  *regexp2.Regexp
	collapse    *regexp2.Regexp
	whitespace  *regexp2.Regexp
	replacement string
	subst       string // replacement with $ doubled for regexp2 substitution
}

// 🏭 NewEngine compiles the grammar against the given replacement string.
// The compiled engine is reusable across every path and file of a run.
func NewEngine(g Grammar, replacement string) (*Engine, error) {
	if replacement == "" {
		return nil, errors.Errorf("replacement string is required")
	}
	if len(g.OSNames) == 0 {
		return nil, errors.Errorf("grammar has no product names")
	}

	composite, err := regexp2.Compile(compositePattern(g), regexp2.IgnoreCase)
	if err != nil {
		return nil, errors.Errorf("compiling composite pattern: %w", err)
	}

	standalone, err := regexp2.Compile(`\b(?:`+codenameAlternation(g)+`)\b`, regexp2.IgnoreCase)
	if err != nil {
		return nil, errors.Errorf("compiling codename pattern: %w", err)
	}

	// The replacement is opaque text, so it gets escaped before it is
	// embedded in the collapse pattern.
	quoted := regexp.QuoteMeta(replacement)
	collapse, err := regexp2.Compile(quoted+`(?:[\s_-]*`+quoted+`)+`, regexp2.IgnoreCase)
	if err != nil {
		return nil, errors.Errorf("compiling collapse pattern: %w", err)
	}

	whitespace, err := regexp2.Compile(`\s{2,}`, 0)
	if err != nil {
		return nil, errors.Errorf("compiling whitespace pattern: %w", err)
	}

	return &Engine{
		composite:   composite,
		standalone:  standalone,
		collapse:    collapse,
		whitespace:  whitespace,
		replacement: replacement,
		subst:       strings.ReplaceAll(replacement, "$", "$$"),
	}, nil
}

// 📝 Replacement returns the configured replacement string.
func (e *Engine) Replacement() string {
	return e.replacement
}

// 🏃 Apply rewrites a file or directory name. Whitespace inside the input is
// preserved apart from the substitutions themselves.
func (e *Engine) Apply(s string) (string, error) {
	out, err := e.composite.Replace(s, e.subst, -1, -1)
	if err != nil {
		return "", errors.Errorf("applying composite rule: %w", err)
	}

	out, err = e.standalone.Replace(out, e.subst, -1, -1)
	if err != nil {
		return "", errors.Errorf("applying codename rule: %w", err)
	}

	out, err = e.collapse.Replace(out, e.subst, -1, -1)
	if err != nil {
		return "", errors.Errorf("applying collapse rule: %w", err)
	}

	return out, nil
}

// 🏃 ApplyContent rewrites file content: the same three rules as Apply,
// followed by a normalization pass that squeezes runs of whitespace left
// behind by the substitutions into a single space.
func (e *Engine) ApplyContent(s string) (string, error) {
	out, err := e.Apply(s)
	if err != nil {
		return "", err
	}

	out, err = e.whitespace.Replace(out, " ", -1, -1)
	if err != nil {
		return "", errors.Errorf("normalizing whitespace: %w", err)
	}

	return out, nil
}

// compositePattern builds rule 1: product name, then optionally whitespace
// and a codename, then optionally whitespace and a version token. The
// trailing parts are greedy, so "Mac OS X Snow Leopard 10.6" is one match.
func compositePattern(g Grammar) string {
	return fmt.Sprintf(`\b(?:%s)(?:\s+(?:%s))?(?:\s+(?:%s))?\b`,
		osNameAlternation(g), codenameAlternation(g), versionAlternation(g))
}

// osNameAlternation joins each product name variant's words with optional
// whitespace, so all spacing forms of a variant match.
func osNameAlternation(g Grammar) string {
	alts := make([]string, 0, len(g.OSNames))
	for _, words := range g.OSNames {
		alts = append(alts, joinWords(words, `\s*`))
	}
	return strings.Join(alts, "|")
}

// codenameAlternation joins the words of each codename with an optional
// single separator (space, hyphen, or nothing). Grammar order is preserved:
// regexp2 alternation is ordered, so multi-word codenames listed first win
// over their single-word suffixes.
func codenameAlternation(g Grammar) string {
	alts := make([]string, 0, len(g.Codenames))
	for _, words := range g.Codenames {
		alts = append(alts, joinWords(words, `[\s-]?`))
	}
	return strings.Join(alts, "|")
}

// versionAlternation quotes the version tokens, longest first so "10.15" is
// tried before "10.1".
func versionAlternation(g Grammar) string {
	tokens := make([]string, len(g.Versions))
	copy(tokens, g.Versions)
	sort.SliceStable(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] > tokens[j]
	})

	for i, tok := range tokens {
		tokens[i] = regexp.QuoteMeta(tok)
	}
	return strings.Join(tokens, "|")
}

func joinWords(words []string, sep string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, sep)
}
