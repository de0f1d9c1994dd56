// Package actiontable maps file type descriptions to merge actions.
//
// A Table is an ordered list of rules. A description is resolved by the
// first rule whose match string it contains, so specific rules such as
// "libtool archive" must precede generic ones such as "data".
package actiontable

import (
	"strings"

	"github.com/marve/cerbero/pkg/errors"
	"github.com/marve/cerbero/pkg/types"
)

// Rule pairs a substring of a type description with an action
type Rule struct {
	Match  string       `koanf:"match" toml:"match" yaml:"match"`
	Action types.Action `koanf:"action" toml:"action" yaml:"action"`
}

// Matches reports whether the type description contains the rule's match string
func (r Rule) Matches(tag string) bool {
	return strings.Contains(tag, r.Match)
}

// Table is an ordered rule list; the first matching rule wins
type Table []Rule

// Default returns the built-in table
func Default() Table {
	return Table{
		{Match: "Mach-O", Action: types.ActionMerge},
		{Match: "ar archive", Action: types.ActionMerge},
		{Match: "libtool archive", Action: types.ActionSkip},
		{Match: "libtool library", Action: types.ActionSkip},
		{Match: "symbolic link", Action: types.ActionLink},
		{Match: "data", Action: types.ActionCopy},
		{Match: "text", Action: types.ActionCopy},
		{Match: "document", Action: types.ActionCopy},
		{Match: "catalog", Action: types.ActionCopy},
		{Match: "python", Action: types.ActionCopy},
		{Match: "image", Action: types.ActionCopy},
		{Match: "icon", Action: types.ActionCopy},
		{Match: "FORTRAN", Action: types.ActionCopy},
		{Match: "LaTeX", Action: types.ActionCopy},
		{Match: "Zip", Action: types.ActionCopy},
		{Match: "empty", Action: types.ActionCopy},
	}
}

// Match returns the first rule matching tag
func (t Table) Match(tag string) (Rule, bool) {
	for _, rule := range t {
		if rule.Matches(tag) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Resolve returns the action of the first rule matching tag
func (t Table) Resolve(tag string) (types.Action, error) {
	if rule, ok := t.Match(tag); ok {
		return rule.Action, nil
	}
	return "", errors.Newf(errors.ErrUnrecognizedFileType, "unexpected file type %q", tag).
		WithDetail("type", tag)
}

// Prepend returns a new table evaluating rules before the receiver's rules
func (t Table) Prepend(rules ...Rule) Table {
	out := make(Table, 0, len(rules)+len(t))
	out = append(out, rules...)
	return append(out, t...)
}

// Validate checks every rule has a match string and a known action
func (t Table) Validate() error {
	for i, rule := range t {
		if rule.Match == "" {
			return errors.Newf(errors.ErrConfigValid, "rule %d has an empty match string", i)
		}
		if !rule.Action.Valid() {
			return errors.Newf(errors.ErrConfigValid, "rule %d (%q) has unknown action %q", i, rule.Match, rule.Action).
				WithDetail("match", rule.Match).
				WithDetail("action", string(rule.Action))
		}
	}
	return nil
}
