package types

import (
	"fmt"
	"strings"
)

// Policy is the tri-state that governs how a detected problem is resolved.
type Policy int

const (
	// PolicyAsk defers the decision to the decision provider. It is the zero
	// value so an unset action always prompts.
	PolicyAsk Policy = iota

	// PolicyAlways resolves the problem without prompting
	PolicyAlways

	// PolicyNever leaves the problem alone (or, for conflict groups, falls
	// back to asking)
	PolicyNever
)

// Textual encodings used by configuration files
const (
	PolicyTextAlways = "True"
	PolicyTextNever  = "False"
	PolicyTextAsk    = "None"
)

// String returns the configuration encoding of the policy
func (p Policy) String() string {
	switch p {
	case PolicyAlways:
		return PolicyTextAlways
	case PolicyNever:
		return PolicyTextNever
	default:
		return PolicyTextAsk
	}
}

// Label returns a human readable name
func (p Policy) Label() string {
	switch p {
	case PolicyAlways:
		return "always"
	case PolicyNever:
		return "never"
	default:
		return "ask"
	}
}

// ParsePolicy decodes "True", "False" or "None". Surrounding whitespace is
// ignored; the match itself is case-sensitive.
func ParsePolicy(s string) (Policy, error) {
	switch strings.TrimSpace(s) {
	case PolicyTextAlways:
		return PolicyAlways, nil
	case PolicyTextNever:
		return PolicyNever, nil
	case PolicyTextAsk:
		return PolicyAsk, nil
	}
	return PolicyAsk, fmt.Errorf("invalid policy %q: expected %s, %s or %s",
		s, PolicyTextAlways, PolicyTextNever, PolicyTextAsk)
}

// MarshalText implements encoding.TextMarshaler
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Actions holds one policy per kind of problem.
type Actions struct {
	// Copy chooses copy (Always) or move (Never) when merging auxiliary files
	Copy Policy `koanf:"copy" toml:"copy" json:"copy" yaml:"copy"`

	// Delete applies to empty and temporary files
	Delete Policy `koanf:"delete" toml:"delete" json:"delete" yaml:"delete"`

	// ReplaceOldVersion keeps the oldest of byte-identical files
	ReplaceOldVersion Policy `koanf:"replace_old_version" toml:"replace_old_version" json:"replace_old_version" yaml:"replace_old_version"`

	// ReplaceNewVersion keeps the newest of same-named files
	ReplaceNewVersion Policy `koanf:"replace_new_version" toml:"replace_new_version" json:"replace_new_version" yaml:"replace_new_version"`

	SetDefaultAttributes Policy `koanf:"set_default_attributes" toml:"set_default_attributes" json:"set_default_attributes" yaml:"set_default_attributes"`
	Rename               Policy `koanf:"rename" toml:"rename" json:"rename" yaml:"rename"`

	// DoNothing only reports what would happen. Prompts are answered with
	// the recommended choice and nothing is mutated.
	DoNothing bool `koanf:"do_nothing" toml:"do_nothing" json:"do_nothing" yaml:"do_nothing"`
}

// ActionKeys lists the configuration keys of Actions in a stable order
var ActionKeys = []string{
	"copy",
	"delete",
	"replace_old_version",
	"replace_new_version",
	"set_default_attributes",
	"rename",
}

// All returns the policies keyed by configuration key
func (a Actions) All() map[string]Policy {
	return map[string]Policy{
		"copy":                   a.Copy,
		"delete":                 a.Delete,
		"replace_old_version":    a.ReplaceOldVersion,
		"replace_new_version":    a.ReplaceNewVersion,
		"set_default_attributes": a.SetDefaultAttributes,
		"rename":                 a.Rename,
	}
}

// AnyAsk reports whether at least one action may prompt. Conflict groups
// prompt under Never as well, so those count too. A dry run never prompts.
func (a Actions) AnyAsk() bool {
	if a.DoNothing {
		return false
	}
	for key, p := range a.All() {
		if p == PolicyAsk {
			return true
		}
		if p == PolicyNever && (key == "replace_old_version" || key == "replace_new_version") {
			return true
		}
	}
	return false
}

// AllAlways returns Actions with every policy set to Always
func AllAlways() Actions {
	return Actions{
		Copy:                 PolicyAlways,
		Delete:               PolicyAlways,
		ReplaceOldVersion:    PolicyAlways,
		ReplaceNewVersion:    PolicyAlways,
		SetDefaultAttributes: PolicyAlways,
		Rename:               PolicyAlways,
	}
}
