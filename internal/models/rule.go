package models

import (
	"fmt"
	"strings"
)

// Dialect identifies a filter list syntax
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectAdGuard
	DialectUBlockOrigin
	DialectAdblockPlus
)

// String returns the short dialect name used in config and CLI flags
func (d Dialect) String() string {
	switch d {
	case DialectAdGuard:
		return "adg"
	case DialectUBlockOrigin:
		return "ubo"
	case DialectAdblockPlus:
		return "abp"
	}
	return "unknown"
}

// ParseDialect parses a dialect name (adg, ubo, abp and their long forms)
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "adg", "adguard":
		return DialectAdGuard, nil
	case "ubo", "ublock", "ublock-origin":
		return DialectUBlockOrigin, nil
	case "abp", "adblockplus", "adblock-plus":
		return DialectAdblockPlus, nil
	}
	return DialectUnknown, fmt.Errorf("unknown dialect %q", s)
}

// RuleKind is the classifier output tag
type RuleKind int

const (
	RuleKindUnrelated RuleKind = iota
	RuleKindComment
	RuleKindScriptlet
	RuleKindRedirect
)

func (k RuleKind) String() string {
	switch k {
	case RuleKindComment:
		return "comment"
	case RuleKindScriptlet:
		return "scriptlet"
	case RuleKindRedirect:
		return "redirect"
	}
	return "unrelated"
}

// Classification describes what a raw rule line is
type Classification struct {
	Kind      RuleKind
	Dialect   Dialect // DialectUnknown for comments and unrelated rules
	Exception bool    // #@%#, #@#+js, #@$# and @@ rules
}

// Rule is a single classified filter list line
type Rule struct {
	Raw            string
	Classification Classification
}

// ScriptletCall is a tokenized scriptlet invocation
type ScriptletCall struct {
	name string
	args []string
}

// NewScriptletCall builds a call, copying args
func NewScriptletCall(name string, args []string) ScriptletCall {
	c := ScriptletCall{name: name}
	if len(args) > 0 {
		c.args = append([]string(nil), args...)
	}
	return c
}

// Name returns the scriptlet name as written in the rule
func (c ScriptletCall) Name() string {
	return c.name
}

// Args returns a copy of the positional arguments
func (c ScriptletCall) Args() []string {
	if len(c.args) == 0 {
		return nil
	}
	return append([]string(nil), c.args...)
}

// Arg returns the i-th argument, or "" when absent
func (c ScriptletCall) Arg(i int) string {
	if i < 0 || i >= len(c.args) {
		return ""
	}
	return c.args[i]
}

// NumArgs returns the number of positional arguments
func (c ScriptletCall) NumArgs() int {
	return len(c.args)
}
