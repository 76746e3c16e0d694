// Package rules implements the shot-pattern rule evaluator. It is pure: no
// storage, no clock, just a decision over a shot and a configured rule.
package rules

import (
	"encoding/json"
	"strings"
)

// Mode selects whether matching patterns allow or forbid a shot.
type Mode string

const (
	ModeAllow Mode = "allow"
	ModeDeny  Mode = "deny"
)

// Validation controls how a failing evaluation is treated. Soft rules flag
// the failure but still accept the shot; manual entry often lacks precise
// zone data and must not be punished unless the challenge demands it.
type Validation string

const (
	ValidationNone   Validation = "none"
	ValidationSoft   Validation = "soft"
	ValidationStrict Validation = "strict"
)

// Rule is the canonical shot-pattern rule. Patterns are "<range>_<zone>",
// "<range>_*" or the literal "gamechanger".
type Rule struct {
	Mode         Mode       `json:"mode"`
	Items        []string   `json:"items"`
	Validation   Validation `json:"validation"`
	RequireRange bool       `json:"require_range"`
	RequireZone  bool       `json:"require_zone"`
}

// Shot is the rule evaluator's view of an attempt.
type Shot struct {
	Range       string // "mid", "long" or "" when unknown
	Zone        string // "" when unknown
	ShotKey     string // optional precomposed "<range>_<zone>"
	Gamechanger bool
}

// Result reports the outcome of an evaluation. OK false only happens under
// strict validation; Reason is set whenever the evaluation did not cleanly
// match.
type Result struct {
	OK      bool   `json:"ok"`
	Matched bool   `json:"matched"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonMissingRange = "missing_range"
	ReasonMissingZone  = "missing_zone"
	ReasonAllowMiss    = "allow_miss"
	ReasonDenyHit      = "deny_hit"
)

// Evaluate decides whether a shot satisfies a rule.
func Evaluate(shot Shot, rule *Rule) Result {
	if rule == nil || rule.Validation == ValidationNone || rule.Validation == "" || len(rule.Items) == 0 {
		return Result{OK: true, Matched: true}
	}

	rng := shot.Range
	zone := shot.Zone
	if shot.ShotKey != "" {
		if r, z, ok := splitShotKey(shot.ShotKey); ok {
			if rng == "" {
				rng = r
			}
			if zone == "" {
				zone = z
			}
		}
	}

	if rule.RequireRange && rng == "" && !shot.Gamechanger {
		// Degraded pass for low-fidelity input unless the rule is strict.
		return Result{OK: rule.Validation != ValidationStrict, Reason: ReasonMissingRange}
	}

	if zone == "" && !shot.Gamechanger && anyNeedsExactZone(rule.Items) {
		// Degrade-to-wildcard: treat every exact pattern as its range
		// wildcard and re-evaluate with the shot as range-only.
		if evalMembership(rng, "", shot.Gamechanger, degradeItems(rule.Items), rule.Mode) {
			return Result{OK: true, Matched: true, Reason: ReasonMissingZone}
		}
		return Result{OK: rule.Validation != ValidationStrict, Reason: ReasonMissingZone}
	}

	if evalMembership(rng, zone, shot.Gamechanger, rule.Items, rule.Mode) {
		return Result{OK: true, Matched: true}
	}

	reason := ReasonAllowMiss
	if rule.Mode == ModeDeny {
		reason = ReasonDenyHit
	}
	return Result{OK: rule.Validation != ValidationStrict, Reason: reason}
}

// evalMembership reports whether the rule is satisfied: allow mode needs at
// least one matching pattern, deny mode needs none.
func evalMembership(rng, zone string, gamechanger bool, items []string, mode Mode) bool {
	matched := false
	for _, p := range items {
		if matchPattern(p, rng, zone, gamechanger) {
			matched = true
			break
		}
	}
	if mode == ModeDeny {
		return !matched
	}
	return matched
}

func matchPattern(pattern, rng, zone string, gamechanger bool) bool {
	if pattern == "gamechanger" {
		return gamechanger
	}
	if gamechanger {
		return false
	}
	r, z, ok := splitShotKey(pattern)
	if !ok {
		return false
	}
	if r != rng {
		return false
	}
	return z == "*" || z == zone
}

func splitShotKey(key string) (rng, zone string, ok bool) {
	i := strings.IndexByte(key, '_')
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

func anyNeedsExactZone(items []string) bool {
	for _, p := range items {
		if p == "gamechanger" {
			continue
		}
		if _, z, ok := splitShotKey(p); ok && z != "*" {
			return true
		}
	}
	return false
}

func degradeItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		if p == "gamechanger" {
			out = append(out, p)
			continue
		}
		if r, z, ok := splitShotKey(p); ok && z != "*" {
			out = append(out, r+"_*")
			continue
		}
		out = append(out, p)
	}
	return out
}

// Normalize parses a stored shot-rule blob into the canonical Rule. Two
// encodings exist in the wild: the current shape and a legacy one using
// "type"/"patterns"/"strict". Both map onto Rule here so business logic never
// branches on shape.
func Normalize(raw []byte) (*Rule, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rule Rule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return nil, err
	}
	if len(rule.Items) > 0 || rule.Mode != "" {
		if rule.Mode == "" {
			rule.Mode = ModeAllow
		}
		if rule.Validation == "" {
			rule.Validation = ValidationNone
		}
		return &rule, nil
	}

	var legacy struct {
		Type     string   `json:"type"`
		Patterns []string `json:"patterns"`
		Strict   bool     `json:"strict"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, err
	}
	if len(legacy.Patterns) == 0 {
		return nil, nil
	}
	mode := ModeAllow
	if legacy.Type == "deny" {
		mode = ModeDeny
	}
	validation := ValidationSoft
	if legacy.Strict {
		validation = ValidationStrict
	}
	return &Rule{
		Mode:         mode,
		Items:        legacy.Patterns,
		Validation:   validation,
		RequireRange: true,
	}, nil
}
