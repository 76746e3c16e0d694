package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellball/scorekeeper/internal/rules"
)

func TestEvaluateNoRule(t *testing.T) {
	res := rules.Evaluate(rules.Shot{Range: "mid", Zone: "left"}, nil)
	assert.True(t, res.OK)
	assert.True(t, res.Matched)

	res = rules.Evaluate(rules.Shot{}, &rules.Rule{Validation: rules.ValidationNone, Items: []string{"mid_*"}})
	assert.True(t, res.OK)

	res = rules.Evaluate(rules.Shot{}, &rules.Rule{Mode: rules.ModeAllow, Validation: rules.ValidationStrict})
	assert.True(t, res.OK, "a rule without items matches everything")
}

func TestEvaluateAllow(t *testing.T) {
	rule := &rules.Rule{
		Mode:       rules.ModeAllow,
		Items:      []string{"long_left", "long_right"},
		Validation: rules.ValidationStrict,
	}

	t.Run("matching shot passes", func(t *testing.T) {
		res := rules.Evaluate(rules.Shot{Range: "long", Zone: "left"}, rule)
		assert.True(t, res.OK)
		assert.True(t, res.Matched)
	})

	t.Run("non-matching shot fails strict", func(t *testing.T) {
		res := rules.Evaluate(rules.Shot{Range: "mid", Zone: "left"}, rule)
		assert.False(t, res.OK)
		assert.Equal(t, rules.ReasonAllowMiss, res.Reason)
	})

	t.Run("non-matching shot passes soft with reason", func(t *testing.T) {
		soft := *rule
		soft.Validation = rules.ValidationSoft
		res := rules.Evaluate(rules.Shot{Range: "mid", Zone: "left"}, &soft)
		assert.True(t, res.OK)
		assert.False(t, res.Matched)
		assert.Equal(t, rules.ReasonAllowMiss, res.Reason)
	})
}

func TestEvaluateDeny(t *testing.T) {
	rule := &rules.Rule{
		Mode:       rules.ModeDeny,
		Items:      []string{"mid_*"},
		Validation: rules.ValidationStrict,
	}

	res := rules.Evaluate(rules.Shot{Range: "long", Zone: "center"}, rule)
	assert.True(t, res.OK)

	res = rules.Evaluate(rules.Shot{Range: "mid", Zone: "center"}, rule)
	assert.False(t, res.OK)
	assert.Equal(t, rules.ReasonDenyHit, res.Reason)
}

func TestEvaluateWildcardAndShotKey(t *testing.T) {
	rule := &rules.Rule{
		Mode:       rules.ModeAllow,
		Items:      []string{"long_*"},
		Validation: rules.ValidationStrict,
	}

	res := rules.Evaluate(rules.Shot{Range: "long"}, rule)
	assert.True(t, res.OK, "wildcard zone matches a zoneless shot")

	res = rules.Evaluate(rules.Shot{ShotKey: "long_corner"}, rule)
	assert.True(t, res.OK, "range and zone are recovered from the shot key")

	res = rules.Evaluate(rules.Shot{ShotKey: "mid_corner"}, rule)
	assert.False(t, res.OK)
}

func TestEvaluateGamechanger(t *testing.T) {
	rule := &rules.Rule{
		Mode:       rules.ModeAllow,
		Items:      []string{"long_*", "gamechanger"},
		Validation: rules.ValidationStrict,
	}

	res := rules.Evaluate(rules.Shot{Gamechanger: true}, rule)
	assert.True(t, res.OK)

	// A gamechanger never satisfies a positional pattern.
	positional := &rules.Rule{Mode: rules.ModeAllow, Items: []string{"long_*"}, Validation: rules.ValidationStrict}
	res = rules.Evaluate(rules.Shot{Gamechanger: true}, positional)
	assert.False(t, res.OK)
}

func TestEvaluateMissingData(t *testing.T) {
	t.Run("missing range", func(t *testing.T) {
		rule := &rules.Rule{
			Mode:         rules.ModeAllow,
			Items:        []string{"long_*"},
			Validation:   rules.ValidationSoft,
			RequireRange: true,
		}
		res := rules.Evaluate(rules.Shot{}, rule)
		assert.True(t, res.OK)
		assert.Equal(t, rules.ReasonMissingRange, res.Reason)

		rule.Validation = rules.ValidationStrict
		res = rules.Evaluate(rules.Shot{}, rule)
		assert.False(t, res.OK)
		assert.Equal(t, rules.ReasonMissingRange, res.Reason)
	})

	t.Run("missing zone degrades to range wildcard", func(t *testing.T) {
		rule := &rules.Rule{
			Mode:       rules.ModeAllow,
			Items:      []string{"long_left", "long_right"},
			Validation: rules.ValidationStrict,
		}
		res := rules.Evaluate(rules.Shot{Range: "long"}, rule)
		assert.True(t, res.OK)
		assert.True(t, res.Matched)
		assert.Equal(t, rules.ReasonMissingZone, res.Reason)

		res = rules.Evaluate(rules.Shot{Range: "mid"}, rule)
		assert.False(t, res.OK)
		assert.Equal(t, rules.ReasonMissingZone, res.Reason)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("empty blob", func(t *testing.T) {
		rule, err := rules.Normalize(nil)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("current shape", func(t *testing.T) {
		rule, err := rules.Normalize([]byte(`{"mode":"deny","items":["mid_*"],"validation":"strict"}`))
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, rules.ModeDeny, rule.Mode)
		assert.Equal(t, rules.ValidationStrict, rule.Validation)
	})

	t.Run("current shape defaults", func(t *testing.T) {
		rule, err := rules.Normalize([]byte(`{"items":["long_left"]}`))
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, rules.ModeAllow, rule.Mode)
		assert.Equal(t, rules.ValidationNone, rule.Validation)
	})

	t.Run("legacy shape", func(t *testing.T) {
		rule, err := rules.Normalize([]byte(`{"type":"deny","patterns":["mid_*"],"strict":true}`))
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, rules.ModeDeny, rule.Mode)
		assert.Equal(t, []string{"mid_*"}, rule.Items)
		assert.Equal(t, rules.ValidationStrict, rule.Validation)
		assert.True(t, rule.RequireRange)
	})

	t.Run("legacy shape without patterns", func(t *testing.T) {
		rule, err := rules.Normalize([]byte(`{"type":"allow"}`))
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := rules.Normalize([]byte(`{`))
		assert.Error(t, err)
	})
}
