package challenges_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellball/scorekeeper/internal/challenges"
	"github.com/wellball/scorekeeper/internal/database"
	"github.com/wellball/scorekeeper/internal/rules"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (challenges.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := challenges.New(db)
	teardown := func() {
		dbTeardown()
		db.Close()
	}

	return store, db, teardown
}

func TestUpsertAndGetChallenge(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	c := &challenges.Challenge{
		ID:           "deep-water",
		Name:         "Deep Water",
		Difficulty:   "hard",
		TargetScore:  3,
		PointsForWin: 20,
		ShotRule: &rules.Rule{
			Mode:       rules.ModeAllow,
			Items:      []string{"long_*"},
			Validation: rules.ValidationStrict,
		},
	}
	require.NoError(t, store.UpsertChallenge(c))

	got, err := store.GetChallenge("deep-water")
	require.NoError(t, err)
	assert.Equal(t, "Deep Water", got.Name)
	assert.Equal(t, 3, got.TargetScore)
	require.NotNil(t, got.ShotRule)
	assert.Equal(t, rules.ValidationStrict, got.ShotRule.Validation)
	assert.Equal(t, []string{"long_*"}, got.ShotRule.Items)

	// Upsert replaces the existing row.
	c.TargetScore = 5
	c.ShotRule = nil
	require.NoError(t, store.UpsertChallenge(c))

	got, err = store.GetChallenge("deep-water")
	require.NoError(t, err)
	assert.Equal(t, 5, got.TargetScore)
	assert.Nil(t, got.ShotRule)

	_, err = store.GetChallenge("missing")
	assert.ErrorIs(t, err, challenges.ErrChallengeNotFound)
}

func TestLegacyShotRuleBlob(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec(`INSERT INTO challenges (id, name, target_score, points_for_win, shot_rule_json)
		VALUES ('legacy', 'Legacy', 5, 10, '{"type":"deny","patterns":["mid_*"],"strict":true}')`)
	require.NoError(t, err)

	got, err := store.GetChallenge("legacy")
	require.NoError(t, err)
	require.NotNil(t, got.ShotRule)
	assert.Equal(t, rules.ModeDeny, got.ShotRule.Mode)
	assert.Equal(t, rules.ValidationStrict, got.ShotRule.Validation)
}

func TestListChallenges(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.UpsertChallenge(&challenges.Challenge{ID: "b", Name: "Bank Shots", TargetScore: 5, PointsForWin: 10}))
	require.NoError(t, store.UpsertChallenge(&challenges.Challenge{ID: "a", Name: "Around the World", TargetScore: 7, PointsForWin: 10}))

	all, err := store.ListChallenges()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Around the World", all[0].Name)
	assert.Equal(t, "Bank Shots", all[1].Name)
}

func TestSequences(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	seq := &challenges.Sequence{
		ID:           "standard-night",
		Name:         "Standard Night",
		ChallengeIDs: []string{"a", "b", "c"},
	}
	require.NoError(t, store.UpsertSequence(seq))

	got, err := store.GetSequence("standard-night")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got.ChallengeIDs)

	seq.ChallengeIDs = []string{"a", "c"}
	require.NoError(t, store.UpsertSequence(seq))

	got, err = store.GetSequence("standard-night")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got.ChallengeIDs)

	all, err := store.ListSequences()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = store.GetSequence("missing")
	assert.ErrorIs(t, err, challenges.ErrSequenceNotFound)
}
