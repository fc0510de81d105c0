package services

import (
	"context"
	"testing"

	"league-portal/models"
	"league-portal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ShortQueriesAreEmpty(t *testing.T) {
	env := newTestEnv(t, true)
	env.seedTeam(t, 1, "Shanghai Port", "上海海港")

	for _, q := range []string{"", "  ", "sh", "上海"} {
		res, err := env.search.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, res.Teams, "query %q", q)
		assert.Empty(t, res.Players)
		assert.NotNil(t, res.Cities)
		assert.NotNil(t, res.Countries)
		assert.NotNil(t, res.Languages)
	}
}

func TestSearch_TeamsAndPlayersUseTheirOwnIndex(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	env.seedTeam(t, 1, "Shanghai Port", "上海海港")
	env.seedTeam(t, 2, "Beijing Guoan", "北京国安")
	env.seedPlayer(t, 10, 1, "Oscar")
	env.seedPlayer(t, 11, 2, "Zhang Yuning")

	res, err := env.search.Search(ctx, "Shanghai")
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	assert.Equal(t, 1, res.Teams[0].ID)
	assert.Empty(t, res.Players, "players are not matched by their team's name")

	res, err = env.search.Search(ctx, "osc")
	require.NoError(t, err)
	assert.Empty(t, res.Teams)
	require.Len(t, res.Players, 1)
	assert.Equal(t, 10, res.Players[0].ID)
}

func TestSearch_DropsHitsMissingFromDatabase(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	env.seedTeam(t, 1, "Shandong Taishan", "")
	env.seedTeam(t, 2, "Shanghai Shenhua", "")

	// delete behind the index's back
	require.NoError(t, env.db.Where("teamid = ?", 2).Delete(&models.Team{}).Error)

	res, err := env.search.Search(ctx, "shan")
	require.NoError(t, err)
	require.Len(t, res.Teams, 1)
	assert.Equal(t, 1, res.Teams[0].ID)
}

func TestIndexAllAndReindex(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	// rows written straight to the database are invisible until a rebuild
	require.NoError(t, env.teams.Create(ctx, &models.Team{ID: 3, Name: "Wuhan Three Towns"}))
	require.NoError(t, env.players.Create(ctx, &models.Player{ID: 30, TeamID: 3, Name: "Marcao"}))

	res, err := env.search.Search(ctx, "wuhan")
	require.NoError(t, err)
	assert.Empty(t, res.Teams)

	counts, err := env.search.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[search.KindTeam])
	assert.Equal(t, 1, counts[search.KindPlayer])

	res, err = env.search.Search(ctx, "wuhan")
	require.NoError(t, err)
	assert.Len(t, res.Teams, 1)
	res, err = env.search.Search(ctx, "marc")
	require.NoError(t, err)
	assert.Len(t, res.Players, 1)

	_, err = env.search.IndexAll(ctx, search.Kind("city"))
	assert.ErrorIs(t, err, search.ErrUnknownKind)
}
