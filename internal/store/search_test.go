package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcinsik/knowledge-assistant/internal/api"
)

func TestRapidEditsOnlyLatestTokenFires(t *testing.T) {
	s := loadedStore(sampleItems()...)

	needRemote, catToken := s.SetQuery("cat")
	require.True(t, needRemote)
	needRemote, dogToken := s.SetQuery("dog")
	require.True(t, needRemote)

	// Both debounce timers fire; only the latest edit may reach the
	// network.
	assert.False(t, s.ShouldSearch(catToken))
	assert.True(t, s.ShouldSearch(dogToken))
}

func TestLateResponseDoesNotOverwriteNewerQuery(t *testing.T) {
	s := loadedStore(sampleItems()...)

	_, catToken := s.SetQuery("cat")
	_, dogToken := s.SetQuery("dog")

	dogResults := []api.KnowledgeItem{{ID: 2, Title: "Dog Training"}}
	require.True(t, s.ApplySearchResults(dogToken, dogResults))

	catResults := []api.KnowledgeItem{{ID: 1, Title: "Cat Care"}}
	assert.False(t, s.ApplySearchResults(catToken, catResults), "late response for a superseded query is discarded")
	assert.Equal(t, []int{2}, ids(s.Display()))
}

func TestFailSearchEmptiesDisplay(t *testing.T) {
	s := loadedStore(sampleItems()...)
	require.Len(t, s.Display(), 2)

	_, token := s.SetQuery("patterns")
	require.True(t, s.FailSearch(token))

	// Failure must be visibly different from the previous local list.
	assert.Empty(t, s.Display())
}

func TestStaleFailureIgnored(t *testing.T) {
	s := loadedStore(sampleItems()...)

	_, oldToken := s.SetQuery("cat")
	_, newToken := s.SetQuery("dog")
	require.True(t, s.ApplySearchResults(newToken, []api.KnowledgeItem{{ID: 2}}))

	assert.False(t, s.FailSearch(oldToken))
	assert.Equal(t, []int{2}, ids(s.Display()), "a stale failure does not clear fresh results")
}

func TestClearQueryRestoresLocalDisplay(t *testing.T) {
	s := loadedStore(sampleItems()...)

	_, token := s.SetQuery("patterns")
	require.True(t, s.ApplySearchResults(token, []api.KnowledgeItem{{ID: 2}}))
	require.Len(t, s.Display(), 1)

	s.ClearQuery()
	assert.False(t, s.SearchActive())
	assert.Len(t, s.Display(), 2)
}

func TestCancelInvalidatesOutstandingTokens(t *testing.T) {
	s := loadedStore(sampleItems()...)

	_, token := s.SetQuery("cat")
	s.CancelSearch()

	assert.False(t, s.ShouldSearch(token))
	assert.False(t, s.ApplySearchResults(token, []api.KnowledgeItem{{ID: 1}}))
}
