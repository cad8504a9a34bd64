package search

import (
	"context"
	"testing"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func post(t *testing.T, hex, title, content string, tags ...string) models.Post {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	require.NoError(t, err)
	return models.Post{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      tags,
		Published: true,
	}
}

func TestSearchMatchesTitleAndContent(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild([]models.Post{
		post(t, "000000000000000000000001", "Profiling Go services", "pprof walkthrough"),
		post(t, "000000000000000000000002", "Static sites", "deploying with rsync"),
	}))

	ids, err := idx.Search(context.Background(), "profiling")
	require.NoError(t, err)
	assert.Equal(t, []string{"000000000000000000000001"}, ids)

	ids, err = idx.Search(context.Background(), "rsync")
	require.NoError(t, err)
	assert.Equal(t, []string{"000000000000000000000002"}, ids)
}

func TestSearchMatchesTags(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild([]models.Post{
		post(t, "000000000000000000000001", "Untitled", "nothing notable", "databases"),
	}))

	ids, err := idx.Search(context.Background(), "databases")
	require.NoError(t, err)
	assert.Equal(t, []string{"000000000000000000000001"}, ids)
}

func TestSearchNoMatchesReturnsEmpty(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Rebuild([]models.Post{
		post(t, "000000000000000000000001", "Profiling Go services", "pprof walkthrough"),
	}))

	ids, err := idx.Search(context.Background(), "haskell")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexPostUnpublishedIsRemoved(t *testing.T) {
	idx := newTestIndex(t)
	p := post(t, "000000000000000000000001", "Profiling Go services", "pprof walkthrough")
	require.NoError(t, idx.IndexPost(&p))

	p.Published = false
	require.NoError(t, idx.IndexPost(&p))

	ids, err := idx.Search(context.Background(), "profiling")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexPostUpdateReplacesDocument(t *testing.T) {
	idx := newTestIndex(t)
	p := post(t, "000000000000000000000001", "Profiling Go services", "pprof walkthrough")
	require.NoError(t, idx.IndexPost(&p))

	p.Title = "Tracing Go services"
	require.NoError(t, idx.IndexPost(&p))

	ids, err := idx.Search(context.Background(), "tracing")
	require.NoError(t, err)
	assert.Equal(t, []string{"000000000000000000000001"}, ids)

	ids, err = idx.Search(context.Background(), "profiling")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRemovePostUnindexedIsNoOp(t *testing.T) {
	idx := newTestIndex(t)

	assert.NoError(t, idx.RemovePost("000000000000000000000001"))
}
