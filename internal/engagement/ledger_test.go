package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type likeKey struct {
	postID string
	userID uint
}

// memLikeStore enforces the same at-most-one-row-per-pair rule the database
// unique index does, so the reconciliation paths can be exercised directly.
// Deletes remove the row outright, matching the Like model: a deleted pair
// frees its index slot, so a later re-like inserts cleanly.
type memLikeStore struct {
	rows map[likeKey]bool

	failHasLiked   error
	failCountLikes error

	// when set, the next CreateLike/DeleteLike behaves as if a concurrent
	// toggle already changed the row between the read and the write
	raceInsert bool
	raceDelete bool
}

func newMemLikeStore() *memLikeStore {
	return &memLikeStore{rows: map[likeKey]bool{}}
}

func (s *memLikeStore) CreateLike(like *models.Like) error {
	key := likeKey{like.PostID, like.UserID}
	if s.raceInsert {
		s.raceInsert = false
		s.rows[key] = true
		return repositories.ErrDuplicateLike
	}
	if s.rows[key] {
		return repositories.ErrDuplicateLike
	}
	s.rows[key] = true
	return nil
}

func (s *memLikeStore) DeleteLike(postID string, userID uint) error {
	key := likeKey{postID, userID}
	if s.raceDelete {
		s.raceDelete = false
		delete(s.rows, key)
		return repositories.ErrLikeNotFound
	}
	if !s.rows[key] {
		return repositories.ErrLikeNotFound
	}
	delete(s.rows, key)
	return nil
}

func (s *memLikeStore) CountLikes(postID string) (int64, error) {
	if s.failCountLikes != nil {
		return 0, s.failCountLikes
	}
	var n int64
	for key := range s.rows {
		if key.postID == postID {
			n++
		}
	}
	return n, nil
}

func (s *memLikeStore) HasLiked(postID string, userID uint) (bool, error) {
	if s.failHasLiked != nil {
		return false, s.failHasLiked
	}
	return s.rows[likeKey{postID, userID}], nil
}

type memViewStore struct {
	counts map[string]int64
	err    error
}

func newMemViewStore() *memViewStore {
	return &memViewStore{counts: map[string]int64{}}
}

func (s *memViewStore) IncrementViewCount(ctx context.Context, postID string) error {
	if s.err != nil {
		return s.err
	}
	s.counts[postID]++
	return nil
}

type memCommentCounter struct {
	counts map[string]int64
	err    error
}

func (s *memCommentCounter) CountByPostID(postID string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[postID], nil
}

func newTestLedger() (*Ledger, *memLikeStore, *memViewStore, *memCommentCounter) {
	likes := newMemLikeStore()
	views := newMemViewStore()
	comments := &memCommentCounter{counts: map[string]int64{}}
	return NewLedger(likes, views, comments), likes, views, comments
}

const postID = "66000000000000000000000a"

func TestToggleLikeAlternatesState(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()
	ctx := context.Background()

	res, err := ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)

	res, err = ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, int64(0), res.LikeCount)

	res, err = ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)

	// Never more than one row per pair, whatever the toggle history.
	assert.Len(t, likes.rows, 1)
}

func TestToggleLikeRelikeAfterUnlikeInsertsCleanly(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)
	_, err = ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)

	// The unlike must have freed the pair's unique-index slot: the re-like is
	// a clean insert, not a duplicate reconciled against a leftover row.
	res, err := ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)

	liked, err := likes.HasLiked(postID, 1)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestToggleLikeCountsAreRederivedAcrossUsers(t *testing.T) {
	ledger, _, _, _ := newTestLedger()
	ctx := context.Background()

	_, err := ledger.ToggleLike(ctx, postID, 1)
	require.NoError(t, err)
	res, err := ledger.ToggleLike(ctx, postID, 2)
	require.NoError(t, err)

	assert.True(t, res.Liked)
	assert.Equal(t, int64(2), res.LikeCount)
}

func TestToggleLikeRequiresAuthentication(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()

	_, err := ledger.ToggleLike(context.Background(), postID, 0)

	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, likes.rows)
}

func TestToggleLikeReconcilesRacingInsert(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()
	likes.raceInsert = true

	res, err := ledger.ToggleLike(context.Background(), postID, 1)

	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)
	assert.Len(t, likes.rows, 1)
}

func TestToggleLikeReconcilesRacingDelete(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()
	likes.rows[likeKey{postID, 1}] = true
	likes.raceDelete = true

	res, err := ledger.ToggleLike(context.Background(), postID, 1)

	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Empty(t, likes.rows)
}

func TestToggleLikePropagatesUnexpectedStoreErrors(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()
	likes.failHasLiked = errors.New("pg down")

	_, err := ledger.ToggleLike(context.Background(), postID, 1)
	assert.Error(t, err)

	likes.failHasLiked = nil
	likes.failCountLikes = errors.New("pg down")
	_, err = ledger.ToggleLike(context.Background(), postID, 1)
	assert.Error(t, err)
}

func TestRecordViewIncrementsByExactlyOne(t *testing.T) {
	ledger, _, views, _ := newTestLedger()
	ctx := context.Background()

	ledger.RecordView(ctx, postID)
	assert.Equal(t, int64(1), views.counts[postID])

	ledger.RecordView(ctx, postID)
	assert.Equal(t, int64(2), views.counts[postID])
}

func TestRecordViewDropsStoreFailure(t *testing.T) {
	ledger, _, views, _ := newTestLedger()
	views.err = errors.New("mongo down")

	// Must not panic or surface the error.
	ledger.RecordView(context.Background(), postID)

	assert.Empty(t, views.counts)
}

func TestSummaryAggregatesCounters(t *testing.T) {
	ledger, likes, _, comments := newTestLedger()
	likes.rows[likeKey{postID, 1}] = true
	likes.rows[likeKey{postID, 2}] = true
	comments.counts[postID] = 5

	counts := ledger.Summary(context.Background(), postID, 1, 120)

	assert.Equal(t, int64(2), counts.Likes)
	assert.Equal(t, int64(5), counts.Comments)
	assert.Equal(t, int64(120), counts.Views)
	assert.True(t, counts.Liked)
}

func TestSummaryAnonymousUserIsNeverLiked(t *testing.T) {
	ledger, likes, _, _ := newTestLedger()
	likes.rows[likeKey{postID, 1}] = true

	counts := ledger.Summary(context.Background(), postID, 0, 0)

	assert.Equal(t, int64(1), counts.Likes)
	assert.False(t, counts.Liked)
}

func TestSummaryCountersDegradeIndependently(t *testing.T) {
	ledger, likes, _, comments := newTestLedger()
	likes.rows[likeKey{postID, 1}] = true
	likes.failCountLikes = errors.New("pg down")
	comments.counts[postID] = 3

	counts := ledger.Summary(context.Background(), postID, 1, 7)

	assert.Equal(t, int64(0), counts.Likes)
	assert.Equal(t, int64(3), counts.Comments)
	assert.Equal(t, int64(7), counts.Views)
	assert.True(t, counts.Liked)
}

func TestCountCommentsDegradesToZero(t *testing.T) {
	ledger, _, _, comments := newTestLedger()
	comments.err = errors.New("pg down")

	assert.Equal(t, int64(0), ledger.CountComments(postID))
}
