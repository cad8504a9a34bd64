// Package engagement owns the idempotent view/like counting semantics and the
// client-visible counters derived from them.
package engagement

import (
	"context"
	"errors"
	"log"

	"github.com/openquill/inkwell/backend/internal/models"
	"github.com/openquill/inkwell/backend/internal/repositories"
)

// ErrAuthRequired is returned when an engagement action needs an
// authenticated user. It is checked before any store call is made.
var ErrAuthRequired = errors.New("authentication required")

// LikeStore is the slice of the like repository the ledger needs
type LikeStore interface {
	CreateLike(like *models.Like) error
	DeleteLike(postID string, userID uint) error
	CountLikes(postID string) (int64, error)
	HasLiked(postID string, userID uint) (bool, error)
}

// ViewStore increments the per-post view counter
type ViewStore interface {
	IncrementViewCount(ctx context.Context, postID string) error
}

// CommentCounter supplies the authoritative comment count
type CommentCounter interface {
	CountByPostID(postID string) (int64, error)
}

// LikeResult reports the state after a toggle. LikeCount is re-derived from
// the authoritative like rows, never accumulated from deltas.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Counts is the engagement summary shown alongside a post
type Counts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
	Liked    bool  `json:"liked"`
}

// Ledger coordinates like toggles and view counting against the backing store
type Ledger struct {
	likes    LikeStore
	views    ViewStore
	comments CommentCounter
}

// NewLedger creates a Ledger
func NewLedger(likes LikeStore, views ViewStore, comments CommentCounter) *Ledger {
	return &Ledger{likes: likes, views: views, comments: comments}
}

// ToggleLike flips the like state for the (post, user) pair relative to the
// last known state: read, then decide. Two hazards are reconciled rather than
// surfaced:
//
//   - a racing toggle that created the row first makes our insert hit the
//     uniqueness constraint; that means the pair is liked, so report liked=true
//   - a racing toggle that deleted the row first makes our delete a no-op;
//     the pair is unliked either way, so report liked=false
//
// Any other store failure is returned so the caller can roll back its
// optimistic UI state.
func (l *Ledger) ToggleLike(ctx context.Context, postID string, userID uint) (LikeResult, error) {
	if userID == 0 {
		return LikeResult{}, ErrAuthRequired
	}

	liked, err := l.likes.HasLiked(postID, userID)
	if err != nil {
		return LikeResult{}, err
	}

	var nowLiked bool
	if liked {
		err := l.likes.DeleteLike(postID, userID)
		if err != nil && !errors.Is(err, repositories.ErrLikeNotFound) {
			return LikeResult{}, err
		}
		nowLiked = false
	} else {
		err := l.likes.CreateLike(&models.Like{PostID: postID, UserID: userID})
		if err != nil {
			if !errors.Is(err, repositories.ErrDuplicateLike) {
				return LikeResult{}, err
			}
			// Someone beat us to it; the pair is liked regardless.
		}
		nowLiked = true
	}

	count, err := l.likes.CountLikes(postID)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: nowLiked, LikeCount: count}, nil
}

// RecordView bumps the view counter for one visit. Fire-and-forget: a failure
// is logged and dropped, a missed increment is acceptable. The caller must
// invoke this at most once per visit of a given post.
func (l *Ledger) RecordView(ctx context.Context, postID string) {
	if err := l.views.IncrementViewCount(ctx, postID); err != nil {
		log.Printf("engagement: view increment dropped for post %s: %v", postID, err)
	}
}

// CountComments returns the authoritative comment count for a post, degrading
// to zero on failure.
func (l *Ledger) CountComments(postID string) int64 {
	count, err := l.comments.CountByPostID(postID)
	if err != nil {
		log.Printf("engagement: comment count unavailable for post %s: %v", postID, err)
		return 0
	}
	return count
}

// Summary re-derives the engagement counters for a post from the authoritative
// aggregates. Each counter degrades independently to its zero value; viewCount
// is supplied by the caller from the post document itself. userID zero means
// anonymous and leaves Liked false.
func (l *Ledger) Summary(ctx context.Context, postID string, userID uint, viewCount int64) Counts {
	counts := Counts{Views: viewCount}

	if likes, err := l.likes.CountLikes(postID); err == nil {
		counts.Likes = likes
	} else {
		log.Printf("engagement: like count unavailable for post %s: %v", postID, err)
	}

	counts.Comments = l.CountComments(postID)

	if userID != 0 {
		if liked, err := l.likes.HasLiked(postID, userID); err == nil {
			counts.Liked = liked
		} else {
			log.Printf("engagement: like status unavailable for post %s: %v", postID, err)
		}
	}
	return counts
}
