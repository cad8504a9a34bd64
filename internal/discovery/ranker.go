package discovery

import (
	"sort"
	"time"

	"github.com/openquill/inkwell/backend/internal/models"
)

const (
	// tagWeight is the score contribution per shared tag.
	tagWeight = 10
	// recencyWindowDays caps the recency term: a post this old or older
	// contributes nothing.
	recencyWindowDays = 30
	// relatedLimit is how many related posts are surfaced.
	relatedLimit = 3
	// DefaultRelatedPool bounds the candidate pool fetched for ranking.
	DefaultRelatedPool = 6
)

type scoredPost struct {
	post  models.Post
	score int
}

// RankRelated scores the candidate pool against the reference post and returns
// the top three. Score is tag overlap weighted at 10 points per shared tag
// plus a recency term that decays linearly to zero over 30 days. Ties go to
// the more recent post. Unpublished candidates and the reference itself are
// skipped. A reference without tags degenerates to pure recency.
func RankRelated(ref *models.Post, pool []models.Post, now time.Time) []models.Post {
	scored := make([]scoredPost, 0, len(pool))
	for _, candidate := range pool {
		if !candidate.Published || candidate.ID == ref.ID {
			continue
		}
		scored = append(scored, scoredPost{post: candidate, score: relevanceScore(ref, &candidate, now)})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].post.CreatedAt.After(scored[j].post.CreatedAt)
	})

	if len(scored) > relatedLimit {
		scored = scored[:relatedLimit]
	}
	related := make([]models.Post, len(scored))
	for i, s := range scored {
		related[i] = s.post
	}
	return related
}

func relevanceScore(ref, candidate *models.Post, now time.Time) int {
	score := tagWeight * sharedTagCount(ref.Tags, candidate.Tags)

	daysSince := int(now.Sub(candidate.CreatedAt).Hours() / 24)
	if recency := recencyWindowDays - daysSince; recency > 0 {
		score += recency
	}
	return score
}

func sharedTagCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}
	count := 0
	for _, tag := range b {
		if set[tag] {
			count++
			set[tag] = false // count each shared tag once
		}
	}
	return count
}
