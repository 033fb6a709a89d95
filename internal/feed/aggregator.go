package feed

import (
	"context"
	"sync"

	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"golang.org/x/sync/errgroup"
)

// DataService is the slice of the data access layer the aggregator consumes
type DataService interface {
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetUserPosts(ctx context.Context, userID string) ([]models.Post, error)
	GetUserProfile(userID string) (*models.User, error)
	GetPostLikes(postID string) ([]models.Like, error)
	GetPostComments(postID string) ([]models.Comment, error)
	IsPostLikedByUser(userID, postID string) (bool, error)
	ToggleLike(userID, postID string) (bool, error)
	CreateComment(userID, postID, content string) (*models.Comment, error)
}

// EnrichedPost is a post merged with its like count, comment count, and the
// viewer's liked flag
type EnrichedPost struct {
	models.Post
	LikeCount     int  `json:"like_count"`
	CommentCount  int  `json:"comment_count"`
	LikedByViewer bool `json:"liked_by_viewer"`
}

// Profile is a user profile together with their enriched posts
type Profile struct {
	User  *models.User   `json:"user"`
	Posts []EnrichedPost `json:"posts"`
}

// Aggregator builds the feed and profile views: it fetches posts, fans out
// the per-post enrichment lookups concurrently, and keeps per-viewer view
// state so like toggles can be applied optimistically and rolled back when
// the mutation fails. One Aggregator serves both the feed and profile
// surfaces.
type Aggregator struct {
	data DataService

	mu      sync.Mutex
	viewers map[string]*ViewState
}

// NewAggregator creates a new Aggregator
func NewAggregator(data DataService) *Aggregator {
	return &Aggregator{
		data:    data,
		viewers: make(map[string]*ViewState),
	}
}

// StateFor returns the view state for a viewer, creating it on first use.
// The empty viewer ID tracks anonymous loads.
func (a *Aggregator) StateFor(viewerID string) *ViewState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.viewers[viewerID]
	if !ok {
		st = newViewState()
		a.viewers[viewerID] = st
	}
	return st
}

// LoadFeed fetches all posts and enriches each with its like count, comment
// count, and the viewer's liked flag, replacing the viewer's view state. A
// refresh is the same call; whichever load finishes under the newest
// generation wins.
func (a *Aggregator) LoadFeed(ctx context.Context, viewerID string) ([]EnrichedPost, error) {
	state := a.StateFor(viewerID)
	gen := state.beginLoad()

	posts, err := a.data.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	enriched, states, err := a.enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	state.replace(gen, states)
	return enriched, nil
}

// LoadProfile fetches one user's profile and posts, enriched the same way as
// the feed. Profile loads overlay the viewer's state instead of replacing
// it.
func (a *Aggregator) LoadProfile(ctx context.Context, userID, viewerID string) (*Profile, error) {
	user, err := a.data.GetUserProfile(userID)
	if err != nil {
		return nil, err
	}

	state := a.StateFor(viewerID)
	gen := state.beginLoad()

	posts, err := a.data.GetUserPosts(ctx, userID)
	if err != nil {
		return nil, err
	}

	enriched, states, err := a.enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	state.merge(gen, states)
	return &Profile{User: user, Posts: enriched}, nil
}

// enrich issues the three per-post lookups concurrently and gathers them
// into merged view models, preserving the input order.
func (a *Aggregator) enrich(ctx context.Context, viewerID string, posts []models.Post) ([]EnrichedPost, map[string]PostState, error) {
	enriched := make([]EnrichedPost, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	for i, post := range posts {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			pid := post.ID.Hex()
			likes, err := a.data.GetPostLikes(pid)
			if err != nil {
				return err
			}
			comments, err := a.data.GetPostComments(pid)
			if err != nil {
				return err
			}
			liked := false
			if viewerID != "" {
				if liked, err = a.data.IsPostLikedByUser(viewerID, pid); err != nil {
					return err
				}
			}

			enriched[i] = EnrichedPost{
				Post:          post,
				LikeCount:     len(likes),
				CommentCount:  len(comments),
				LikedByViewer: liked,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	states := make(map[string]PostState, len(enriched))
	for _, ep := range enriched {
		states[ep.ID.Hex()] = PostState{
			Liked:        ep.LikedByViewer,
			LikeCount:    ep.LikeCount,
			CommentCount: ep.CommentCount,
		}
	}
	return enriched, states, nil
}

// ToggleLike flips the viewer's like on a post optimistically: the local
// state changes first, then the mutation runs, and on failure the snapshot
// is restored so the view never shows a like the store rejected.
func (a *Aggregator) ToggleLike(viewerID, postID string) (PostState, error) {
	state := a.StateFor(viewerID)
	snapshot, _ := state.Get(postID)

	optimistic := snapshot
	if snapshot.Liked {
		optimistic.Liked = false
		if optimistic.LikeCount > 0 {
			optimistic.LikeCount--
		}
	} else {
		optimistic.Liked = true
		optimistic.LikeCount++
	}
	state.set(postID, optimistic)

	nowLiked, err := a.data.ToggleLike(viewerID, postID)
	if err != nil {
		state.set(postID, snapshot)
		return snapshot, err
	}

	// A concurrent toggle can make the store land on the opposite state;
	// adopt the confirmed answer.
	if nowLiked != optimistic.Liked {
		optimistic.Liked = nowLiked
		state.set(postID, optimistic)
	}
	return optimistic, nil
}

// AddComment creates a comment and then re-fetches the post's comment list,
// deriving the new count from the fetched length rather than incrementing
// locally.
func (a *Aggregator) AddComment(viewerID, postID, content string) ([]models.Comment, error) {
	if _, err := a.data.CreateComment(viewerID, postID, content); err != nil {
		return nil, err
	}

	comments, err := a.data.GetPostComments(postID)
	if err != nil {
		return nil, err
	}
	a.StateFor(viewerID).setCommentCount(postID, len(comments))
	return comments, nil
}
