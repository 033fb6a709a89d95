package feed

import "sync"

// PostState is the per-post slice of a viewer's feed state
type PostState struct {
	Liked        bool `json:"liked"`
	LikeCount    int  `json:"like_count"`
	CommentCount int  `json:"comment_count"`
}

// ViewState holds one viewer's post states. Loads are stamped with a
// generation; a commit from a load that another refresh has superseded is
// discarded, so a slow stale fetch cannot clobber fresher state.
type ViewState struct {
	mu         sync.RWMutex
	generation uint64
	posts      map[string]PostState
}

func newViewState() *ViewState {
	return &ViewState{posts: make(map[string]PostState)}
}

// beginLoad starts a new load generation and returns its stamp
func (v *ViewState) beginLoad() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	return v.generation
}

// replace swaps in a full set of post states if gen is still current
func (v *ViewState) replace(gen uint64, states map[string]PostState) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return false
	}
	v.posts = states
	return true
}

// merge overlays post states if gen is still current, keeping entries the
// load did not touch
func (v *ViewState) merge(gen uint64, states map[string]PostState) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return false
	}
	for id, st := range states {
		v.posts[id] = st
	}
	return true
}

// Get returns the tracked state for a post
func (v *ViewState) Get(postID string) (PostState, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	st, ok := v.posts[postID]
	return st, ok
}

func (v *ViewState) set(postID string, st PostState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.posts[postID] = st
}

func (v *ViewState) setCommentCount(postID string, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.posts[postID]
	st.CommentCount = count
	v.posts[postID] = st
}
