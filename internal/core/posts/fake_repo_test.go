package posts

import (
	"context"
	"sync"
)

// fakeRepo is an in-memory Repository with the same toggle and append
// semantics the Postgres implementation gets from its constraints. Used by
// scenario tests that need real state across calls.
type fakeRepo struct {
	mu     sync.Mutex
	posts  map[string]*Post
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{posts: make(map[string]*Post)}
}

func (f *fakeRepo) Create(ctx context.Context, post *Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *post
	stored.Likes = []string{}
	stored.Replies = []Reply{}
	f.posts[post.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *stored
	copied.Likes = append([]string{}, stored.Likes...)
	copied.Replies = append([]Reply{}, stored.Replies...)
	return &copied, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]*Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := []*Post{}
	for _, p := range f.posts {
		copied := *p
		all = append(all, &copied)
	}
	return all, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeRepo) ToggleLike(ctx context.Context, postID, userID string) (LikeAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.posts[postID]
	if !ok {
		return "", ErrNotFound
	}
	for i, id := range stored.Likes {
		if id == userID {
			stored.Likes = append(stored.Likes[:i], stored.Likes[i+1:]...)
			return ActionUnliked, nil
		}
	}
	stored.Likes = append(stored.Likes, userID)
	return ActionLiked, nil
}

func (f *fakeRepo) AppendReply(ctx context.Context, reply *Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.posts[reply.PostID]
	if !ok {
		return ErrNotFound
	}
	f.nextID++
	reply.ID = f.nextID
	stored.Replies = append(stored.Replies, *reply)
	return nil
}
