package posts

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ripple/internal/core/users"
)

// Mock repositories for testing
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepository) ListAll(ctx context.Context) ([]*Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

func (m *mockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) ToggleLike(ctx context.Context, postID, userID string) (LikeAction, error) {
	args := m.Called(ctx, postID, userID)
	return args.Get(0).(LikeAction), args.Error(1)
}

func (m *mockPostRepository) AppendReply(ctx context.Context, reply *Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetByID(ctx context.Context, id string) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockDirectory) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *mockDirectory) Following(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockMediaStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func knownUser(id string) *users.User {
	return &users.User{
		ID:        id,
		Username:  "user-" + id,
		CreatedAt: time.Now().UTC(),
	}
}

// A 1x1 transparent PNG, the smallest real image payload around
var tinyPNG = func() string {
	raw := []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
		0x0D, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
	}
	return base64.StdEncoding.EncodeToString(raw)
}()

func TestCreatePost_TextLengthBoundary(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	dir.On("GetByID", mock.Anything, "u1").Return(knownUser("u1"), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*posts.Post")).Return(nil)

	// Exactly 500 characters succeeds
	created, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     strings.Repeat("a", 500),
	})
	require.NoError(t, err)
	assert.Len(t, created.Text, 500)
	assert.Empty(t, created.Likes)
	assert.Empty(t, created.Replies)
	assert.NotEmpty(t, created.ID)

	// 501 characters fails with a validation error
	_, err = service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     strings.Repeat("a", 501),
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreatePost_TextLengthCountsGraphemes(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	dir.On("GetByID", mock.Anything, "u1").Return(knownUser("u1"), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*posts.Post")).Return(nil)

	// A family emoji is one grapheme but seven code points. 500 of them is
	// exactly the limit no matter how many code points that comes to.
	family := "\U0001F468‍\U0001F469‍\U0001F467‍\U0001F466"

	_, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     strings.Repeat(family, 500),
	})
	require.NoError(t, err)

	_, err = service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     strings.Repeat(family, 501),
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCreatePost_MissingFields(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	_, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "",
		CallerID: "u1",
		Text:     "hello",
	})
	assert.True(t, IsValidationError(err))

	_, err = service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     "",
	})
	assert.True(t, IsValidationError(err))

	repo.AssertNotCalled(t, "Create")
}

func TestCreatePost_CallerMustBeAuthor(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	// Every other field is valid; only the caller differs from the author
	_, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u2",
		Text:     "hello",
	})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Nothing downstream runs after the authorization failure
	dir.AssertNotCalled(t, "GetByID")
	repo.AssertNotCalled(t, "Create")
	store.AssertNotCalled(t, "Upload")
}

func TestCreatePost_AuthorNotFound(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	dir.On("GetByID", mock.Anything, "ghost").Return(nil, users.ErrUserNotFound)

	_, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "ghost",
		CallerID: "ghost",
		Text:     "hello",
	})
	assert.True(t, IsNotFound(err))
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePost_UploadsImageAndPersistsURL(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	dir.On("GetByID", mock.Anything, "u1").Return(knownUser("u1"), nil)
	store.On("Upload", mock.Anything, mock.Anything, "image/png").
		Return("http://localhost:9000/ripple-media/posts/key123.png", nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*posts.Post")).Return(nil)

	created, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     "look at this",
		Image:    tinyPNG,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ImageURL)
	assert.Equal(t, "http://localhost:9000/ripple-media/posts/key123.png", *created.ImageURL)
	store.AssertExpectations(t)
}

func TestCreatePost_UploadFailureIsUpstreamError(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	dir.On("GetByID", mock.Anything, "u1").Return(knownUser("u1"), nil)
	store.On("Upload", mock.Anything, mock.Anything, "image/png").
		Return("", errors.New("connection refused"))

	_, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     "look at this",
		Image:    tinyPNG,
	})
	assert.ErrorIs(t, err, ErrMediaUpload)
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePost_PersistFailureCleansUpUpload(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	dir.On("GetByID", mock.Anything, "u1").Return(knownUser("u1"), nil)
	store.On("Upload", mock.Anything, mock.Anything, "image/png").
		Return("http://localhost:9000/ripple-media/posts/key123.png", nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*posts.Post")).
		Return(errors.New("db down"))
	store.On("Delete", mock.Anything, "key123").Return(nil)

	_, err := service.CreatePost(context.Background(), CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     "look at this",
		Image:    tinyPNG,
	})
	require.Error(t, err)
	store.AssertCalled(t, "Delete", mock.Anything, "key123")
}

func TestDeletePost_NonAuthorIsRejected(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	imageURL := "http://localhost:9000/ripple-media/posts/pic42.jpg"
	repo.On("GetByID", mock.Anything, "p1").Return(&Post{
		ID:       "p1",
		AuthorID: "u1",
		Text:     "mine",
		ImageURL: &imageURL,
	}, nil)

	err := service.DeletePost(context.Background(), "p1", "u2")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Post and image stay untouched
	repo.AssertNotCalled(t, "Delete")
	store.AssertNotCalled(t, "Delete")
}

func TestDeletePost_AuthorDeletesPostAndImage(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	imageURL := "http://localhost:9000/ripple-media/posts/pic42.jpg"
	repo.On("GetByID", mock.Anything, "p1").Return(&Post{
		ID:       "p1",
		AuthorID: "u1",
		Text:     "mine",
		ImageURL: &imageURL,
	}, nil)
	// The media identifier is the last path segment, extension stripped
	store.On("Delete", mock.Anything, "pic42").Return(nil)
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	err := service.DeletePost(context.Background(), "p1", "u1")
	require.NoError(t, err)
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestDeletePost_MediaFailureStillDeletesRecord(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	imageURL := "http://localhost:9000/ripple-media/posts/pic42.jpg"
	repo.On("GetByID", mock.Anything, "p1").Return(&Post{
		ID:       "p1",
		AuthorID: "u1",
		Text:     "mine",
		ImageURL: &imageURL,
	}, nil)
	store.On("Delete", mock.Anything, "pic42").Return(errors.New("store unavailable"))
	repo.On("Delete", mock.Anything, "p1").Return(nil)

	// The record of truth wins over media cleanup
	err := service.DeletePost(context.Background(), "p1", "u1")
	require.NoError(t, err)
	repo.AssertCalled(t, "Delete", mock.Anything, "p1")
}

func TestDeletePost_NotFound(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, ErrNotFound)

	err := service.DeletePost(context.Background(), "missing", "u1")
	assert.True(t, IsNotFound(err))
}

func TestReplyToPost_EmptyTextRejected(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	_, err := service.ReplyToPost(context.Background(), ReplyRequest{
		PostID:   "p1",
		AuthorID: "u2",
		Text:     "",
	})
	assert.True(t, IsValidationError(err))
	repo.AssertNotCalled(t, "AppendReply")
}

func TestReplyToPost_SnapshotsAuthor(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	repo.On("AppendReply", mock.Anything, mock.AnythingOfType("*posts.Reply")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*Reply).ID = 7
		}).Return(nil)

	reply, err := service.ReplyToPost(context.Background(), ReplyRequest{
		PostID:            "p1",
		AuthorID:          "u2",
		AuthorUsername:    "sam",
		AuthorDisplayName: "Sam",
		AuthorAvatarURL:   "http://cdn/avatars/sam.png",
		Text:              "nice",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), reply.ID)
	assert.Equal(t, "sam", reply.AuthorUsername)
	assert.Equal(t, "Sam", reply.AuthorDisplayName)
	assert.Equal(t, "http://cdn/avatars/sam.png", reply.AuthorAvatarURL)
	assert.False(t, reply.CreatedAt.IsZero())
}

func TestToggleLike_PassesThroughAction(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	repo.On("ToggleLike", mock.Anything, "p1", "u2").Return(ActionLiked, nil).Once()
	repo.On("ToggleLike", mock.Anything, "p1", "u2").Return(ActionUnliked, nil).Once()

	action, err := service.ToggleLike(context.Background(), "p1", "u2")
	require.NoError(t, err)
	assert.Equal(t, ActionLiked, action)

	action, err = service.ToggleLike(context.Background(), "p1", "u2")
	require.NoError(t, err)
	assert.Equal(t, ActionUnliked, action)
}

func TestToggleLike_PostNotFound(t *testing.T) {
	repo := new(mockPostRepository)
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)

	repo.On("ToggleLike", mock.Anything, "missing", "u2").Return(LikeAction(""), ErrNotFound)

	_, err := service.ToggleLike(context.Background(), "missing", "u2")
	assert.True(t, IsNotFound(err))
}

// TestEngagementScenario runs the full product flow against the in-memory
// fake: create, like, unlike, reply, delete, and a final failed lookup.
func TestEngagementScenario(t *testing.T) {
	repo := newFakeRepo()
	dir := new(mockDirectory)
	store := new(mockMediaStore)
	service := NewService(repo, dir, store, nil)
	ctx := context.Background()

	dir.On("GetByID", mock.Anything, "u1").Return(knownUser("u1"), nil)

	created, err := service.CreatePost(ctx, CreatePostRequest{
		AuthorID: "u1",
		CallerID: "u1",
		Text:     "hello",
	})
	require.NoError(t, err)
	assert.Empty(t, created.Likes)
	assert.Empty(t, created.Replies)

	action, err := service.ToggleLike(ctx, created.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, ActionLiked, action)

	liked, err := service.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, liked.Likes)

	action, err = service.ToggleLike(ctx, created.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, ActionUnliked, action)

	unliked, err := service.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = service.ReplyToPost(ctx, ReplyRequest{
		PostID:         created.ID,
		AuthorID:       "u2",
		AuthorUsername: "sam",
		Text:           "nice",
	})
	require.NoError(t, err)

	replied, err := service.GetPost(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, replied.Replies, 1)
	assert.Equal(t, "nice", replied.Replies[0].Text)

	err = service.DeletePost(ctx, created.ID, "u1")
	require.NoError(t, err)

	_, err = service.GetPost(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}

// TestToggleLike_NeverDuplicates hammers the fake repo's toggle from the
// same user and checks the set never holds more than one entry for them
func TestToggleLike_NeverDuplicates(t *testing.T) {
	repo := newFakeRepo()
	post := &Post{ID: "p1", AuthorID: "u1", Text: "x", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), post))

	for i := 0; i < 7; i++ {
		_, err := repo.ToggleLike(context.Background(), "p1", "u2")
		require.NoError(t, err)

		got, err := repo.GetByID(context.Background(), "p1")
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got.Likes), 1)
	}

	// Odd number of toggles ends in the liked state
	got, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, got.Likes)
}
