package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mahinuzzaman/pulsefeed/internal/models"
	"github.com/mahinuzzaman/pulsefeed/internal/repositories"
)

// Service is the data access layer: it translates domain operations into
// store requests against the post, user, like, and comment repositories.
// Reads distinguish ErrNotFound from a failed request; mutations report
// failure through the returned error. Nothing is swallowed here; deciding to
// degrade to an empty view is left to callers.
type Service struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	likes    repositories.LikeRepository
	comments repositories.CommentRepository
}

// NewService creates a new data access Service
func NewService(
	users repositories.UserRepository,
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
) *Service {
	return &Service{
		users:    users,
		posts:    posts,
		likes:    likes,
		comments: comments,
	}
}

// CreateUserProfile creates the profile row for an authenticated identity if
// it does not exist yet. Calling it again for the same user is a no-op
// success, so it is safe to invoke on every sign-in.
func (s *Service) CreateUserProfile(userID, email, name string) error {
	if userID == "" {
		return fmt.Errorf("user id must not be empty")
	}

	_, err := s.users.GetUserByID(userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("checking profile %s: %w", userID, err)
	}

	user := &models.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.CreateUser(user); err != nil {
		return fmt.Errorf("creating profile %s: %w", userID, err)
	}
	return nil
}

// GetUserProfile retrieves a profile by user ID
func (s *Service) GetUserProfile(userID string) (*models.User, error) {
	return s.users.GetUserByID(userID)
}

// UpdateUserProfile applies a partial update to a profile. Nil fields are left
// untouched; an update with no fields set succeeds without a store write.
func (s *Service) UpdateUserProfile(userID string, updates models.UpdateUserRequest) error {
	if updates.Name == nil && updates.AvatarURL == nil {
		return nil
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if updates.Name != nil {
		user.Name = *updates.Name
	}
	if updates.AvatarURL != nil {
		user.AvatarURL = updates.AvatarURL
	}
	return s.users.UpdateUser(user)
}

// GetAllPosts retrieves every post newest-first with the author profile
// embedded in each
func (s *Service) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachPostAuthors(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetUserPosts retrieves one user's posts newest-first with the author
// embedded
func (s *Service) GetUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	posts, err := s.posts.GetPostsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachPostAuthors(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost creates a post owned by userID. Content must be non-empty after
// trimming; the check runs before any store call. The created post is
// returned with its author embedded.
func (s *Service) CreatePost(ctx context.Context, userID, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post := &models.Post{
		UserID:  userID,
		Content: content,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	user, err := s.users.GetUserByID(userID)
	if err == nil {
		post.User = user
	}
	return post, nil
}

// DeletePost deletes a post if userID owns it, returning ErrForbidden
// otherwise
func (s *Service) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}
	return s.posts.DeletePost(ctx, postID)
}

// ToggleLike flips the like state of (userID, postID): it deletes the like
// row if one exists and inserts one otherwise. The returned bool is the
// resulting liked state. Toggling twice restores the initial state.
func (s *Service) ToggleLike(userID, postID string) (bool, error) {
	liked, err := s.likes.HasUserLikedPost(postID, userID)
	if err != nil {
		return false, fmt.Errorf("checking like state: %w", err)
	}

	if liked {
		if err := s.likes.DeleteLike(postID, userID); err != nil {
			return true, fmt.Errorf("removing like: %w", err)
		}
		return false, nil
	}

	like := &models.Like{UserID: userID, PostID: postID}
	if err := s.likes.CreateLike(like); err != nil {
		return false, fmt.Errorf("adding like: %w", err)
	}
	return true, nil
}

// GetPostLikes retrieves all likes for a post
func (s *Service) GetPostLikes(postID string) ([]models.Like, error) {
	return s.likes.GetLikesByPostID(postID)
}

// IsPostLikedByUser reports whether userID has liked postID
func (s *Service) IsPostLikedByUser(userID, postID string) (bool, error) {
	return s.likes.HasUserLikedPost(postID, userID)
}

// GetPostComments retrieves a post's comments oldest-first with each author
// embedded
func (s *Service) GetPostComments(postID string) ([]models.Comment, error) {
	comments, err := s.comments.GetCommentsByPostID(postID)
	if err != nil {
		return nil, err
	}
	if err := s.attachCommentAuthors(comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment creates a comment by userID on postID. Content must be
// non-empty after trimming. The created comment is returned with its author
// embedded.
func (s *Service) CreateComment(userID, postID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment := &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	user, err := s.users.GetUserByID(userID)
	if err == nil {
		comment.User = user
	}
	return comment, nil
}

// attachPostAuthors resolves the author profiles for a batch of posts in one
// users query and embeds them. Posts whose author row is missing keep a nil
// User rather than failing the whole fetch.
func (s *Service) attachPostAuthors(posts []models.Post) error {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool)
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	byID, err := s.userMap(ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if u, ok := byID[posts[i].UserID]; ok {
			posts[i].User = u
		}
	}
	return nil
}

func (s *Service) attachCommentAuthors(comments []models.Comment) error {
	ids := make([]string, 0, len(comments))
	seen := make(map[string]bool)
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}

	byID, err := s.userMap(ids)
	if err != nil {
		return err
	}
	for i := range comments {
		if u, ok := byID[comments[i].UserID]; ok {
			comments[i].User = u
		}
	}
	return nil
}

func (s *Service) userMap(ids []string) (map[string]*models.User, error) {
	users, err := s.users.GetUsersByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("resolving authors: %w", err)
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
