package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dogworld/backend/models"
	"github.com/dogworld/backend/notifier"
	"github.com/dogworld/backend/pkg/apperrors"
	"github.com/dogworld/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	DefaultPostPage  = 1
	DefaultPostLimit = 10
	MaxPostLimit     = 50
)

type PostService interface {
	List(ctx context.Context, page, limit int, sort string) (*models.PostPage, error)
	Create(ctx context.Context, userID primitive.ObjectID, req *models.CreatePostRequest) (*models.Post, error)
	ToggleLike(ctx context.Context, userID primitive.ObjectID, id string) (*models.LikeResponse, error)
	Comment(ctx context.Context, userID primitive.ObjectID, id, text string) (*models.Comment, error)
	ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error)
	Delete(ctx context.Context, userID primitive.ObjectID, id string) error
}

type postService struct {
	posts     repository.PostRepository
	ids       IDGenerator
	publisher notifier.Publisher
	logger    *zap.Logger
}

func NewPostService(posts repository.PostRepository, ids IDGenerator, publisher notifier.Publisher, logger *zap.Logger) PostService {
	return &postService{posts: posts, ids: ids, publisher: publisher, logger: logger}
}

func (s *postService) List(ctx context.Context, page, limit int, sort string) (*models.PostPage, error) {
	if page < 1 {
		page = DefaultPostPage
	}
	if limit < 1 {
		limit = DefaultPostLimit
	}
	if limit > MaxPostLimit {
		limit = MaxPostLimit
	}
	switch sort {
	case models.PostSortNewest, models.PostSortOldest, models.PostSortPopular:
	default:
		sort = models.PostSortNewest
	}

	posts, total, err := s.posts.List(ctx, sort, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch posts", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return &models.PostPage{
		Posts: posts,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}

func (s *postService) Create(ctx context.Context, userID primitive.ObjectID, req *models.CreatePostRequest) (*models.Post, error) {
	if req == nil {
		return nil, apperrors.Validation("Request body is required")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	tags := []string(req.Tags)
	if tags == nil {
		tags = []string{}
	}
	post := &models.Post{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Images:      images,
		DogBreed:    req.DogBreed,
		DogAge:      req.DogAge,
		Tags:        tags,
		Likes:       []primitive.ObjectID{},
		Comments:    []models.Comment{},
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	var err error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		post.PostID = s.ids.Next(ctx, PostIDs)
		post.ID = primitive.NilObjectID
		if err = s.posts.Create(ctx, post); !errors.Is(err, repository.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to create post", err)
	}

	s.logger.Info("Post created", zap.String("post_id", post.PostID), zap.String("user_id", userID.Hex()))
	if err := s.publisher.Publish(ctx, notifier.BroadcastTopic, notifier.EventNewPost, post); err != nil {
		s.logger.Warn("Failed to broadcast post", zap.Error(err))
	}
	return post, nil
}

func (s *postService) load(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NotFound("Post not found")
	}
	post, err := s.posts.FindActive(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Post not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch post", err)
	}
	return post, nil
}

func (s *postService) ToggleLike(ctx context.Context, userID primitive.ObjectID, id string) (*models.LikeResponse, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	liked, count, err := s.posts.ToggleLike(ctx, post.ID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Post not found")
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update like", err)
	}
	return &models.LikeResponse{Liked: liked, LikesCount: count}, nil
}

func (s *postService) Comment(ctx context.Context, userID primitive.ObjectID, id, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("Comment text is required")
	}
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.posts.AddComment(ctx, post.ID, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Post not found")
		}
		return nil, apperrors.Internal("Failed to add comment", err)
	}

	payload := map[string]interface{}{
		"postId":  post.PostID,
		"comment": comment,
	}
	if err := s.publisher.Publish(ctx, notifier.BroadcastTopic, notifier.EventNewComment, payload); err != nil {
		s.logger.Warn("Failed to broadcast comment", zap.Error(err))
	}
	if post.UserID != userID {
		if err := s.publisher.Publish(ctx, notifier.UserTopic(post.UserID.Hex()), notifier.EventNewComment, payload); err != nil {
			s.logger.Warn("Failed to notify post owner", zap.Error(err))
		}
	}
	return &comment, nil
}

func (s *postService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch posts", err)
	}
	return posts, nil
}

func (s *postService) Delete(ctx context.Context, userID primitive.ObjectID, id string) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperrors.Forbidden("You are not authorized to delete this post")
	}
	if err := s.posts.Deactivate(ctx, post.ID); err != nil {
		return apperrors.Internal("Failed to delete post", err)
	}
	s.logger.Info("Post deleted", zap.String("post_id", post.PostID))
	return nil
}
