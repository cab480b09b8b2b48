package service

import (
	"context"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

// bodyPreviewLen bounds the comment excerpt carried on events.
const bodyPreviewLen = 80

// CommentService coordinates comment workflows.
type CommentService struct {
	comments   repository.CommentRepository
	posts      repository.PostRepository
	dispatcher events.Dispatcher
}

// NewCommentService builds the service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, posts: posts, dispatcher: dispatcher}
}

// Create adds a comment by the author to the post.
func (s *CommentService) Create(ctx context.Context, author *domain.User, postID, content string) (*domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:  postID,
		UserID:  author.ID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.AuthorUsername = author.Username
	comment.AuthorAvatarURL = author.AvatarURL

	if s.dispatcher != nil {
		preview := content
		if len(preview) > bodyPreviewLen {
			preview = preview[:bodyPreviewLen]
		}
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventCommentAdded, author.ID, events.CommentAddedPayload{
			CommentID:   comment.ID,
			PostID:      postID,
			BodyPreview: preview,
		}))
	}
	return comment, nil
}

// Update replaces the comment content. Post and author associations are
// immutable; only the comment's author may edit it.
func (s *CommentService) Update(ctx context.Context, actor *domain.User, id, content string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, ErrNotResourceOwner
	}
	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. Only the comment's author may delete it.
func (s *CommentService) Delete(ctx context.Context, actor *domain.User, id string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != actor.ID {
		return ErrNotResourceOwner
	}
	return s.comments.Delete(ctx, id)
}

// GetByID fetches a single comment.
func (s *CommentService) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

// ListByPost returns a page of comments for the post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string, page, pageSize int) ([]*domain.Comment, int64, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, 0, err
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return s.comments.ListByPost(ctx, postID, pageSize, page*pageSize)
}
