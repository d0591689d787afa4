package usecase

import (
	"context"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/internal/permission"
	"yamdb/pkg/apperr"

	"go.uber.org/zap"
)

type CommentService interface {
	GetComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, actor *entity.User, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID string, req *request.CommentUpdateRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID string) error
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetComments(ctx context.Context, titleID, reviewID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, review.ID, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperr.Internal("Failed to get comments", err)
	}
	total, err := s.repo.Comment.CountByReviewID(ctx, review.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to count comments", err)
	}

	authors := newAuthorCache(s.repo.User)
	data := make([]response.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		author, err := authors.username(ctx, comment.AuthorID)
		if err != nil {
			return nil, err
		}
		data = append(data, response.CommentToResponse(comment, author))
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), req.Limit(), total), nil
}

// findComment resolves a comment that must belong to the review under the title.
func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID string) (*entity.Comment, error) {
	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	id, err := parseID(commentID, "Comment")
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to get comment", err)
	}
	if comment == nil || comment.ReviewID != review.ID {
		return nil, apperr.NotFound("Comment not found")
	}
	return comment, nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, comment)
}

func (s *commentService) CreateComment(ctx context.Context, actor *entity.User, titleID, reviewID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	if err := authorize(permission.AdminModeratorAuthorOrReadOnly, actor, permission.Create, permission.Resource{}); err != nil {
		return nil, err
	}

	review, err := findReview(ctx, s.repo, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := validate(s.log, "Create comment", req); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		ReviewID:   review.ID,
		AuthorID:   actor.ID,
		Text:       req.Text,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, apperr.Internal("Failed to create comment", err)
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("review_id", review.ID.String()),
	)

	resp := response.CommentToResponse(comment, actor.Username)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID string, req *request.CommentUpdateRequest) (*response.CommentResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorize(permission.AdminModeratorAuthorOrReadOnly, actor, permission.Update, permission.Owned(comment.AuthorID)); err != nil {
		return nil, err
	}
	if err := validate(s.log, "Update comment", req); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		return nil, apperr.Internal("Failed to update comment", err)
	}

	return s.toResponse(ctx, comment)
}

func (s *commentService) DeleteComment(ctx context.Context, actor *entity.User, titleID, reviewID, commentID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorize(permission.AdminModeratorAuthorOrReadOnly, actor, permission.Delete, permission.Owned(comment.AuthorID)); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return apperr.Internal("Failed to delete comment", err)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", comment.ID.String()),
		zap.String("by", actor.Username),
	)
	return nil
}

func (s *commentService) toResponse(ctx context.Context, comment *entity.Comment) (*response.CommentResponse, error) {
	author, err := newAuthorCache(s.repo.User).username(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}
	resp := response.CommentToResponse(comment, author)
	return &resp, nil
}
