package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/repository"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor permission.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	titleRepo   repository.TitleRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		titleRepo:   titleRepo,
	}
}

// resolveReview walks the title/review path parameters, 404 semantics on any
// missing parent.
func (s *commentService) resolveReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if isNotFound(err) {
			return ErrTitleNotFound
		}
		return err
	}
	if _, err := s.reviewRepo.GetByID(titleID, reviewID); err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, dto.CommentFromModel(comment))
	}

	paginated := dto.NewPaginatedCommentResponse(responses, page, pageSize, total)
	return &paginated, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(reviewID, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	response := dto.CommentFromModel(*comment)
	return &response, nil
}

// Create adds a comment under a review. Author and review come from the
// trusted context, never from the payload.
func (s *commentService) Create(ctx context.Context, actor permission.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(reviewID, comment.ID)
	if err != nil {
		return nil, err
	}

	response := dto.CommentFromModel(*created)
	return &response, nil
}

func (s *commentService) Update(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(reviewID, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if !permission.ReviewAccess(actor, permission.ActionWrite, &permission.Target{AuthorID: comment.AuthorID}) {
		return nil, ErrPermissionDenied
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	response := dto.CommentFromModel(*comment)
	return &response, nil
}

func (s *commentService) Delete(ctx context.Context, actor permission.Actor, titleID, reviewID, commentID int64) error {
	if err := s.resolveReview(ctx, titleID, reviewID); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(reviewID, commentID)
	if err != nil {
		if isNotFound(err) {
			return ErrCommentNotFound
		}
		return err
	}

	if !permission.ReviewAccess(actor, permission.ActionWrite, &permission.Target{AuthorID: comment.AuthorID}) {
		return ErrPermissionDenied
	}

	return s.commentRepo.Delete(comment.ID)
}
