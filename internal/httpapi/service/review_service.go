package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("you already have a review for this title")
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor permission.Actor, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor permission.Actor, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor permission.Actor, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// resolveTitle maps the path parameter to its title, 404 semantics on miss.
func (s *reviewService) resolveTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if isNotFound(err) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, dto.ReviewFromModel(review))
	}

	paginated := dto.NewPaginatedReviewResponse(responses, page, pageSize, total)
	return &paginated, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	response := dto.ReviewFromModel(*review)
	return &response, nil
}

// Create adds the actor's review for a title. Author and title come from the
// trusted context, never from the payload. The existence pre-check gives the
// friendly error; the unique index on (author_id, title_id) settles any race,
// and that violation maps to the same validation error.
func (s *reviewService) Create(ctx context.Context, actor permission.Actor, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(actor.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if isDuplicate(err) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	// Reload to pick up the author association and pub_date.
	created, err := s.reviewRepo.GetByID(titleID, review.ID)
	if err != nil {
		return nil, err
	}

	response := dto.ReviewFromModel(*created)
	return &response, nil
}

func (s *reviewService) Update(ctx context.Context, actor permission.Actor, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if !permission.ReviewAccess(actor, permission.ActionWrite, &permission.Target{AuthorID: review.AuthorID}) {
		return nil, ErrPermissionDenied
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	response := dto.ReviewFromModel(*review)
	return &response, nil
}

func (s *reviewService) Delete(ctx context.Context, actor permission.Actor, titleID, reviewID int64) error {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return err
	}

	review, err := s.reviewRepo.GetByID(titleID, reviewID)
	if err != nil {
		if isNotFound(err) {
			return ErrReviewNotFound
		}
		return err
	}

	if !permission.ReviewAccess(actor, permission.ActionWrite, &permission.Target{AuthorID: review.AuthorID}) {
		return ErrPermissionDenied
	}

	return s.reviewRepo.Delete(review.ID)
}
