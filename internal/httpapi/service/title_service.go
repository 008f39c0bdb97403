package service

import (
	"context"
	"errors"
	"math"
	"time"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrTitleNotFound       = errors.New("title not found")
	ErrUnknownCategorySlug = errors.New("unknown category slug")
	ErrUnknownGenreSlug    = errors.New("unknown genre slug")
	ErrYearInFuture        = errors.New("publication year cannot be in the future")
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

// roundRating rounds a mean score to one decimal place.
func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.PaginatedTitleResponse, error) {
	titles, total, err := s.titleRepo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		ids = append(ids, title.ID)
	}
	averages, err := s.titleRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for _, title := range titles {
		var rating *float64
		if avg, ok := averages[title.ID]; ok {
			rounded := roundRating(avg)
			rating = &rounded
		}
		responses = append(responses, dto.TitleFromModel(title, rating))
	}

	paginated := dto.NewPaginatedTitleResponse(responses, page, pageSize, total)
	return &paginated, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	rating, err := s.titleAverage(ctx, id)
	if err != nil {
		return nil, err
	}

	response := dto.TitleFromModel(*title, rating)
	return &response, nil
}

func (s *titleService) titleAverage(ctx context.Context, id int64) (*float64, error) {
	avg, err := s.titleRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return nil, nil
	}
	rounded := roundRating(*avg)
	return &rounded, nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if req.Year > time.Now().Year() {
		return nil, ErrYearInFuture
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != nil {
		category, err := s.categoryRepo.GetBySlug(*req.Category)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrUnknownCategorySlug
			}
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	genres, err := s.resolveGenres(req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	// New title, no reviews yet, rating absent.
	response := dto.TitleFromModel(*title, nil)
	return &response, nil
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if *req.Year > time.Now().Year() {
			return nil, ErrYearInFuture
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.categoryRepo.GetBySlug(*req.Category)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrUnknownCategorySlug
			}
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if req.Genre != nil {
		genres, err := s.resolveGenres(*req.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	rating, err := s.titleAverage(ctx, id)
	if err != nil {
		return nil, err
	}

	response := dto.TitleFromModel(*title, rating)
	return &response, nil
}

// Delete removes a title; its reviews and their comments go with it.
func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// resolveGenres maps slugs to existing genres, rejecting unknown ones.
func (s *titleService) resolveGenres(slugs []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrUnknownGenreSlug
	}
	return genres, nil
}
