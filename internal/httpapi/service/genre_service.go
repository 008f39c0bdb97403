package service

import (
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrGenreNotFound = errors.New("genre not found")
	ErrGenreExists   = errors.New("genre slug already in use")
)

type GenreService interface {
	List(search string, page, pageSize int) (*dto.PaginatedGenreResponse, error)
	Create(req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(search string, page, pageSize int) (*dto.PaginatedGenreResponse, error) {
	genres, total, err := s.genreRepo.GetAll(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for _, genre := range genres {
		responses = append(responses, dto.GenreFromModel(genre))
	}

	paginated := dto.NewPaginatedGenreResponse(responses, page, pageSize, total)
	return &paginated, nil
}

func (s *genreService) Create(req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	genre := &models.Genre{
		Name: req.Name,
		Slug: req.Slug,
	}
	if err := s.genreRepo.Create(genre); err != nil {
		if isDuplicate(err) {
			return nil, ErrGenreExists
		}
		return nil, err
	}

	response := dto.GenreFromModel(*genre)
	return &response, nil
}

func (s *genreService) Delete(slug string) error {
	if err := s.genreRepo.DeleteBySlug(slug); err != nil {
		if isNotFound(err) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
