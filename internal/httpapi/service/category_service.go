package service

import (
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category slug already in use")
)

type CategoryService interface {
	List(search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error)
	Create(req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(search string, page, pageSize int) (*dto.PaginatedCategoryResponse, error) {
	categories, total, err := s.categoryRepo.GetAll(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryFromModel(category))
	}

	paginated := dto.NewPaginatedCategoryResponse(responses, page, pageSize, total)
	return &paginated, nil
}

func (s *categoryService) Create(req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	category := &models.Category{
		Name: req.Name,
		Slug: req.Slug,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if isDuplicate(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	response := dto.CategoryFromModel(*category)
	return &response, nil
}

// Delete removes a category by slug. Titles referencing it keep existing with
// the category cleared (SET NULL at the store).
func (s *categoryService) Delete(slug string) error {
	if err := s.categoryRepo.DeleteBySlug(slug); err != nil {
		if isNotFound(err) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
