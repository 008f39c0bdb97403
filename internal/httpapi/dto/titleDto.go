package dto

import "reviewhub/internal/httpapi/models"

// CreateTitleDTO is the write representation: category and genres are
// referenced by slug and resolved server-side.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=400"`
	Genre       []string `json:"genre,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// UpdateTitleDTO carries partial updates; nil fields are left untouched.
type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,max=200"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=400"`
	Genre       *[]string `json:"genre,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

// TitleResponse is the read representation: nested category/genre objects and
// the computed rating. Rating is omitted for titles with no reviews.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating,omitempty"`
	Description *string           `json:"description,omitempty"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category,omitempty"`
}

func TitleFromModel(t models.Title, rating *float64) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}

	var category *CategoryResponse
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		category = &c
	}

	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       genres,
		Category:    category,
	}
}

type PaginatedTitleResponse struct {
	Data       []TitleResponse `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"total_pages"`
}

func NewPaginatedTitleResponse(data []TitleResponse, page, pageSize int, total int64) PaginatedTitleResponse {
	return PaginatedTitleResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}
}
