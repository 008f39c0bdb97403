package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

func newTitleFixture() (*MockTitleRepository, *MockCategoryRepository, *MockGenreRepository, TitleService) {
	mockTitleRepo := new(MockTitleRepository)
	mockCategoryRepo := new(MockCategoryRepository)
	mockGenreRepo := new(MockGenreRepository)
	return mockTitleRepo, mockCategoryRepo, mockGenreRepo,
		NewTitleService(mockTitleRepo, mockCategoryRepo, mockGenreRepo)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 7.7, roundRating(7.6666))
	assert.Equal(t, 7.5, roundRating(7.5))
	assert.Equal(t, 1.0, roundRating(1.04))
	assert.Equal(t, 10.0, roundRating(10))
}

func TestGetTitle_RatingRounded(t *testing.T) {
	mockTitleRepo, _, _, titleService := newTitleFixture()

	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Dune", Year: 1965}, nil)
	avg := 7.6666
	mockTitleRepo.On("AverageScore", mock.Anything, int64(1)).Return(&avg, nil)

	resp, err := titleService.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.NotNil(t, resp.Rating)
	assert.Equal(t, 7.7, *resp.Rating)
}

func TestGetTitle_NoReviewsNoRating(t *testing.T) {
	mockTitleRepo, _, _, titleService := newTitleFixture()

	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Dune", Year: 1965}, nil)
	mockTitleRepo.On("AverageScore", mock.Anything, int64(1)).Return(nil, nil)

	resp, err := titleService.Get(context.Background(), 1)

	assert.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestGetTitle_NotFound(t *testing.T) {
	mockTitleRepo, _, _, titleService := newTitleFixture()

	mockTitleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := titleService.Get(context.Background(), 99)

	assert.Equal(t, ErrTitleNotFound, err)
	assert.Nil(t, resp)
}

func TestListTitles_BatchRatings(t *testing.T) {
	mockTitleRepo, _, _, titleService := newTitleFixture()

	titles := []models.Title{
		{ID: 1, Name: "Dune", Year: 1965},
		{ID: 2, Name: "Solaris", Year: 1961},
	}
	mockTitleRepo.On("GetAll", mock.Anything, repository.TitleFilter{}, 1, 10).Return(titles, int64(2), nil)
	mockTitleRepo.On("AverageScores", mock.Anything, []int64{1, 2}).Return(map[int64]float64{1: 8.25}, nil)

	resp, err := titleService.List(context.Background(), repository.TitleFilter{}, 1, 10)

	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.NotNil(t, resp.Data[0].Rating)
	assert.Equal(t, 8.3, *resp.Data[0].Rating)
	assert.Nil(t, resp.Data[1].Rating)
	assert.Equal(t, int64(2), resp.Total)
}

func TestCreateTitle_Success(t *testing.T) {
	mockTitleRepo, mockCategoryRepo, mockGenreRepo, titleService := newTitleFixture()

	category := &models.Category{ID: 3, Name: "Books", Slug: "books"}
	genres := []models.Genre{{ID: 5, Name: "Sci-Fi", Slug: "sci-fi"}}
	categorySlug := "books"

	mockCategoryRepo.On("GetBySlug", "books").Return(category, nil)
	mockGenreRepo.On("GetBySlugs", []string{"sci-fi"}).Return(genres, nil)
	mockTitleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 11
	})

	resp, err := titleService.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Dune",
		Year:     1965,
		Genre:    []string{"sci-fi"},
		Category: &categorySlug,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(11), resp.ID)
	assert.Nil(t, resp.Rating)
	assert.Len(t, resp.Genre, 1)
	assert.Equal(t, "sci-fi", resp.Genre[0].Slug)
	assert.Equal(t, "books", resp.Category.Slug)
	mockTitleRepo.AssertExpectations(t)
}

func TestCreateTitle_YearInFuture(t *testing.T) {
	_, _, _, titleService := newTitleFixture()

	resp, err := titleService.Create(context.Background(), dto.CreateTitleDTO{
		Name: "Unwritten",
		Year: time.Now().Year() + 1,
	})

	assert.Equal(t, ErrYearInFuture, err)
	assert.Nil(t, resp)
}

func TestCreateTitle_UnknownCategorySlug(t *testing.T) {
	_, mockCategoryRepo, _, titleService := newTitleFixture()

	categorySlug := "nope"
	mockCategoryRepo.On("GetBySlug", "nope").Return(nil, gorm.ErrRecordNotFound)

	resp, err := titleService.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Dune",
		Year:     1965,
		Category: &categorySlug,
	})

	assert.Equal(t, ErrUnknownCategorySlug, err)
	assert.Nil(t, resp)
}

func TestCreateTitle_UnknownGenreSlug(t *testing.T) {
	_, _, mockGenreRepo, titleService := newTitleFixture()

	// One of the two slugs resolves, the other does not.
	mockGenreRepo.On("GetBySlugs", []string{"sci-fi", "nope"}).Return([]models.Genre{{ID: 5, Slug: "sci-fi"}}, nil)

	resp, err := titleService.Create(context.Background(), dto.CreateTitleDTO{
		Name:  "Dune",
		Year:  1965,
		Genre: []string{"sci-fi", "nope"},
	})

	assert.Equal(t, ErrUnknownGenreSlug, err)
	assert.Nil(t, resp)
}

func TestUpdateTitle_ReplacesGenres(t *testing.T) {
	mockTitleRepo, _, mockGenreRepo, titleService := newTitleFixture()

	stored := &models.Title{ID: 1, Name: "Dune", Year: 1965}
	newGenres := []models.Genre{{ID: 6, Name: "Drama", Slug: "drama"}}
	slugs := []string{"drama"}

	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)
	mockTitleRepo.On("Update", mock.Anything, stored).Return(nil)
	mockGenreRepo.On("GetBySlugs", slugs).Return(newGenres, nil)
	mockTitleRepo.On("ReplaceGenres", mock.Anything, stored, newGenres).Return(nil)
	mockTitleRepo.On("AverageScore", mock.Anything, int64(1)).Return(nil, nil)

	resp, err := titleService.Update(context.Background(), 1, dto.UpdateTitleDTO{Genre: &slugs})

	assert.NoError(t, err)
	assert.Len(t, resp.Genre, 1)
	assert.Equal(t, "drama", resp.Genre[0].Slug)
	mockTitleRepo.AssertExpectations(t)
}

func TestUpdateTitle_YearInFuture(t *testing.T) {
	mockTitleRepo, _, _, titleService := newTitleFixture()

	stored := &models.Title{ID: 1, Name: "Dune", Year: 1965}
	mockTitleRepo.On("GetByID", mock.Anything, int64(1)).Return(stored, nil)

	badYear := time.Now().Year() + 5
	resp, err := titleService.Update(context.Background(), 1, dto.UpdateTitleDTO{Year: &badYear})

	assert.Equal(t, ErrYearInFuture, err)
	assert.Nil(t, resp)
	mockTitleRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteTitle_NotFound(t *testing.T) {
	mockTitleRepo, _, _, titleService := newTitleFixture()

	mockTitleRepo.On("Delete", mock.Anything, int64(99)).Return(gorm.ErrRecordNotFound)

	err := titleService.Delete(context.Background(), 99)

	assert.Equal(t, ErrTitleNotFound, err)
}
