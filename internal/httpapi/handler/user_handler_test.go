package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/permission"
	"reviewhub/internal/httpapi/service"
)

// --- MOCK SERVICE ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	args := m.Called(search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedUserResponse), args.Error(1)
}

func (m *MockUserService) Get(username string) (*dto.UserResponse, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Create(req dto.CreateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(username string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(username, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(username string) error {
	args := m.Called(username)
	return args.Error(0)
}

func (m *MockUserService) GetSelf(userID string) (*dto.UserResponse, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateSelf(userID string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

// --- SETUP ---

// requireActorMiddleware mimics the required-auth middleware: anonymous
// callers are rejected, everyone else is stored as the actor.
func requireActorMiddleware(actor permission.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actor.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Set("actor", actor)
		c.Next()
	}
}

func setupUserRouter(mockService *MockUserService, actor permission.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewUserHandler(mockService)
	api := r.Group("/api/v1")
	h.RegisterRoutes(api, requireActorMiddleware(actor))
	return r
}

func TestGetSelf(t *testing.T) {
	mockService := new(MockUserService)
	actor := asUser("user-id")
	router := setupUserRouter(mockService, actor)

	me := &dto.UserResponse{Username: "u-user-id", Email: "me@example.com", Role: models.RoleUser}
	mockService.On("GetSelf", "user-id").Return(me, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.UserResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "u-user-id", resp.Username)
	mockService.AssertExpectations(t)
}

func TestGetSelf_AnonymousUnauthorized(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, permission.Anonymous)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "GetSelf", mock.Anything)
}

func TestUpdateSelf(t *testing.T) {
	mockService := new(MockUserService)
	actor := asUser("user-id")
	router := setupUserRouter(mockService, actor)

	bio := "new bio"
	updated := &dto.UserResponse{Username: "u-user-id", Role: models.RoleUser, Bio: "new bio"}
	mockService.On("UpdateSelf", "user-id", dto.UpdateUserDTO{Bio: &bio}).Return(updated, nil)

	body, _ := json.Marshal(map[string]string{"bio": "new bio"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/users/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestListUsers_PlainUserForbidden(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asUser("user-id"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestListUsers_ModeratorForbidden(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asModerator("mod-id"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListUsers_Admin(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asAdmin("admin-id"))

	paginated := &dto.PaginatedUserResponse{
		Data:     []dto.UserResponse{{Username: "reader", Role: models.RoleUser}},
		Page:     1,
		PageSize: 20,
		Total:    1,
	}
	mockService.On("List", "", 1, 20).Return(paginated, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateUser_AdminSetsRole(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asAdmin("admin-id"))

	reqDTO := dto.CreateUserDTO{Username: "mod", Email: "mod@example.com", Role: models.RoleModerator}
	created := &dto.UserResponse{Username: "mod", Email: "mod@example.com", Role: models.RoleModerator}
	mockService.On("Create", reqDTO).Return(created, nil)

	body, _ := json.Marshal(reqDTO)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateUser_InvalidRoleRejected(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asAdmin("admin-id"))

	body, _ := json.Marshal(map[string]string{"username": "mod", "email": "mod@example.com", "role": "superhero"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGetUser_NotFound(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asAdmin("admin-id"))

	mockService.On("Get", "ghost").Return(nil, service.ErrUserNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/ghost", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser_Admin(t *testing.T) {
	mockService := new(MockUserService)
	router := setupUserRouter(mockService, asAdmin("admin-id"))

	mockService.On("Delete", "reader").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/users/reader", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockService.AssertExpectations(t)
}
