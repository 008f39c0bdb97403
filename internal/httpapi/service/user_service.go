package service

import (
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameInUse = errors.New("username already in use")
	ErrEmailInUse    = errors.New("email already in use")
)

type UserService interface {
	List(search string, page, pageSize int) (*dto.PaginatedUserResponse, error)
	Get(username string) (*dto.UserResponse, error)
	Create(req dto.CreateUserDTO) (*dto.UserResponse, error)
	Update(username string, req dto.UpdateUserDTO) (*dto.UserResponse, error)
	Delete(username string) error
	GetSelf(userID string) (*dto.UserResponse, error)
	UpdateSelf(userID string, req dto.UpdateUserDTO) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(search string, page, pageSize int) (*dto.PaginatedUserResponse, error) {
	users, total, err := s.userRepo.GetAll(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.UserFromModel(user))
	}

	paginated := dto.NewPaginatedUserResponse(responses, page, pageSize, total)
	return &paginated, nil
}

func (s *userService) Get(username string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	response := dto.UserFromModel(*user)
	return &response, nil
}

func (s *userService) Create(req dto.CreateUserDTO) (*dto.UserResponse, error) {
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameInUse
	} else if !isNotFound(err) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !isNotFound(err) {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isDuplicate(err) {
			return nil, ErrUsernameInUse
		}
		return nil, err
	}

	response := dto.UserFromModel(*user)
	return &response, nil
}

func (s *userService) Update(username string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.applyUpdate(user, req); err != nil {
		return nil, err
	}

	response := dto.UserFromModel(*user)
	return &response, nil
}

// Delete removes a user; their reviews and comments cascade away at the store.
func (s *userService) Delete(username string) error {
	if err := s.userRepo.DeleteByUsername(username); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetSelf(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	response := dto.UserFromModel(*user)
	return &response, nil
}

// UpdateSelf updates the caller's own profile. A caller whose current role is
// "user" keeps that role no matter what the payload says; moderators and
// admins may submit theirs unchanged.
func (s *userService) UpdateSelf(userID string, req dto.UpdateUserDTO) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Role == models.RoleUser {
		// No self-escalation: the submitted role is silently discarded.
		req.Role = nil
	}

	if err := s.applyUpdate(user, req); err != nil {
		return nil, err
	}

	response := dto.UserFromModel(*user)
	return &response, nil
}

func (s *userService) applyUpdate(user *models.User, req dto.UpdateUserDTO) error {
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		if isDuplicate(err) {
			return ErrEmailInUse
		}
		return err
	}
	return nil
}
