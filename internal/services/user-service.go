package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"supportdesk/internal/dto"
	"supportdesk/internal/entities"
	"supportdesk/internal/repositories"
	"supportdesk/pkg/constants"
	apperrors "supportdesk/pkg/errors"
	"supportdesk/pkg/utils"
)

type UserServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserResponseDTO, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponseDTO, error)
	UpdateProfile(ctx context.Context, id int64, payload dto.UpdateProfileDTO) (*dto.UserResponseDTO, error)
	UpdateProfileImage(ctx context.Context, id int64, path string) error
	List(ctx context.Context) ([]dto.UserResponseDTO, error)
	ListByRole(ctx context.Context, role constants.Role) ([]dto.UserResponseDTO, error)
	ListByCompany(ctx context.Context, companyID int64) ([]dto.UserResponseDTO, error)
	ListCustomersByAccountManager(ctx context.Context, managerID int64) ([]dto.UserResponseDTO, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo    repositories.UserRepositoryInterface
	companyRepo repositories.CompanyRepositoryInterface
	logger      *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	companyRepo repositories.CompanyRepositoryInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &userService{userRepo: userRepo, companyRepo: companyRepo, logger: logger}
}

func (s *userService) Create(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserResponseDTO, error) {
	if _, err := s.userRepo.FindByEmail(ctx, payload.Email); err == nil {
		return nil, apperrors.Conflict("email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	role := constants.Role(payload.Role)
	if role == constants.RoleCustomer {
		if payload.CompanyID == nil {
			return nil, apperrors.BadRequest("customers must belong to a company")
		}
		if _, err := s.companyRepo.FindByID(ctx, *payload.CompanyID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.BadRequest("unknown company")
			}
			return nil, err
		}
	}

	if err := utils.CheckPasswordComplexity(payload.Password); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:        payload.Name,
		Email:       payload.Email,
		Mobile:      payload.Mobile,
		Role:        role,
		Password:    hash,
		Designation: payload.Designation,
		CompanyID:   payload.CompanyID,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("email", created.Email), zap.String("role", created.Role.String()))
	return toUserDTO(created), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id int64, payload dto.UpdateProfileDTO) (*dto.UserResponseDTO, error) {
	if err := s.userRepo.UpdateProfile(ctx, id, payload); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *userService) UpdateProfileImage(ctx context.Context, id int64, path string) error {
	return s.userRepo.UpdateProfileImage(ctx, id, path)
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func (s *userService) ListByRole(ctx context.Context, role constants.Role) ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func (s *userService) ListByCompany(ctx context.Context, companyID int64) ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func (s *userService) ListCustomersByAccountManager(ctx context.Context, managerID int64) ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.ListCustomersByAccountManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

func toUserDTO(u *entities.User) *dto.UserResponseDTO {
	return &dto.UserResponseDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Mobile:       u.Mobile,
		Role:         u.Role.String(),
		Designation:  u.Designation,
		Company:      u.CompanyName,
		ProfileImage: u.ProfileImage,
	}
}

func toUserDTOs(users []entities.User) []dto.UserResponseDTO {
	out := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		out = append(out, *toUserDTO(&users[i]))
	}
	return out
}
