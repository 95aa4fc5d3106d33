package mapper

import (
	"property-rental-be/internal/entity"
	"property-rental-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                    u.Id,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FullName:              u.FullName,
		Phone:                 u.Phone,
		Role:                  entity.UserRole(u.Role),
		Status:                entity.UserStatus(u.Status),
		EmailVerified:         u.EmailVerified,
		CurrentSubscriptionId: u.CurrentSubscriptionId,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                    u.Id,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		FullName:              u.FullName,
		Phone:                 u.Phone,
		Role:                  string(u.Role),
		Status:                string(u.Status),
		EmailVerified:         u.EmailVerified,
		CurrentSubscriptionId: u.CurrentSubscriptionId,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (m *UserMapper) ToOwnerContact(u *model.User) *entity.OwnerContact {
	if u == nil {
		return nil
	}
	return &entity.OwnerContact{
		Id:    u.Id,
		Name:  u.FullName,
		Phone: u.Phone,
		Email: u.Email,
	}
}
