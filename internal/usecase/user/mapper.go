package user

import (
	domain "userapp/internal/domain/user"
)

// ToEntity maps a DTO to a new, unsaved entity. The id is left unset.
func ToEntity(dto UserDto) *domain.User {
	return &domain.User{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
	}
}

// ToDto maps an entity to its DTO, dropping the id.
func ToDto(u *domain.User) UserDto {
	return UserDto{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// ToDtos maps users to DTOs, keeping their order.
func ToDtos(users []domain.User) []UserDto {
	dtos := make([]UserDto, len(users))
	for i := range users {
		dtos[i] = ToDto(&users[i])
	}
	return dtos
}
