package handler

import (
	"github.com/mykare/user-registration/internal/core/domain"
	"github.com/mykare/user-registration/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Gender: string(u.Gender),
		Role:   string(u.Role),
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Gender:   req.Gender,
		Password: req.Password,
	}
}

func toValidationResponse(r *ports.ValidationResult) validationResponse {
	return validationResponse{
		Message:         r.Message,
		Token:           r.Token,
		ExpirationAfter: r.ExpirationAfter,
	}
}

func toDeleteResponse(r *ports.DeleteResult) deleteResponse {
	return deleteResponse{Email: r.Email, Message: r.Message}
}
