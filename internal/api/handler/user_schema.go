package handler

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Gender   string `json:"gender"   validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

type validateRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Role   string `json:"role"`
}

type validationResponse struct {
	Message         string `json:"message"`
	Token           string `json:"token"`
	ExpirationAfter string `json:"expirationAfter"`
}

type deleteResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// errorBody documents the error envelope for swagger.
type errorBody struct {
	Message string `json:"message" example:"User not found"`
	Error   string `json:"error"   example:"NOT_FOUND"`
}
