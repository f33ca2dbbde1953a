package dto

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	FullName string `json:"full_name"`
	StoreId  string `json:"store_id"`
	Role     string `json:"role"`
}
