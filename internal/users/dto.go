package users

type CreateUserRequest struct {
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Name      string `json:"name" validate:"required,max=200"`
	Role      string `json:"role" validate:"required,oneof=admin accountant viewer"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type AuthenticateRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}
