package dto

type RegisterDTO struct {
	Username string   `json:"username" validate:"required,alphanum,min=3,max=20"`
	Email    string   `json:"email"    validate:"required,email"`
	Password string   `json:"password" validate:"required,strongpwd"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,required"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyDTO struct {
	Token string `form:"token" validate:"required"`
}

type ValidateDTO struct {
	SessionToken string `json:"session_token" validate:"required"`
}
