package dto

type AdminAuthRequest struct {
	Password string `json:"password" form:"password" validate:"required"`
}

type AdminAuthResponse struct {
	Success bool `json:"success"`
}
