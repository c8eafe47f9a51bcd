package model

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message" validate:"required"`
}
