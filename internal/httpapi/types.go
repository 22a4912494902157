package httpapi

import (
	"github.com/AnushM55/autoforms-backend/internal/model"
)

type createQuizRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Questions   []model.Question `json:"questions"`
}

type approveQuizRequest struct {
	Recipients []string `json:"recipients"`
}

type rootResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}
