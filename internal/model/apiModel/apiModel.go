package apiModel

import "github.com/KotFed0t/extrol_cli/internal/model"

// EntryResponse mirrors the API wire shape. The server historically
// returned the id either as "id" or as a mongo-style "_id"; both are
// accepted.
type EntryResponse struct {
	ID      string  `json:"id"`
	MongoID string  `json:"_id"`
	Date    string  `json:"date"`
	Price   float64 `json:"price"`
	Note    string  `json:"note"`
}

type EntryRequest struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Note  string  `json:"note"`
}

type AuthRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// ErrorResponse is the uniform error body: { "error": "..." }.
type ErrorResponse struct {
	Error string `json:"error"`
}
