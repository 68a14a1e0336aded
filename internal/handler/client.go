package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"courier/internal/domain"
	"courier/internal/repository"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	clientRepo repository.ClientRepository
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientRepo repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo}
}

// RegisterClientRequest is the HTTP request body for client registration.
type RegisterClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ClientResponse is the HTTP response for client data.
type ClientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Register handles POST /v1/clients/register
func (h *ClientHandler) Register(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || (req.Phone == "" && req.Email == "") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and at least one of phone or email are required"})
		return
	}

	client := &domain.Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}

	if err := h.clientRepo.Create(c.Request.Context(), client); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, ClientResponse{
		ID:    client.ID,
		Name:  client.Name,
		Phone: client.Phone,
		Email: client.Email,
	})
}

// GetAll handles GET /v1/clients
func (h *ClientHandler) GetAll(c *gin.Context) {
	clients, err := h.clientRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		response = append(response, ClientResponse{
			ID:    client.ID,
			Name:  client.Name,
			Phone: client.Phone,
			Email: client.Email,
		})
	}
	respondJSON(c, http.StatusOK, response)
}
