package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"cvchain-backend/internal/delivery/http/response"
	"cvchain-backend/internal/domain"
	"cvchain-backend/pkg/apperror"
	"cvchain-backend/pkg/auth"
)

type AuthHandler struct {
	ledger Ledger
	tokens *auth.Manager
}

func NewAuthHandler(public *gin.RouterGroup, limited *gin.RouterGroup, l Ledger, tokens *auth.Manager) {
	handler := &AuthHandler{ledger: l, tokens: tokens}

	public.POST("/register", handler.Register)
	limited.POST("/login", handler.Login)
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=candidate recruiter"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user on the ledger. The password is bcrypt-hashed
// here, outside the deterministic core — the hash travels as transaction
// input, so replay is reproducible.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	userData, err := json.Marshal(map[string]string{
		"email":    req.Email,
		"password": string(hash),
		"name":     req.Name,
		"role":     req.Role,
	})
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	ts := txNow()
	userID := entityID("USER", ts)
	result, err := h.ledger.Submit("CreateUser", []string{userID, string(userData)}, ts)
	if err != nil {
		c.Error(err)
		return
	}

	var user domain.User
	if err := decodeResult(result, &user); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusCreated, "User registered successfully", user.WithoutPassword())
}

// Login authenticates against the ledger and mints a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.ledger.Evaluate("AuthenticateUser", []string{req.Email, req.Password}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var user domain.User
	if err := decodeResult(result, &user); err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	token, err := h.tokens.Issue(user.UserID, user.Email, user.Role)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}
