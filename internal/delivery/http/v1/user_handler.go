package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"cvchain-backend/internal/delivery/http/response"
	"cvchain-backend/internal/domain"
	"cvchain-backend/pkg/apperror"
	"cvchain-backend/pkg/validation"
)

type UserHandler struct {
	ledger   Ledger
	validate *validator.Validate
}

func NewUserHandler(public *gin.RouterGroup, protected *gin.RouterGroup, l Ledger, validate *validator.Validate) {
	handler := &UserHandler{ledger: l, validate: validate}

	public.GET("/users/:email", handler.GetByEmail)

	protected.PUT("/users/:id", handler.UpdateProfile)
	protected.GET("/users", handler.ListByRole)
	protected.POST("/users/:id/photo", handler.UploadPhoto)
	protected.POST("/users/:id/cv", handler.UploadCV)
}

// UpdateProfileRequest is the caller-facing allow-list of mutable
// profile fields. Identity fields (userId, email) are not here; the
// ledger forces them back to the stored values anyway.
type UpdateProfileRequest struct {
	Name         *string              `json:"name,omitempty" validate:"omitempty,min=1,person_name"`
	Title        *string              `json:"title,omitempty" validate:"omitempty,max=100"`
	Skills       *[]string            `json:"skills,omitempty"`
	Experience   *string              `json:"experience,omitempty"`
	Education    *string              `json:"education,omitempty"`
	CountryCode  *string              `json:"countryCode,omitempty" validate:"omitempty,country_code"`
	PhoneNumber  *string              `json:"phoneNumber,omitempty" validate:"omitempty,phone_e164"`
	LinkedInURL  *string              `json:"linkedInUrl,omitempty" validate:"omitempty,url"`
	Certificates *[]domain.Attachment `json:"certificates,omitempty"`
	CVData       *domain.Attachment   `json:"cvData,omitempty"`
	Status       *string              `json:"status,omitempty"`
}

// GetByEmail returns a user profile, password stripped.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	result, err := h.ledger.Evaluate("GetUserByEmail", []string{c.Param("email")}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var user domain.User
	if err := decodeResult(result, &user); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "User profile", user.WithoutPassword())
}

// UpdateProfile merges a partial update into the caller's own record.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.Param("id")
	if userID != c.GetString(string(domain.KeyUserID)) {
		c.Error(apperror.Forbidden("You can only update your own profile"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatErrors(err)))
		return
	}

	h.submitUpdate(c, userID, req)
}

// ListByRole lists users with the given role. Recruiter-only: this is
// the candidate-browsing surface.
func (h *UserHandler) ListByRole(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleRecruiter {
		c.Error(apperror.Forbidden("Only recruiters can list users"))
		return
	}
	role := c.DefaultQuery("role", domain.RoleCandidate)

	result, err := h.ledger.Evaluate("GetAllUsersByRole", []string{role}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var users []domain.User
	if err := decodeResult(result, &users); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	for i := range users {
		users[i] = users[i].WithoutPassword()
	}
	response.Success(c, http.StatusOK, "User list", gin.H{
		"users": users,
		"role":  role,
		"total": len(users),
	})
}

// submitUpdate marshals a partial and submits UpdateUser, responding
// with the merged record.
func (h *UserHandler) submitUpdate(c *gin.Context, userID string, partial interface{}) {
	partialData, err := json.Marshal(partial)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	result, err := h.ledger.Submit("UpdateUser", []string{userID, string(partialData)}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var user domain.User
	if err := decodeResult(result, &user); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", user.WithoutPassword())
}
