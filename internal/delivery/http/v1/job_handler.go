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

type JobHandler struct {
	ledger   Ledger
	validate *validator.Validate
}

func NewJobHandler(public *gin.RouterGroup, protected *gin.RouterGroup, l Ledger, validate *validator.Validate) {
	handler := &JobHandler{ledger: l, validate: validate}

	publicJobs := public.Group("/jobs")
	{
		publicJobs.GET("", handler.List)
		publicJobs.GET("/:id", handler.Get)
		publicJobs.POST("/:id/apply", handler.Apply)
	}

	protectedJobs := protected.Group("/jobs")
	{
		protectedJobs.POST("", handler.Create)
		protectedJobs.PUT("/:id", handler.Update)
		protectedJobs.DELETE("/:id", handler.Delete)
		protectedJobs.PUT("/:id/applicants/status", handler.UpdateApplicantStatus)
	}
}

type CreateJobRequest struct {
	Title            string `json:"title" binding:"required"`
	Company          string `json:"company" binding:"required"`
	Location         string `json:"location"`
	Description      string `json:"description"`
	Requirements     string `json:"requirements"`
	Salary           string `json:"salary"`
	SalaryAmount     string `json:"salaryAmount"`
	SalaryCurrency   string `json:"salaryCurrency"`
	SalaryFrequency  string `json:"salaryFrequency"`
	Remote           bool   `json:"remote"`
	Hybrid           bool   `json:"hybrid"`
	WorkLocationType string `json:"workLocationType" binding:"omitempty,oneof=remote hybrid on-site"`
}

type UpdateJobRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Company          *string `json:"company,omitempty" validate:"omitempty,min=1"`
	Location         *string `json:"location,omitempty"`
	Description      *string `json:"description,omitempty"`
	Requirements     *string `json:"requirements,omitempty"`
	Salary           *string `json:"salary,omitempty"`
	SalaryAmount     *string `json:"salaryAmount,omitempty"`
	SalaryCurrency   *string `json:"salaryCurrency,omitempty"`
	SalaryFrequency  *string `json:"salaryFrequency,omitempty"`
	Remote           *bool   `json:"remote,omitempty"`
	Hybrid           *bool   `json:"hybrid,omitempty"`
	WorkLocationType *string `json:"workLocationType,omitempty" validate:"omitempty,oneof=remote hybrid on-site"`
}

type ApplyRequest struct {
	ApplicantName  string `json:"applicantName" binding:"required"`
	ApplicantEmail string `json:"applicantEmail" binding:"required,email"`
	CoverLetter    string `json:"coverLetter"`
}

type ApplicantStatusRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Status string `json:"status" binding:"required,oneof=Pending Reviewed Accepted Rejected"`
}

func (h *JobHandler) List(c *gin.Context) {
	result, err := h.ledger.Evaluate("GetAllJobs", nil, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var jobs []domain.Job
	if err := decodeResult(result, &jobs); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Job list", gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

func (h *JobHandler) Get(c *gin.Context) {
	result, err := h.ledger.Evaluate("GetJob", []string{c.Param("id")}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var job domain.Job
	if err := decodeResult(result, &job); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Job details", job)
}

func (h *JobHandler) Create(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleRecruiter {
		c.Error(apperror.Forbidden("Only recruiters can create jobs"))
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	jobData, err := json.Marshal(req)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	ts := txNow()
	jobID := entityID("JOB", ts)
	result, err := h.ledger.Submit("CreateJob", []string{jobID, string(jobData)}, ts)
	if err != nil {
		c.Error(err)
		return
	}

	var job domain.Job
	if err := decodeResult(result, &job); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", job)
}

func (h *JobHandler) Update(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleRecruiter {
		c.Error(apperror.Forbidden("Only recruiters can update jobs"))
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		c.Error(apperror.BadRequest(validation.FormatErrors(err)))
		return
	}

	partialData, err := json.Marshal(req)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	result, err := h.ledger.Submit("UpdateJob", []string{c.Param("id"), string(partialData)}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var job domain.Job
	if err := decodeResult(result, &job); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Job updated", job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleRecruiter {
		c.Error(apperror.Forbidden("Only recruiters can delete jobs"))
		return
	}

	result, err := h.ledger.Submit("DeleteJob", []string{c.Param("id")}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var confirmation map[string]interface{}
	if err := decodeResult(result, &confirmation); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", confirmation)
}

func (h *JobHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	applicantData, err := json.Marshal(map[string]string{
		"name":        req.ApplicantName,
		"email":       req.ApplicantEmail,
		"coverLetter": req.CoverLetter,
	})
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	result, err := h.ledger.Submit("ApplyForJob", []string{c.Param("id"), string(applicantData)}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var job domain.Job
	if err := decodeResult(result, &job); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Application submitted successfully", job)
}

func (h *JobHandler) UpdateApplicantStatus(c *gin.Context) {
	if c.GetString(string(domain.KeyUserRole)) != domain.RoleRecruiter {
		c.Error(apperror.Forbidden("Only recruiters can update applicant status"))
		return
	}

	var req ApplicantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	result, err := h.ledger.Submit("UpdateApplicantStatus",
		[]string{c.Param("id"), req.Email, req.Status}, txNow())
	if err != nil {
		c.Error(err)
		return
	}

	var job domain.Job
	if err := decodeResult(result, &job); err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Applicant status updated", job)
}
