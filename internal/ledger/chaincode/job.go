package chaincode

import (
	"encoding/json"

	"cvchain-backend/internal/domain"
	"cvchain-backend/internal/ledger/txn"
)

// JobExists reports whether a job record is present under jobID.
func (c *Contract) JobExists(ctx *txn.Context, jobID string) (bool, error) {
	data, err := ctx.GetState(jobKey(jobID))
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

type createJobInput struct {
	Title            string `json:"title"`
	Company          string `json:"company"`
	Location         string `json:"location"`
	Description      string `json:"description"`
	Requirements     string `json:"requirements"`
	Salary           string `json:"salary"`
	SalaryAmount     string `json:"salaryAmount"`
	SalaryCurrency   string `json:"salaryCurrency"`
	SalaryFrequency  string `json:"salaryFrequency"`
	Remote           bool   `json:"remote"`
	Hybrid           bool   `json:"hybrid"`
	WorkLocationType string `json:"workLocationType"`
}

// CreateJob writes a new job record. The salary string is synthesized
// from amount/currency/frequency when the whole triple is present, and
// workLocationType falls back to the remote/hybrid flags, defaulting to
// on-site.
func (c *Contract) CreateJob(ctx *txn.Context, jobID, jobData string) (*domain.Job, error) {
	exists, err := c.JobExists(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, Errorf(KindAlreadyExists, "the job %s already exists", jobID)
	}

	var input createJobInput
	if err := json.Unmarshal([]byte(jobData), &input); err != nil {
		return nil, Errorf(KindDecodeError, "job data is not valid JSON: %v", err)
	}

	salary := input.Salary
	if input.SalaryAmount != "" && input.SalaryCurrency != "" && input.SalaryFrequency != "" {
		salary = formatSalary(input.SalaryCurrency, input.SalaryAmount, input.SalaryFrequency)
	}

	workLocation := input.WorkLocationType
	if workLocation == "" {
		switch {
		case input.Remote:
			workLocation = domain.WorkLocationRemote
		case input.Hybrid:
			workLocation = domain.WorkLocationHybrid
		default:
			workLocation = domain.WorkLocationOnSite
		}
	}

	job := &domain.Job{
		DocType:          domain.DocTypeJob,
		JobID:            jobID,
		Title:            input.Title,
		Company:          input.Company,
		Location:         input.Location,
		Description:      input.Description,
		Requirements:     input.Requirements,
		Salary:           salary,
		SalaryAmount:     input.SalaryAmount,
		SalaryCurrency:   input.SalaryCurrency,
		SalaryFrequency:  input.SalaryFrequency,
		Remote:           input.Remote,
		Hybrid:           input.Hybrid,
		WorkLocationType: workLocation,
		CreatedAt:        ctx.TxTime(),
		Applicants:       []domain.Applicant{},
	}
	ctx.PutState(jobKey(jobID), encodeJob(job))
	return job, nil
}

// GetJob returns the job stored under jobID.
func (c *Contract) GetJob(ctx *txn.Context, jobID string) (*domain.Job, error) {
	data, err := ctx.GetState(jobKey(jobID))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, Errorf(KindNotFound, "the job %s does not exist", jobID)
	}
	return decodeJob(data)
}

// UpdateJob merges a partial update onto the stored record. jobId,
// applicants and createdAt always keep the stored values; a complete
// amount/currency/frequency triple in the partial re-derives the salary
// string.
func (c *Contract) UpdateJob(ctx *txn.Context, jobID, partialData string) (*domain.Job, error) {
	job, err := c.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var partial jobUpdate
	if err := json.Unmarshal([]byte(partialData), &partial); err != nil {
		return nil, Errorf(KindDecodeError, "update data is not valid JSON: %v", err)
	}
	mergeJob(job, &partial)

	ctx.PutState(jobKey(jobID), encodeJob(job))
	return job, nil
}

// DeleteConfirmation is the result of a successful DeleteJob.
type DeleteConfirmation struct {
	JobID   string `json:"jobId"`
	Deleted bool   `json:"deleted"`
}

// DeleteJob removes the job record. No cascade: nothing else references
// a job by key.
func (c *Contract) DeleteJob(ctx *txn.Context, jobID string) (*DeleteConfirmation, error) {
	exists, err := c.JobExists(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, Errorf(KindNotFound, "the job %s does not exist", jobID)
	}
	ctx.DelState(jobKey(jobID))
	return &DeleteConfirmation{JobID: jobID, Deleted: true}, nil
}

type applicantInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CoverLetter string `json:"coverLetter"`
}

// ApplyForJob appends an applicant to the job. One application per
// candidate email per job; the new entry is stamped with the transaction
// time and the initial pipeline status.
func (c *Contract) ApplyForJob(ctx *txn.Context, jobID, applicantData string) (*domain.Job, error) {
	job, err := c.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var input applicantInput
	if err := json.Unmarshal([]byte(applicantData), &input); err != nil {
		return nil, Errorf(KindDecodeError, "applicant data is not valid JSON: %v", err)
	}
	if job.HasApplicant(input.Email) {
		return nil, Errorf(KindAlreadyApplied, "applicant %s has already applied for job %s", input.Email, jobID)
	}

	job.Applicants = append(job.Applicants, domain.Applicant{
		Name:        input.Name,
		Email:       input.Email,
		CoverLetter: input.CoverLetter,
		AppliedAt:   ctx.TxTime(),
		Status:      domain.ApplicantStatusPending,
	})
	ctx.PutState(jobKey(jobID), encodeJob(job))
	return job, nil
}

// UpdateApplicantStatus moves one applicant through the pipeline. This
// is the only operation that mutates an existing applicant entry.
func (c *Contract) UpdateApplicantStatus(ctx *txn.Context, jobID, email, status string) (*domain.Job, error) {
	if !domain.ValidApplicantStatus(status) {
		return nil, Errorf(KindDecodeError, "invalid applicant status %q", status)
	}

	job, err := c.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range job.Applicants {
		if job.Applicants[i].Email == email {
			job.Applicants[i].Status = status
			updated = true
			break
		}
	}
	if !updated {
		return nil, Errorf(KindNotFound, "applicant %s has not applied for job %s", email, jobID)
	}

	ctx.PutState(jobKey(jobID), encodeJob(job))
	return job, nil
}

// GetAllJobs returns every job record in store iteration order.
func (c *Contract) GetAllJobs(ctx *txn.Context) ([]*domain.Job, error) {
	jobs := make([]*domain.Job, 0)
	err := queryRange(ctx, jobKeyPrefix, func(data []byte) error {
		job, err := decodeJob(data)
		if err != nil || job.DocType != domain.DocTypeJob {
			// Best-effort: skip records that do not decode as jobs.
			return nil
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
