package domain

// DocTypeJob tags job records in the flat ledger keyspace.
const DocTypeJob = "job"

// Work location types
const (
	WorkLocationRemote = "remote"
	WorkLocationHybrid = "hybrid"
	WorkLocationOnSite = "on-site"
)

// Applicant pipeline statuses. Pending is the initial status stamped by
// ApplyForJob; the rest are reachable through UpdateApplicantStatus.
const (
	ApplicantStatusPending  = "Pending"
	ApplicantStatusReviewed = "Reviewed"
	ApplicantStatusAccepted = "Accepted"
	ApplicantStatusRejected = "Rejected"
)

// ValidApplicantStatus reports whether s is one of the pipeline statuses.
func ValidApplicantStatus(s string) bool {
	switch s {
	case ApplicantStatusPending, ApplicantStatusReviewed,
		ApplicantStatusAccepted, ApplicantStatusRejected:
		return true
	}
	return false
}

// Applicant is embedded in a Job, one entry per candidate email.
// AppliedAt comes from the transaction timestamp.
type Applicant struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CoverLetter string `json:"coverLetter,omitempty"`
	AppliedAt   string `json:"appliedAt"`
	Status      string `json:"status"`
}

// Job is a ledger job record. JobID, CreatedAt and Applicants are never
// caller-overridable on update; Applicants changes only through
// ApplyForJob and UpdateApplicantStatus.
type Job struct {
	DocType          string      `json:"docType"`
	JobID            string      `json:"jobId"`
	Title            string      `json:"title"`
	Company          string      `json:"company"`
	Location         string      `json:"location,omitempty"`
	Description      string      `json:"description,omitempty"`
	Requirements     string      `json:"requirements,omitempty"`
	Salary           string      `json:"salary,omitempty"`
	SalaryAmount     string      `json:"salaryAmount,omitempty"`
	SalaryCurrency   string      `json:"salaryCurrency,omitempty"`
	SalaryFrequency  string      `json:"salaryFrequency,omitempty"`
	Remote           bool        `json:"remote,omitempty"`
	Hybrid           bool        `json:"hybrid,omitempty"`
	WorkLocationType string      `json:"workLocationType"`
	CreatedAt        string      `json:"createdAt"`
	Applicants       []Applicant `json:"applicants"`
}

// HasApplicant reports whether an applicant with the given email already
// exists on the job. One application per candidate per job.
func (j *Job) HasApplicant(email string) bool {
	for _, a := range j.Applicants {
		if a.Email == email {
			return true
		}
	}
	return false
}
