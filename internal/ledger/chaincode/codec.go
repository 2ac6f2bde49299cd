package chaincode

import (
	"encoding/json"
	"fmt"

	"cvchain-backend/internal/domain"
)

// Primary-key namespaces of the flat keyspace. Composite keys carry a
// leading U+0000, so these can never collide with index entries.
const (
	userKeyPrefix = "user:"
	jobKeyPrefix  = "job:"
	emailIndex    = "email"
)

func userKey(userID string) string { return userKeyPrefix + userID }
func jobKey(jobID string) string   { return jobKeyPrefix + jobID }

func encodeUser(u *domain.User) []byte {
	b, _ := json.Marshal(u)
	return b
}

func decodeUser(data []byte) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, Errorf(KindDecodeError, "stored record is not a valid user: %v", err)
	}
	return &u, nil
}

func encodeJob(j *domain.Job) []byte {
	b, _ := json.Marshal(j)
	return b
}

func decodeJob(data []byte) (*domain.Job, error) {
	var j domain.Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, Errorf(KindDecodeError, "stored record is not a valid job: %v", err)
	}
	return &j, nil
}

// userUpdate is the allow-list of caller-mutable user fields. userId,
// email, docType and createdAt are deliberately absent: identity and
// provenance fields cannot be overridden through UpdateUser.
type userUpdate struct {
	Password     *string              `json:"password"`
	Name         *string              `json:"name"`
	Role         *string              `json:"role"`
	Title        *string              `json:"title"`
	Skills       *[]string            `json:"skills"`
	Experience   *string              `json:"experience"`
	Education    *string              `json:"education"`
	CountryCode  *string              `json:"countryCode"`
	PhoneNumber  *string              `json:"phoneNumber"`
	LinkedInURL  *string              `json:"linkedInUrl"`
	ProfilePhoto *string              `json:"profilePhoto"`
	Certificates *[]domain.Attachment `json:"certificates"`
	CVData       *domain.Attachment   `json:"cvData"`
	Status       *string              `json:"status"`
}

func mergeUser(u *domain.User, p *userUpdate) {
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Title != nil {
		u.Title = *p.Title
	}
	if p.Skills != nil {
		u.Skills = *p.Skills
	}
	if p.Experience != nil {
		u.Experience = *p.Experience
	}
	if p.Education != nil {
		u.Education = *p.Education
	}
	if p.CountryCode != nil {
		u.CountryCode = *p.CountryCode
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.LinkedInURL != nil {
		u.LinkedInURL = *p.LinkedInURL
	}
	if p.ProfilePhoto != nil {
		u.ProfilePhoto = *p.ProfilePhoto
	}
	if p.Certificates != nil {
		u.Certificates = *p.Certificates
	}
	if p.CVData != nil {
		u.CVData = p.CVData
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
}

// jobUpdate is the allow-list of caller-mutable job fields. jobId,
// applicants and createdAt are absent on purpose; applicants change only
// through ApplyForJob and UpdateApplicantStatus.
type jobUpdate struct {
	Title            *string `json:"title"`
	Company          *string `json:"company"`
	Location         *string `json:"location"`
	Description      *string `json:"description"`
	Requirements     *string `json:"requirements"`
	Salary           *string `json:"salary"`
	SalaryAmount     *string `json:"salaryAmount"`
	SalaryCurrency   *string `json:"salaryCurrency"`
	SalaryFrequency  *string `json:"salaryFrequency"`
	Remote           *bool   `json:"remote"`
	Hybrid           *bool   `json:"hybrid"`
	WorkLocationType *string `json:"workLocationType"`
}

func mergeJob(j *domain.Job, p *jobUpdate) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Requirements != nil {
		j.Requirements = *p.Requirements
	}
	if p.Salary != nil {
		j.Salary = *p.Salary
	}
	if p.SalaryAmount != nil {
		j.SalaryAmount = *p.SalaryAmount
	}
	if p.SalaryCurrency != nil {
		j.SalaryCurrency = *p.SalaryCurrency
	}
	if p.SalaryFrequency != nil {
		j.SalaryFrequency = *p.SalaryFrequency
	}
	if p.Remote != nil {
		j.Remote = *p.Remote
	}
	if p.Hybrid != nil {
		j.Hybrid = *p.Hybrid
	}
	if p.WorkLocationType != nil {
		j.WorkLocationType = *p.WorkLocationType
	}

	// A complete amount/currency/frequency triple in the partial wins
	// over whatever salary string the merge produced.
	if p.SalaryAmount != nil && p.SalaryCurrency != nil && p.SalaryFrequency != nil {
		j.Salary = formatSalary(*p.SalaryCurrency, *p.SalaryAmount, *p.SalaryFrequency)
	}
}

func formatSalary(currency, amount, frequency string) string {
	return fmt.Sprintf("%s %s/%s", currency, amount, frequency)
}
