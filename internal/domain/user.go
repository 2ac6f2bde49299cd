package domain

// User roles
const (
	RoleCandidate = "candidate"
	RoleRecruiter = "recruiter"
)

// DocTypeUser tags user records in the flat ledger keyspace so range
// queries can tell them apart from jobs.
const DocTypeUser = "user"

// Attachment is a file stored inline on a user record (CV, certificate,
// profile photo). Content is base64 on the wire; the ledger treats it as
// an opaque string.
type Attachment struct {
	FileName   string `json:"fileName"`
	FileSize   int64  `json:"fileSize,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	UploadedAt string `json:"uploadedAt,omitempty"`
	Content    string `json:"content,omitempty"`
}

// User is a ledger user record. UserID and Email are immutable after
// creation; CreatedAt is derived from the transaction timestamp, never
// the host clock.
type User struct {
	DocType   string `json:"docType"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`

	// Optional profile extension fields, added post-creation.
	Title        string       `json:"title,omitempty"`
	Skills       []string     `json:"skills,omitempty"`
	Experience   string       `json:"experience,omitempty"`
	Education    string       `json:"education,omitempty"`
	CountryCode  string       `json:"countryCode,omitempty"`
	PhoneNumber  string       `json:"phoneNumber,omitempty"`
	LinkedInURL  string       `json:"linkedInUrl,omitempty"`
	ProfilePhoto string       `json:"profilePhoto,omitempty"`
	Certificates []Attachment `json:"certificates,omitempty"`
	CVData       *Attachment  `json:"cvData,omitempty"`
	Status       string       `json:"status,omitempty"`
}

// WithoutPassword returns a copy safe to hand to callers.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}
