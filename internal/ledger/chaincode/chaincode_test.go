package chaincode_test

import (
	"testing"

	"cvchain-backend/internal/domain"
	"cvchain-backend/internal/ledger/chaincode"
	"cvchain-backend/internal/ledger/state"
	"cvchain-backend/internal/ledger/txn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testTS = txn.Timestamp{Seconds: 1700000000, Nanos: 123000000}

// commit applies a finished invocation's write-set, the way the engine
// does after a successful handler run.
func commit(t *testing.T, store state.Store, ctx *txn.Context) {
	t.Helper()
	require.NoError(t, store.Write(ctx.WriteSet()))
}

func newLedger(t *testing.T) (*chaincode.Contract, *state.MemStore) {
	t.Helper()
	return chaincode.NewContract(), state.NewMemStore()
}

func TestInitLedger(t *testing.T) {
	c, store := newLedger(t)

	t.Run("Seeds the admin user and its email index", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		require.NoError(t, c.InitLedger(ctx))
		commit(t, store, ctx)

		ctx = txn.New(store, testTS)
		user, err := c.GetUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "admin_user", user.UserID)
		assert.Equal(t, "Admin User", user.Name)
	})

	t.Run("Replaying writes nothing", func(t *testing.T) {
		before := store.Len()

		ctx := txn.New(store, txn.Timestamp{Seconds: 1800000000})
		require.NoError(t, c.InitLedger(ctx))
		assert.Empty(t, ctx.WriteSet())
		assert.Equal(t, before, store.Len())
	})
}

func TestCreateUser(t *testing.T) {
	c, store := newLedger(t)

	t.Run("Round-trips through GetUser with the transaction time", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		user, err := c.CreateUser(ctx, "USER_1", `{"email":"ada@example.com","password":"hash","name":"Ada","role":"candidate"}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		assert.Equal(t, "user", user.DocType)
		assert.Equal(t, testTS.ISO(), user.CreatedAt)

		ctx = txn.New(store, testTS)
		got, err := c.GetUser(ctx, "USER_1")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("Duplicate userId fails AlreadyExists and writes nothing", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.CreateUser(ctx, "USER_1", `{"email":"other@example.com","password":"p","name":"X","role":"candidate"}`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindAlreadyExists, chaincode.KindOf(err))
		assert.Empty(t, ctx.WriteSet())
	})

	t.Run("Duplicate email fails AlreadyExists even under a fresh userId", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.CreateUser(ctx, "USER_2", `{"email":"ada@example.com","password":"p","name":"X","role":"candidate"}`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindAlreadyExists, chaincode.KindOf(err))
		assert.Empty(t, ctx.WriteSet())
	})

	t.Run("Malformed payload fails DecodeError", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.CreateUser(ctx, "USER_3", `not-json`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindDecodeError, chaincode.KindOf(err))
	})

	t.Run("GetUserByEmail resolves to the same record as GetUser", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		byID, err := c.GetUser(ctx, "USER_1")
		require.NoError(t, err)
		byEmail, err := c.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, byID, byEmail)
	})

	t.Run("UserExists tracks presence", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		exists, err := c.UserExists(ctx, "USER_1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = c.UserExists(ctx, "USER_99")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("GetUser on a missing id fails NotFound", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.GetUser(ctx, "USER_99")
		require.Error(t, err)
		assert.Equal(t, chaincode.KindNotFound, chaincode.KindOf(err))
	})
}

func TestAuthenticateUser(t *testing.T) {
	c, store := newLedger(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	ctx := txn.New(store, testTS)
	_, err = c.CreateUser(ctx, "USER_1", `{"email":"ada@example.com","password":"`+string(hash)+`","name":"Ada","role":"candidate"}`)
	require.NoError(t, err)
	_, err = c.CreateUser(ctx, "USER_2", `{"email":"legacy@example.com","password":"plaintext-pass","name":"Legacy","role":"candidate"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	t.Run("Valid bcrypt credentials return the user without its password", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		user, err := c.AuthenticateUser(ctx, "ada@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "USER_1", user.UserID)
		assert.Empty(t, user.Password)
	})

	t.Run("Plaintext records fall back to exact comparison", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		user, err := c.AuthenticateUser(ctx, "legacy@example.com", "plaintext-pass")
		require.NoError(t, err)
		assert.Equal(t, "USER_2", user.UserID)
	})

	t.Run("Unknown email fails UserNotFound", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.AuthenticateUser(ctx, "nobody@example.com", "whatever")
		require.Error(t, err)
		assert.Equal(t, chaincode.KindUserNotFound, chaincode.KindOf(err))
	})

	t.Run("Wrong password fails InvalidPassword", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.AuthenticateUser(ctx, "ada@example.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, chaincode.KindInvalidPassword, chaincode.KindOf(err))
	})
}

func TestUpdateUser(t *testing.T) {
	c, store := newLedger(t)

	ctx := txn.New(store, testTS)
	_, err := c.CreateUser(ctx, "USER_1", `{"email":"ada@example.com","password":"hash","name":"Ada","role":"candidate"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	t.Run("Merges only the supplied fields", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		user, err := c.UpdateUser(ctx, "USER_1", `{"title":"Engineer","skills":["Go","SQL"]}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		assert.Equal(t, "Engineer", user.Title)
		assert.Equal(t, []string{"Go", "SQL"}, user.Skills)
		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "hash", user.Password)
	})

	t.Run("userId and email cannot be overridden", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		user, err := c.UpdateUser(ctx, "USER_1", `{"userId":"USER_999","email":"evil@example.com","name":"Renamed"}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		assert.Equal(t, "USER_1", user.UserID)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "Renamed", user.Name)

		// The email index still resolves to the same record.
		ctx = txn.New(store, testTS)
		byEmail, err := c.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "USER_1", byEmail.UserID)
	})

	t.Run("createdAt keeps its original value", func(t *testing.T) {
		later := txn.Timestamp{Seconds: 1800000000}
		ctx := txn.New(store, later)
		user, err := c.UpdateUser(ctx, "USER_1", `{"title":"Staff Engineer"}`)
		require.NoError(t, err)
		assert.Equal(t, testTS.ISO(), user.CreatedAt)
	})

	t.Run("Missing user fails NotFound", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.UpdateUser(ctx, "USER_99", `{"name":"X"}`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindNotFound, chaincode.KindOf(err))
	})
}

func TestGetAllUsersByRole(t *testing.T) {
	c, store := newLedger(t)

	ctx := txn.New(store, testTS)
	_, err := c.CreateUser(ctx, "USER_1", `{"email":"c1@example.com","password":"p","name":"C1","role":"candidate"}`)
	require.NoError(t, err)
	_, err = c.CreateUser(ctx, "USER_2", `{"email":"r1@example.com","password":"p","name":"R1","role":"recruiter"}`)
	require.NoError(t, err)
	_, err = c.CreateUser(ctx, "USER_3", `{"email":"c2@example.com","password":"p","name":"C2","role":"candidate"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	t.Run("Filters by role", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		users, err := c.GetAllUsersByRole(ctx, "candidate")
		require.NoError(t, err)
		require.Len(t, users, 2)
		for _, u := range users {
			assert.Equal(t, "candidate", u.Role)
		}
	})

	t.Run("Unknown role yields an empty, non-nil slice", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		users, err := c.GetAllUsersByRole(ctx, "admin")
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})
}

func TestCreateJob(t *testing.T) {
	c, store := newLedger(t)

	t.Run("Synthesizes the salary string from a complete triple", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.CreateJob(ctx, "JOB_1", `{"title":"Backend Engineer","company":"Acme","salaryAmount":"100","salaryCurrency":"USD","salaryFrequency":"year"}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		assert.Equal(t, "USD 100/year", job.Salary)
		assert.Equal(t, "on-site", job.WorkLocationType)
		assert.Equal(t, testTS.ISO(), job.CreatedAt)
		assert.NotNil(t, job.Applicants)
		assert.Empty(t, job.Applicants)
	})

	t.Run("Incomplete triple keeps the literal salary", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.CreateJob(ctx, "JOB_2", `{"title":"T","company":"C","salary":"negotiable","salaryAmount":"100"}`)
		require.NoError(t, err)
		commit(t, store, ctx)
		assert.Equal(t, "negotiable", job.Salary)
	})

	t.Run("Remote flag derives workLocationType", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.CreateJob(ctx, "JOB_3", `{"title":"T","company":"C","remote":true}`)
		require.NoError(t, err)
		commit(t, store, ctx)
		assert.Equal(t, "remote", job.WorkLocationType)
	})

	t.Run("Explicit workLocationType wins over flags", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.CreateJob(ctx, "JOB_4", `{"title":"T","company":"C","remote":true,"workLocationType":"hybrid"}`)
		require.NoError(t, err)
		commit(t, store, ctx)
		assert.Equal(t, "hybrid", job.WorkLocationType)
	})

	t.Run("Duplicate jobId fails AlreadyExists", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.CreateJob(ctx, "JOB_1", `{"title":"T","company":"C"}`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindAlreadyExists, chaincode.KindOf(err))
		assert.Empty(t, ctx.WriteSet())
	})
}

func TestUpdateJob(t *testing.T) {
	c, store := newLedger(t)

	ctx := txn.New(store, testTS)
	_, err := c.CreateJob(ctx, "JOB_1", `{"title":"Backend Engineer","company":"Acme","salaryAmount":"100","salaryCurrency":"USD","salaryFrequency":"year"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	t.Run("Partial update leaves other fields alone", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.UpdateJob(ctx, "JOB_1", `{"location":"Berlin"}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		assert.Equal(t, "Berlin", job.Location)
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, "USD 100/year", job.Salary)
	})

	t.Run("A complete triple re-derives the salary string", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.UpdateJob(ctx, "JOB_1", `{"salaryAmount":"120","salaryCurrency":"EUR","salaryFrequency":"year"}`)
		require.NoError(t, err)
		commit(t, store, ctx)
		assert.Equal(t, "EUR 120/year", job.Salary)
	})

	t.Run("jobId and createdAt keep the stored values", func(t *testing.T) {
		ctx := txn.New(store, txn.Timestamp{Seconds: 1800000000})
		job, err := c.UpdateJob(ctx, "JOB_1", `{"jobId":"JOB_999","createdAt":"2099-01-01T00:00:00.000Z","title":"Renamed"}`)
		require.NoError(t, err)
		assert.Equal(t, "JOB_1", job.JobID)
		assert.Equal(t, testTS.ISO(), job.CreatedAt)
		assert.Equal(t, "Renamed", job.Title)
	})
}

func TestDeleteJob(t *testing.T) {
	c, store := newLedger(t)

	ctx := txn.New(store, testTS)
	_, err := c.CreateJob(ctx, "JOB_1", `{"title":"T","company":"C"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	t.Run("Removes the record and confirms", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		confirmation, err := c.DeleteJob(ctx, "JOB_1")
		require.NoError(t, err)
		commit(t, store, ctx)

		assert.Equal(t, "JOB_1", confirmation.JobID)
		assert.True(t, confirmation.Deleted)

		ctx = txn.New(store, testTS)
		exists, err := c.JobExists(ctx, "JOB_1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Deleting a missing job fails NotFound", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.DeleteJob(ctx, "JOB_1")
		require.Error(t, err)
		assert.Equal(t, chaincode.KindNotFound, chaincode.KindOf(err))
	})
}

func TestApplyForJob(t *testing.T) {
	c, store := newLedger(t)

	ctx := txn.New(store, testTS)
	_, err := c.CreateJob(ctx, "JOB_1", `{"title":"T","company":"C"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	applyTS := txn.Timestamp{Seconds: 1700001000, Nanos: 500000000}

	t.Run("Appends the applicant stamped with tx time and Pending", func(t *testing.T) {
		ctx := txn.New(store, applyTS)
		job, err := c.ApplyForJob(ctx, "JOB_1", `{"name":"Ada","email":"ada@example.com","coverLetter":"Hi"}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		require.Len(t, job.Applicants, 1)
		applicant := job.Applicants[0]
		assert.Equal(t, "Ada", applicant.Name)
		assert.Equal(t, "ada@example.com", applicant.Email)
		assert.Equal(t, applyTS.ISO(), applicant.AppliedAt)
		assert.Equal(t, "Pending", applicant.Status)
	})

	t.Run("Duplicate email fails AlreadyApplied and the list stays at one", func(t *testing.T) {
		ctx := txn.New(store, applyTS)
		_, err := c.ApplyForJob(ctx, "JOB_1", `{"name":"Ada Again","email":"ada@example.com"}`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindAlreadyApplied, chaincode.KindOf(err))
		assert.Empty(t, ctx.WriteSet())

		ctx = txn.New(store, applyTS)
		job, err := c.GetJob(ctx, "JOB_1")
		require.NoError(t, err)
		assert.Len(t, job.Applicants, 1)
	})

	t.Run("A different email still gets through", func(t *testing.T) {
		ctx := txn.New(store, applyTS)
		job, err := c.ApplyForJob(ctx, "JOB_1", `{"name":"Bob","email":"bob@example.com"}`)
		require.NoError(t, err)
		commit(t, store, ctx)
		assert.Len(t, job.Applicants, 2)
	})

	t.Run("Applying to a missing job fails NotFound", func(t *testing.T) {
		ctx := txn.New(store, applyTS)
		_, err := c.ApplyForJob(ctx, "JOB_99", `{"name":"X","email":"x@example.com"}`)
		require.Error(t, err)
		assert.Equal(t, chaincode.KindNotFound, chaincode.KindOf(err))
	})
}

func TestUpdateApplicantStatus(t *testing.T) {
	c, store := newLedger(t)

	ctx := txn.New(store, testTS)
	_, err := c.CreateJob(ctx, "JOB_1", `{"title":"T","company":"C"}`)
	require.NoError(t, err)
	_, err = c.ApplyForJob(ctx, "JOB_1", `{"name":"Ada","email":"ada@example.com"}`)
	require.NoError(t, err)
	commit(t, store, ctx)

	t.Run("Moves the applicant through the pipeline", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		job, err := c.UpdateApplicantStatus(ctx, "JOB_1", "ada@example.com", "Reviewed")
		require.NoError(t, err)
		commit(t, store, ctx)

		require.Len(t, job.Applicants, 1)
		assert.Equal(t, "Reviewed", job.Applicants[0].Status)
	})

	t.Run("Rejects a status outside the pipeline", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.UpdateApplicantStatus(ctx, "JOB_1", "ada@example.com", "Hired")
		require.Error(t, err)
		assert.Equal(t, chaincode.KindDecodeError, chaincode.KindOf(err))
	})

	t.Run("Missing applicant fails NotFound", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.UpdateApplicantStatus(ctx, "JOB_1", "nobody@example.com", "Accepted")
		require.Error(t, err)
		assert.Equal(t, chaincode.KindNotFound, chaincode.KindOf(err))
	})
}

func TestGetAllJobs(t *testing.T) {
	c, store := newLedger(t)

	t.Run("Empty store yields an empty, non-nil slice", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		jobs, err := c.GetAllJobs(ctx)
		require.NoError(t, err)
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
	})

	t.Run("Returns every job and skips user records", func(t *testing.T) {
		ctx := txn.New(store, testTS)
		_, err := c.CreateJob(ctx, "JOB_1", `{"title":"A","company":"C"}`)
		require.NoError(t, err)
		_, err = c.CreateJob(ctx, "JOB_2", `{"title":"B","company":"C"}`)
		require.NoError(t, err)
		_, err = c.CreateUser(ctx, "USER_1", `{"email":"a@b.com","password":"p","name":"N","role":"candidate"}`)
		require.NoError(t, err)
		commit(t, store, ctx)

		ctx = txn.New(store, testTS)
		jobs, err := c.GetAllJobs(ctx)
		require.NoError(t, err)
		assert.Len(t, jobs, 2)
	})
}

func TestWithoutPassword(t *testing.T) {
	u := domain.User{UserID: "u1", Email: "a@b.com", Password: "secret"}
	sanitized := u.WithoutPassword()
	assert.Empty(t, sanitized.Password)
	assert.Equal(t, "secret", u.Password)
	assert.Equal(t, "u1", sanitized.UserID)
}
