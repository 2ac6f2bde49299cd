package ledger_test

import (
	"encoding/json"
	"testing"

	"cvchain-backend/internal/domain"
	"cvchain-backend/internal/ledger"
	"cvchain-backend/internal/ledger/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTS = ledger.Timestamp{Seconds: 1700000000, Nanos: 123000000}

func TestEngineSubmit(t *testing.T) {
	store := state.NewMemStore()
	engine := ledger.NewEngine(store)

	t.Run("Successful handler commits its write-set", func(t *testing.T) {
		result, err := engine.Submit("CreateUser",
			[]string{"USER_1", `{"email":"ada@example.com","password":"p","name":"Ada","role":"candidate"}`}, testTS)
		require.NoError(t, err)
		assert.Contains(t, string(result), `"userId":"USER_1"`)

		// Record plus email index entry.
		assert.Equal(t, 2, store.Len())
	})

	t.Run("Failing handler leaves the store untouched", func(t *testing.T) {
		before := store.Len()
		_, err := engine.Submit("CreateUser",
			[]string{"USER_1", `{"email":"other@example.com","password":"p","name":"X","role":"candidate"}`}, testTS)
		require.Error(t, err)
		assert.Equal(t, before, store.Len())
	})

	t.Run("InitLedger reports SUCCESS", func(t *testing.T) {
		result, err := engine.Submit("InitLedger", nil, testTS)
		require.NoError(t, err)
		assert.Equal(t, `"SUCCESS"`, string(result))
	})

	t.Run("Unknown handler is rejected", func(t *testing.T) {
		_, err := engine.Submit("NoSuchHandler", nil, testTS)
		require.Error(t, err)
		assert.ErrorIs(t, err, ledger.ErrUnknownHandler)
	})

	t.Run("Wrong arity is rejected before the handler runs", func(t *testing.T) {
		before := store.Len()
		_, err := engine.Submit("CreateUser", []string{"only-one"}, testTS)
		require.Error(t, err)
		assert.Equal(t, before, store.Len())
	})
}

func TestEngineEvaluate(t *testing.T) {
	store := state.NewMemStore()
	engine := ledger.NewEngine(store)

	t.Run("Evaluate never commits, even for a writing handler", func(t *testing.T) {
		result, err := engine.Evaluate("CreateUser",
			[]string{"USER_1", `{"email":"ada@example.com","password":"p","name":"Ada","role":"candidate"}`}, testTS)
		require.NoError(t, err)
		assert.NotEmpty(t, result)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("Evaluate reads committed state", func(t *testing.T) {
		_, err := engine.Submit("CreateJob", []string{"JOB_1", `{"title":"T","company":"C"}`}, testTS)
		require.NoError(t, err)

		result, err := engine.Evaluate("GetAllJobs", nil, testTS)
		require.NoError(t, err)

		var jobs []domain.Job
		require.NoError(t, json.Unmarshal(result, &jobs))
		assert.Len(t, jobs, 1)
		assert.Equal(t, "JOB_1", jobs[0].JobID)
	})

	t.Run("Same timestamp reproduces the same result bytes", func(t *testing.T) {
		a, err := engine.Evaluate("GetJob", []string{"JOB_1"}, testTS)
		require.NoError(t, err)
		b, err := engine.Evaluate("GetJob", []string{"JOB_1"}, testTS)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}
