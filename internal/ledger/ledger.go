// Package ledger is the invocation boundary of the state machine. The
// engine runs named handlers against a fresh transaction context and
// commits the accumulated write-set in one atomic store write — or, on
// failure, commits nothing. It also provides the single total order of
// transactions the handlers assume: submissions are serialized, so
// at most one handler mutates a given key at a time.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cvchain-backend/internal/ledger/chaincode"
	"cvchain-backend/internal/ledger/state"
	"cvchain-backend/internal/ledger/txn"
)

// Timestamp is re-exported for callers that never touch the inner
// packages.
type Timestamp = txn.Timestamp

var ErrUnknownHandler = errors.New("unknown handler")

type handlerFunc func(ctx *txn.Context, args []string) ([]byte, error)

// Engine drives the chaincode contract over a state store.
type Engine struct {
	mu       sync.Mutex
	store    state.Store
	handlers map[string]handlerFunc
}

func NewEngine(store state.Store) *Engine {
	e := &Engine{store: store}
	e.handlers = registry(chaincode.NewContract())
	return e
}

// Submit runs the named handler and, on success, applies its write-set
// atomically. A failing handler leaves the store byte-identical.
func (e *Engine) Submit(name string, args []string, ts Timestamp) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := txn.New(e.store, ts)
	result, err := e.run(ctx, name, args)
	if err != nil {
		return nil, err
	}
	if ws := ctx.WriteSet(); len(ws) > 0 {
		if err := e.store.Write(ws); err != nil {
			return nil, fmt.Errorf("commit write-set: %w", err)
		}
	}
	return result, nil
}

// Evaluate runs the named handler read-only: whatever write-set it
// accumulates is discarded.
func (e *Engine) Evaluate(name string, args []string, ts Timestamp) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := txn.New(e.store, ts)
	return e.run(ctx, name, args)
}

func (e *Engine) run(ctx *txn.Context, name string, args []string) ([]byte, error) {
	handler, ok := e.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandler, name)
	}
	return handler(ctx, args)
}

func wantArgs(name string, args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s: expected %d args, got %d", name, n, len(args))
	}
	return nil
}

func marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// registry binds handler names to arity-checked adapters around the
// typed contract methods. The set is closed: anything not listed here
// is not invocable.
func registry(c *chaincode.Contract) map[string]handlerFunc {
	return map[string]handlerFunc{
		"InitLedger": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("InitLedger", args, 0); err != nil {
				return nil, err
			}
			if err := c.InitLedger(ctx); err != nil {
				return nil, err
			}
			return []byte(`"SUCCESS"`), nil
		},
		"UserExists": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("UserExists", args, 1); err != nil {
				return nil, err
			}
			exists, err := c.UserExists(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(exists)
		},
		"CreateUser": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("CreateUser", args, 2); err != nil {
				return nil, err
			}
			user, err := c.CreateUser(ctx, args[0], args[1])
			if err != nil {
				return nil, err
			}
			return marshal(user)
		},
		"GetUser": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("GetUser", args, 1); err != nil {
				return nil, err
			}
			user, err := c.GetUser(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(user)
		},
		"GetUserByEmail": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("GetUserByEmail", args, 1); err != nil {
				return nil, err
			}
			user, err := c.GetUserByEmail(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(user)
		},
		"AuthenticateUser": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("AuthenticateUser", args, 2); err != nil {
				return nil, err
			}
			user, err := c.AuthenticateUser(ctx, args[0], args[1])
			if err != nil {
				return nil, err
			}
			return marshal(user)
		},
		"UpdateUser": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("UpdateUser", args, 2); err != nil {
				return nil, err
			}
			user, err := c.UpdateUser(ctx, args[0], args[1])
			if err != nil {
				return nil, err
			}
			return marshal(user)
		},
		"GetAllUsersByRole": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("GetAllUsersByRole", args, 1); err != nil {
				return nil, err
			}
			users, err := c.GetAllUsersByRole(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(users)
		},
		"CreateJob": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("CreateJob", args, 2); err != nil {
				return nil, err
			}
			job, err := c.CreateJob(ctx, args[0], args[1])
			if err != nil {
				return nil, err
			}
			return marshal(job)
		},
		"JobExists": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("JobExists", args, 1); err != nil {
				return nil, err
			}
			exists, err := c.JobExists(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(exists)
		},
		"GetJob": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("GetJob", args, 1); err != nil {
				return nil, err
			}
			job, err := c.GetJob(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(job)
		},
		"UpdateJob": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("UpdateJob", args, 2); err != nil {
				return nil, err
			}
			job, err := c.UpdateJob(ctx, args[0], args[1])
			if err != nil {
				return nil, err
			}
			return marshal(job)
		},
		"DeleteJob": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("DeleteJob", args, 1); err != nil {
				return nil, err
			}
			confirmation, err := c.DeleteJob(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return marshal(confirmation)
		},
		"ApplyForJob": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("ApplyForJob", args, 2); err != nil {
				return nil, err
			}
			job, err := c.ApplyForJob(ctx, args[0], args[1])
			if err != nil {
				return nil, err
			}
			return marshal(job)
		},
		"UpdateApplicantStatus": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("UpdateApplicantStatus", args, 3); err != nil {
				return nil, err
			}
			job, err := c.UpdateApplicantStatus(ctx, args[0], args[1], args[2])
			if err != nil {
				return nil, err
			}
			return marshal(job)
		},
		"GetAllJobs": func(ctx *txn.Context, args []string) ([]byte, error) {
			if err := wantArgs("GetAllJobs", args, 0); err != nil {
				return nil, err
			}
			jobs, err := c.GetAllJobs(ctx)
			if err != nil {
				return nil, err
			}
			return marshal(jobs)
		},
	}
}
