// Package chaincode implements the deterministic state-transition
// handlers of the recruitment ledger. Every handler is a pure function
// of its transaction context and arguments: no wall-clock reads, no
// randomness, and no effect outside the context's write-set.
package chaincode

import (
	"encoding/json"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"cvchain-backend/internal/domain"
	"cvchain-backend/internal/ledger/state"
	"cvchain-backend/internal/ledger/txn"
)

// Seed identity written by InitLedger.
const (
	seedUserID = "admin_user"
	seedEmail  = "admin@example.com"
)

// Contract is the set of named ledger operations. It holds no state;
// everything flows through the transaction context.
type Contract struct{}

func NewContract() *Contract { return &Contract{} }

// InitLedger seeds the ledger with the admin user and its email index
// entry. It is idempotent: when the seed user already exists nothing is
// written, so replaying the transaction cannot duplicate the seed.
func (c *Contract) InitLedger(ctx *txn.Context) error {
	exists, err := c.UserExists(ctx, seedUserID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	seed := &domain.User{
		DocType:   domain.DocTypeUser,
		UserID:    seedUserID,
		Email:     seedEmail,
		Name:      "Admin User",
		Role:      domain.RoleCandidate,
		CreatedAt: ctx.TxTime(),
	}
	ctx.PutState(userKey(seed.UserID), encodeUser(seed))
	indexKey, err := state.CompositeKey(emailIndex, seed.Email)
	if err != nil {
		return Errorf(KindDecodeError, "seed email index: %v", err)
	}
	ctx.PutState(indexKey, []byte(seed.UserID))
	return nil
}

// UserExists reports whether a user record is present under userID.
func (c *Contract) UserExists(ctx *txn.Context, userID string) (bool, error) {
	data, err := ctx.GetState(userKey(userID))
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

type createUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// CreateUser writes a new user record and its email index entry. Both
// writes belong to the same write-set, so they commit together or not
// at all. Fails AlreadyExists on a userId collision and, unlike the
// two-phase check the secondary index alone would give, also when the
// email already resolves to another user.
func (c *Contract) CreateUser(ctx *txn.Context, userID, userData string) (*domain.User, error) {
	exists, err := c.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, Errorf(KindAlreadyExists, "the user %s already exists", userID)
	}

	var input createUserInput
	if err := json.Unmarshal([]byte(userData), &input); err != nil {
		return nil, Errorf(KindDecodeError, "user data is not valid JSON: %v", err)
	}

	indexKey, err := state.CompositeKey(emailIndex, input.Email)
	if err != nil {
		return nil, Errorf(KindDecodeError, "email index: %v", err)
	}
	taken, err := ctx.GetState(indexKey)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, Errorf(KindAlreadyExists, "a user with email %s already exists", input.Email)
	}

	user := &domain.User{
		DocType:   domain.DocTypeUser,
		UserID:    userID,
		Email:     input.Email,
		Password:  input.Password,
		Name:      input.Name,
		Role:      input.Role,
		CreatedAt: ctx.TxTime(),
	}
	ctx.PutState(userKey(userID), encodeUser(user))
	ctx.PutState(indexKey, []byte(userID))
	return user, nil
}

// GetUser returns the user stored under userID.
func (c *Contract) GetUser(ctx *txn.Context, userID string) (*domain.User, error) {
	data, err := ctx.GetState(userKey(userID))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, Errorf(KindNotFound, "the user %s does not exist", userID)
	}
	return decodeUser(data)
}

// GetUserByEmail resolves the email index entry and delegates to
// GetUser. An index entry pointing at a missing record surfaces as the
// same NotFound class, not a distinct integrity error.
func (c *Contract) GetUserByEmail(ctx *txn.Context, email string) (*domain.User, error) {
	indexKey, err := state.CompositeKey(emailIndex, email)
	if err != nil {
		return nil, Errorf(KindDecodeError, "email index: %v", err)
	}
	userID, err := ctx.GetState(indexKey)
	if err != nil {
		return nil, err
	}
	if len(userID) == 0 {
		return nil, Errorf(KindNotFound, "user with email %s does not exist", email)
	}
	return c.GetUser(ctx, string(userID))
}

// AuthenticateUser checks credentials and returns the user without its
// password field. The three failure classes stay distinguishable:
// UserNotFound when the email does not resolve, InvalidPassword on a
// mismatch, InvalidCredentials for anything else.
func (c *Contract) AuthenticateUser(ctx *txn.Context, email, password string) (*domain.User, error) {
	user, err := c.GetUserByEmail(ctx, email)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return nil, Errorf(KindUserNotFound, "user with email %s does not exist", email)
		}
		return nil, Errorf(KindInvalidCredentials, "invalid credentials")
	}

	if !passwordMatches(user.Password, password) {
		return nil, Errorf(KindInvalidPassword, "invalid password")
	}

	sanitized := user.WithoutPassword()
	return &sanitized, nil
}

// passwordMatches compares the stored credential with the submitted
// password. Records written through the HTTP gateway hold bcrypt hashes;
// older records hold the raw string, so those fall back to exact
// comparison. Both paths are deterministic given their inputs.
func passwordMatches(stored, submitted string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
	}
	return stored != "" && stored == submitted
}

// UpdateUser merges a partial update onto the stored record. userId and
// email always keep the stored values regardless of what the partial
// supplies; the merge only touches allow-listed fields.
func (c *Contract) UpdateUser(ctx *txn.Context, userID, partialData string) (*domain.User, error) {
	user, err := c.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var partial userUpdate
	if err := json.Unmarshal([]byte(partialData), &partial); err != nil {
		return nil, Errorf(KindDecodeError, "update data is not valid JSON: %v", err)
	}
	mergeUser(user, &partial)

	ctx.PutState(userKey(userID), encodeUser(user))
	return user, nil
}

// GetAllUsersByRole returns every user whose role matches, in store
// iteration order. Callers must not assume any ordering beyond that.
func (c *Contract) GetAllUsersByRole(ctx *txn.Context, role string) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	err := queryRange(ctx, userKeyPrefix, func(data []byte) error {
		user, err := decodeUser(data)
		if err != nil || user.DocType != domain.DocTypeUser {
			// Best-effort: skip records that do not decode as users.
			return nil
		}
		if user.Role == role {
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
