package v1

import (
	"encoding/json"
	"fmt"
	"time"

	"cvchain-backend/internal/ledger"
)

// Ledger is the slice of the engine the gateway needs. Submit commits
// the handler's write-set; Evaluate is read-only.
type Ledger interface {
	Submit(name string, args []string, ts ledger.Timestamp) ([]byte, error)
	Evaluate(name string, args []string, ts ledger.Timestamp) ([]byte, error)
}

// txNow builds the deterministic transaction timestamp the gateway
// submits alongside every invocation. This is the only place wall-clock
// time enters the system; the ledger core never reads a clock.
func txNow() ledger.Timestamp {
	now := time.Now()
	return ledger.Timestamp{Seconds: now.Unix(), Nanos: int32(now.Nanosecond())}
}

// entityID mints the USER_<ms>/JOB_<ms> primary keys from the same
// timestamp that will be submitted as the transaction time.
func entityID(prefix string, ts ledger.Timestamp) string {
	return fmt.Sprintf("%s_%d", prefix, ts.Time().UnixMilli())
}

func decodeResult(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
