package chaincode

import "cvchain-backend/internal/ledger/txn"

// queryRange is the minimal rich-query facade: a full range scan over an
// entity namespace with the caller filtering in memory. Acceptable at
// this system's scale; the email index is the only real secondary index.
func queryRange(ctx *txn.Context, prefix string, visit func(value []byte) error) error {
	it, err := ctx.Scan(prefix)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		if err := visit(it.Value()); err != nil {
			return err
		}
	}
	return nil
}
