package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions
type TransactionManager interface {
	// ExecTx executes fn within a transaction carried by the context.
	// Repositories called with that context join the transaction.
	// Implementations bound each attempt with a timeout and retry a transient
	// failure once, so fn must not have effects outside the database.
	ExecTx(ctx context.Context, fn TxFn) error
}
