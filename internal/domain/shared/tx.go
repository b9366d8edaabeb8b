package shared

import "context"

// TransactionManager runs a function inside one database transaction.
// Repository calls made with the context passed to fn join that
// transaction, which is how a lifecycle archive and its task
// reassignments commit or roll back together.
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
