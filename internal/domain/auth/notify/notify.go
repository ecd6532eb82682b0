package notify

import "context"

// Notifier delivers the verification message for a freshly registered
// account. Delivery is fire-and-forget from the lifecycle manager's
// point of view: an error here never rolls back registration.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, toAddress, token string) error
}
