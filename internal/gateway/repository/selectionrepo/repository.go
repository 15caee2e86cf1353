// Package selectionrepo persists redaction selections. Both backends honor
// the atomicity contract of selection.Store: every bulk operation touches a
// single document's rows inside one statement/transaction (postgres) or one
// lock section (memory).
package selectionrepo

import "redactify/internal/selection"

// Store aliases the consumer-side contract so wiring code can speak in
// repository terms.
type Store = selection.Store
