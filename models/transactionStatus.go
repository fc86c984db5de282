package models

import "time"

// DeriveStatus computes the status a transaction is persisted with.
//
// Credit card purchases are paid as soon as their date is reached (start of
// day granularity) and pending before that. Any other method keeps current,
// defaulting to pending when it is empty. Overdue is never derived here.
func DeriveStatus(method *PaymentMethod, date Date, today time.Time, current StatusTransaction) StatusTransaction {
	if method != nil && *method == PaymentMethodCreditCard {
		if !DateOf(today).Before(date) {
			return StatusTransactionPaid
		}
		return StatusTransactionPending
	}
	if current == "" {
		return StatusTransactionPending
	}
	return current
}
