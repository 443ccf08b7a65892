// Package feed turns raw pipe-delimited contribution lines into validated
// records.
//
// A line either becomes a Contribution or is rejected whole; the two
// optional fields (origin zone and transaction date) degrade independently
// to absent when they fail their shape checks, so a record can still
// contribute to one report while being excluded from the other.
package feed

import "time"

// Contribution is a single validated contribution record.
//
// Zone and Date are independently optional: HasZone/HasDate report whether
// the raw field survived validation. AmountCents holds the transaction
// amount in unrounded cents (amount x 100); reports round at read time.
type Contribution struct {
	RecipientID string

	Zone    string
	HasZone bool

	DateStr string
	Date    time.Time
	HasDate bool

	AmountCents float64
}
