package service

import "time"

const (
	ProductDCA   = "dca"
	ProductLimit = "limit"

	QueueDCA   = "autobitstack-dca"
	QueueLimit = "autobitstack-limit"
)

// frequencyIntervals is indexed by the order's on-chain frequency class:
// daily, weekly, monthly.
var frequencyIntervals = []time.Duration{
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// limitRecheckInterval is how often an open limit order is re-evaluated
// against the market price.
const limitRecheckInterval = time.Minute
