package model

// Counter names for human-readable IDs.
const (
	CounterShoeID     = "shoeId"
	CounterRequestID  = "requestId"
	CounterDonationID = "donationId"
	CounterOrderID    = "orderId"
)
