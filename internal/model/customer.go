package model

// PaymentMethod enumerates the accepted ways to pay for tickets.  The
// set is closed: any other string is rejected during validation.
type PaymentMethod string

const (
	MethodCard PaymentMethod = "Card" // credit or debit card
	MethodYape PaymentMethod = "Yape" // Yape wallet transfer
	MethodPlin PaymentMethod = "Plin" // Plin wallet transfer
	MethodCash PaymentMethod = "Cash" // pay at the box office
)

// Valid reports whether m is one of the four accepted methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodYape, MethodPlin, MethodCash:
		return true
	}
	return false
}

// CustomerInfo holds the buyer and payment fields entered during the
// payment step.  Values are stored already normalized (see the
// checkout form).  The card fields only carry meaning while Method is
// MethodCard; for every other method they are neither required nor
// validated.
type CustomerInfo struct {
	Name       string        // full name
	Email      string        // contact email
	Phone      string        // 9-digit phone, digits only
	Method     PaymentMethod // selected payment method
	CardNumber string        // formatted in blocks of four, e.g. "1234 5678 9012 3456"
	ExpiryDate string        // MM/YY
	CVV        string        // 3 digits
}

// ValidationErrors maps a form field name to a human-readable message.
// A validation pass always rebuilds the whole map; the only
// incremental change ever applied is deleting a single field's entry
// when the user edits that field.
type ValidationErrors map[string]string
