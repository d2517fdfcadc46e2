package enums

import "fmt"

// TransactionType maps to the transaction_type enum in Postgres. Earnings
// credit the agent wallet, payouts debit it.
type TransactionType string

const (
	TransactionTypeEarning TransactionType = "earning"
	TransactionTypePayout  TransactionType = "payout"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeEarning,
	TransactionTypePayout,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransactionType.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
