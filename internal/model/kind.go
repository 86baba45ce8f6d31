package model

// Kind discriminates expense rows from income rows. Categories and
// transactions each carry their own Kind; the two are never forced to agree.
type Kind string

const (
	// KindExpense marks money leaving the account.
	KindExpense Kind = "expense"
	// KindIncome marks money entering the account.
	KindIncome Kind = "income"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}
