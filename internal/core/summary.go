package core

// StatusMessage is the line shown under the transactions table for a view of n transactions.
func StatusMessage(n int) string {
	switch {
	case n > 5:
		return "Wow! So many transactions!"
	case n > 0:
		return "Keep going! You're doing great!"
	default:
		return "No transactions found."
	}
}
