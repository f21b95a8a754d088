package strategy

import (
	"bankroll-lab/internal/domain"
)

// Built-in custom strategy names.
const (
	BuiltinParoli         = "paroli"
	BuiltinBankrollScaled = "bankroll_scaled"
)

// DefaultRegistry returns a Registry holding the built-in bet functions.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Names are unique constants; Register cannot fail here.
	_ = r.Register(BuiltinParoli, Paroli)
	_ = r.Register(BuiltinBankrollScaled, BankrollScaled)
	return r
}

// Paroli doubles a 1% base bet after each win and returns to base after
// three consecutive wins or any loss. The streak is derived from history.
func Paroli(_ float64, _ int, history []domain.RoundRecord) (float64, error) {
	const base = 0.01

	wins := 0
	for i := len(history) - 1; i >= 0 && history[i].Won(); i-- {
		wins++
	}
	wins %= 3

	return base * float64(int(1)<<wins), nil
}

// BankrollScaled bets 5% while the bankroll is above its starting value
// and 2% otherwise.
func BankrollScaled(bankroll float64, _ int, history []domain.RoundRecord) (float64, error) {
	if len(history) == 0 {
		return 0.02, nil
	}
	if bankroll > history[0].BankrollBefore {
		return 0.05, nil
	}
	return 0.02, nil
}
