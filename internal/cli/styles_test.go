package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tally-fin/tally/internal/model"
)

func TestFormatAmountCarriesSign(t *testing.T) {
	amount := model.Money{Cents: 4250}

	income := FormatAmount(amount, model.KindIncome)
	assert.Contains(t, income, "+42.50")

	expense := FormatAmount(amount, model.KindExpense)
	assert.Contains(t, expense, "-42.50")
}

func TestFormatBalance(t *testing.T) {
	assert.Contains(t, FormatBalance(model.Money{Cents: 1000}), "10.00")
	assert.Contains(t, FormatBalance(model.Money{Cents: -1000}), "-10.00")
	assert.Contains(t, FormatBalance(model.Money{}), "0.00")
}
