package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain decimal", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "integer", input: "50", want: 5000},
		{name: "single fractional digit", input: "9.5", want: 950},
		{name: "third digit rounds down", input: "12.344", want: 1234},
		{name: "third digit rounds up", input: "12.346", want: 1235},
		{name: "leading dot", input: ".75", want: 75},
		{name: "surrounding whitespace", input: "  20.00 ", want: 2000},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero decimal", input: "0.00", wantErr: true},
		{name: "explicit plus sign", input: "+5", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "letters", input: "ten", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Cents)
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	income := Money{Cents: 100000}
	expenses := Money{Cents: 108000}

	balance := income.Sub(expenses)
	assert.Equal(t, int64(-8000), balance.Cents)
	assert.True(t, balance.Negative())
	assert.Equal(t, "-80.00", balance.String())

	assert.Equal(t, int64(208000), expenses.Add(income).Cents)
	assert.Equal(t, "1000.00", income.String())
}

func TestMoneyValidate(t *testing.T) {
	assert.NoError(t, Money{Cents: 1}.Validate())
	assert.ErrorIs(t, Money{Cents: 0}.Validate(), ErrInvalidAmount)
	assert.ErrorIs(t, Money{Cents: -100}.Validate(), ErrInvalidAmount)
}
