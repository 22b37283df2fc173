package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKop_Rub(t *testing.T) {
	tests := []struct {
		kop  Kop
		want string
	}{
		{kop: 15050, want: "150.50"},
		{kop: 500, want: "5.00"},
		{kop: 5, want: "0.05"},
		{kop: 0, want: "0.00"},
		{kop: -150, want: "-1.50"},
		{kop: 99, want: "0.99"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.kop.Rub())
	}
}
