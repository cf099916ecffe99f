package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineIdentityWhenBEqualsA(t *testing.T) {
	assert.Equal(t, "1010", combine("1010", "1010", "0101"))
}

func TestCombineIdentityWhenCEqualsA(t *testing.T) {
	assert.Equal(t, "1010", combine("1010", "0101", "1010"))
}

func TestCombineCommutesInBC(t *testing.T) {
	a, b, c := "110", "101", "011"
	assert.Equal(t, combine(a, b, c), combine(a, c, b))
}

func TestCombineAgreesWithBWhenBAndCAgree(t *testing.T) {
	a, b, c := "000", "111", "111"
	d := combine(a, b, c)
	for j := range b {
		assert.Equal(t, b[j], d[j])
	}
}

func TestCombineFlipsOnlyOnDoubleDisagreement(t *testing.T) {
	// position 0: b and c both disagree with a -> flips.
	// position 1: only b disagrees -> stays at a.
	a := "00"
	b := "11"
	c := "10"
	assert.Equal(t, "10", combine(a, b, c))
}
