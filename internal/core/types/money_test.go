package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimes(t *testing.T) {
	assert.True(t, MustMoney("75").Equal(Times(MustMoney("25"), 3)))
	assert.True(t, Zero().Equal(Times(MustMoney("25"), 0)))
}

func TestPercent(t *testing.T) {
	assert.True(t, MustMoney("12.5").Equal(Percent(MustMoney("50"), MustMoney("25"))))
	assert.True(t, MustMoney("0.333").Equal(Percent(MustMoney("3.33"), MustMoney("10"))))
}

func TestNonNegative(t *testing.T) {
	assert.True(t, Zero().Equal(NonNegative(MustMoney("-0.01"))))
	assert.True(t, MustMoney("4.2").Equal(NonNegative(MustMoney("4.2"))))
}

func TestMustMoney_PanicsOnGarbage(t *testing.T) {
	assert.Panics(t, func() { MustMoney("twelve") })
}
