package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePriceList(t *testing.T) {
	prices, err := ParsePriceList("[Economy 199.99] [Business 649]")
	assert.NoError(t, err)
	assert.Len(t, prices, 2)
	assert.Equal(t, ClassPrice{Class: "Economy", Price: 199.99}, prices[0])
	assert.Equal(t, ClassPrice{Class: "Business", Price: 649}, prices[1])
}

func TestParsePriceList_Invalid(t *testing.T) {
	for _, price := range []string{"", "199.99", "[Economy]"} {
		_, err := ParsePriceList(price)
		assert.Error(t, err, "price %q", price)
	}
}
