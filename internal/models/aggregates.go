package models

import "github.com/shopspring/decimal"

// ItemTotal is quantity times the product's current price.
func ItemTotal(item CartItem) int64 {
	return int64(item.Quantity) * item.Product.Price
}

func CartTotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += ItemTotal(item)
	}
	return total
}

// exactExponent is below any float64 binary exponent, which makes
// NewFromFloatWithExponent keep every digit.
const exactExponent = -1100

// AverageRating is the mean of the non-nil stars, or 0 when no star is set.
// The float64 mean is rounded to two places from its exact binary value, half
// to even, so 1.075 (stored just below) becomes 1.07.
func AverageRating(stars []*int) float64 {
	var sum, n int64
	for _, s := range stars {
		if s == nil {
			continue
		}
		sum += int64(*s)
		n++
	}
	if n == 0 {
		return 0
	}
	mean := float64(sum) / float64(n)
	avg, _ := decimal.NewFromFloatWithExponent(mean, exactExponent).
		RoundBank(2).
		Float64()
	return avg
}

func ReviewStars(reviews []Review) []*int {
	stars := make([]*int, len(reviews))
	for i := range reviews {
		stars[i] = reviews[i].Star
	}
	return stars
}

// ReviewCount counts every review, including those without a star.
func ReviewCount(reviews []Review) int {
	return len(reviews)
}
