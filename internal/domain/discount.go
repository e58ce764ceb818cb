package domain

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type DiscountCurrency struct {
	Currency    string
	AmountMinor int64
}

type Discount struct {
	Type       DiscountType
	Percent    int64
	Currencies []DiscountCurrency
}

// ApplyDiscount computes the discounted price in minor currency units using
// integer arithmetic only. Percent discounts subtract floor(price*percent/100);
// fixed discounts subtract the first listed currency amount. Unknown discount
// types leave the price unchanged. The result is not clamped at zero.
func ApplyDiscount(price int64, d Discount) int64 {
	switch d.Type {
	case DiscountPercent:
		return price - price*d.Percent/100
	case DiscountFixed:
		if len(d.Currencies) == 0 {
			return price
		}
		return price - d.Currencies[0].AmountMinor
	}
	return price
}
