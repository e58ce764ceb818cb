package domain

const redemptionStateActive = "active"

// Redemption is the application of a coupon to an account.
type Redemption struct {
	State  string
	Coupon Coupon
}

func (r Redemption) Active() bool {
	return r.State == redemptionStateActive
}

type Coupon struct {
	Code     string
	Discount Discount
}
