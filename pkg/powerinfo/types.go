package powerinfo

// PowerInfo holds the fields scraped from the meter page. Every field is
// optional: nil means the page did not carry that label, which is not an
// error by itself.
// Units:
// - RemainingKWh: kWh
// - RemainingAmountCNY: CNY
// - PricePerKWh: CNY per kWh
type PowerInfo struct {
	MeterName          *string  `json:"meter_name"`
	MeterID            *string  `json:"meter_id"`
	RemainingKWh       *float64 `json:"remaining_kwh"`
	RemainingAmountCNY *float64 `json:"remaining_amount_cny"`
	PricePerKWh        *float64 `json:"price_per_kwh"`
}
