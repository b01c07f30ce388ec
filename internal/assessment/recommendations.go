package assessment

// Recommendation thresholds.
const (
	gasUrgencyETH  = 0.005
	largeAmountUSD = 10000.0
)

// Recommendations maps a prediction and transaction facts to an ordered list
// of action items. Deterministic: same inputs, same lines, same order.
func Recommendations(flaggedIllicit bool, gasFeeETH, amount float64) []string {
	var recs []string

	if flaggedIllicit {
		recs = append(recs,
			"ALERT: Transaction flagged as potentially illicit",
			"Recommend manual review by compliance team",
			"Consider additional KYC verification",
		)
	}
	if gasFeeETH > gasUrgencyETH {
		recs = append(recs, "High gas fee detected - verify transaction urgency")
	}
	if amount > largeAmountUSD {
		recs = append(recs, "Large transaction amount - enhanced monitoring recommended")
	}
	if len(recs) == 0 {
		recs = append(recs, "Transaction appears normal - routine processing")
	}
	return recs
}
