package features

import (
	"math"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestExtractDefaults(t *testing.T) {
	req := &TransactionRequest{
		SenderAddress:   "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		ReceiverAddress: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Amount:          100,
		TokenType:       TokenETH,
		GasLimit:        21000,
		GasPriceGwei:    20,
	}

	v := Extract(req, false)

	if v.Frequency24h != DefaultFrequency24h {
		t.Errorf("frequency default: got %f, want %d", v.Frequency24h, DefaultFrequency24h)
	}
	if v.UniqueCounterparties != DefaultCounterparties {
		t.Errorf("counterparties default: got %f, want %d", v.UniqueCounterparties, DefaultCounterparties)
	}
	if v.HourOfDay != DefaultHourOfDay {
		t.Errorf("hour default: got %f, want %d", v.HourOfDay, DefaultHourOfDay)
	}
	if v.AccountAgeDays != DefaultAccountAgeDays {
		t.Errorf("account age default: got %f, want %d", v.AccountAgeDays, DefaultAccountAgeDays)
	}
	if v.Balance != DefaultBalance {
		t.Errorf("balance default: got %f, want %f", v.Balance, DefaultBalance)
	}
	if v.IsContract != 0 {
		t.Errorf("is_contract should be 0, got %f", v.IsContract)
	}
	if v.TokenTypeNumeric != 0 {
		t.Errorf("ETH should encode as 0, got %f", v.TokenTypeNumeric)
	}
	if v.HighGasFee != 0 {
		t.Errorf("20 gwei should not set high_gas_fee, got %f", v.HighGasFee)
	}
}

func TestExtractOverridesAndFlags(t *testing.T) {
	req := &TransactionRequest{
		Amount:         50000,
		TokenType:      TokenUSDC,
		GasLimit:       100000,
		GasPriceGwei:   80,
		Frequency24h:   floatPtr(25),
		HourOfDay:      floatPtr(3),
		AccountAgeDays: floatPtr(7),
	}

	v := Extract(req, true)

	if v.Frequency24h != 25 || v.HourOfDay != 3 || v.AccountAgeDays != 7 {
		t.Errorf("explicit context not applied: %+v", v)
	}
	if v.IsContract != 1 {
		t.Errorf("receiver contract flag not set")
	}
	if v.TokenTypeNumeric != 1 {
		t.Errorf("USDC should encode as 1, got %f", v.TokenTypeNumeric)
	}
	if v.HighGasFee != 1 {
		t.Errorf("80 gwei should set high_gas_fee")
	}
}

func TestComputeGasFee(t *testing.T) {
	// 21000 units at 50 gwei = 1.05e15 wei = 0.00105 ETH
	fee := ComputeGasFee(21000, 50, 2000)

	if fee.Wei != 21000*50*1e9 {
		t.Errorf("wei: got %f", fee.Wei)
	}
	if math.Abs(fee.ETH-0.00105) > 1e-9 {
		t.Errorf("eth: got %f, want 0.00105", fee.ETH)
	}
	if math.Abs(fee.USD-2.1) > 1e-9 {
		t.Errorf("usd: got %f, want 2.10", fee.USD)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	v := Vector{
		Amount:               123.4,
		Frequency24h:         7,
		UniqueCounterparties: 2,
		HourOfDay:            23,
		GasPrice:             60,
		IsContract:           1,
		AccountAgeDays:       10,
		Balance:              999,
		TokenTypeNumeric:     1,
		HighGasFee:           1,
	}

	vals := v.Values()
	if len(vals) != FeatureCount {
		t.Fatalf("got %d values, want %d", len(vals), FeatureCount)
	}
	if got := FromValues(vals); got != v {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestFeatureNamesMatchCount(t *testing.T) {
	if len(FeatureNames) != FeatureCount {
		t.Errorf("FeatureNames has %d entries, want %d", len(FeatureNames), FeatureCount)
	}
}
