// Package features derives the model feature encoding from raw transaction
// requests.
//
// Every transaction is reduced to a fixed 10-field numeric vector. The order
// of the fields is load-bearing: the scaler and both models are fitted against
// this exact ordering, so any change here invalidates trained snapshots.
package features

import (
	"math"
	"time"
)

// Token kinds accepted on transaction requests.
const (
	TokenETH  = "ETH"
	TokenUSDC = "USDC"
)

// Defaults applied when the caller supplies no behavioral context.
const (
	DefaultFrequency24h   = 5
	DefaultCounterparties = 3
	DefaultHourOfDay      = 12
	DefaultAccountAgeDays = 365
	DefaultBalance        = 10000.0
)

// HighGasFeeGwei is the gas price (gwei) above which the high_gas_fee flag is set.
const HighGasFeeGwei = 50.0

// FeatureCount is the number of fields in a feature vector.
const FeatureCount = 10

// FeatureNames lists the vector fields in model order.
var FeatureNames = []string{
	"amount",
	"frequency_24h",
	"unique_counterparties",
	"hour_of_day",
	"gas_price",
	"is_contract",
	"account_age_days",
	"balance",
	"token_type_numeric",
	"high_gas_fee",
}

// TransactionRequest is a single transfer to be scored. It is immutable once
// constructed; every downstream component only reads it.
type TransactionRequest struct {
	SenderAddress   string  `json:"sender_address"`
	ReceiverAddress string  `json:"receiver_address"`
	Amount          float64 `json:"amount"`
	TokenType       string  `json:"token_type"`     // "ETH" or "USDC"
	GasLimit        int64   `json:"gas_limit"`      // units
	GasPriceGwei    float64 `json:"gas_price_gwei"` // fee per unit in gwei

	// Optional behavioral context. Pointers so absent fields fall back to
	// documented defaults rather than zero values.
	Frequency24h         *float64 `json:"frequency_24h,omitempty"`
	UniqueCounterparties *float64 `json:"unique_counterparties,omitempty"`
	HourOfDay            *float64 `json:"hour_of_day,omitempty"`
	AccountAgeDays       *float64 `json:"account_age_days,omitempty"`
	Balance              *float64 `json:"balance,omitempty"`
}

// Vector is the ordered 10-field numeric encoding of a transaction.
type Vector struct {
	Amount               float64 `json:"amount"`
	Frequency24h         float64 `json:"frequency_24h"`
	UniqueCounterparties float64 `json:"unique_counterparties"`
	HourOfDay            float64 `json:"hour_of_day"`
	GasPrice             float64 `json:"gas_price"`
	IsContract           float64 `json:"is_contract"`
	AccountAgeDays       float64 `json:"account_age_days"`
	Balance              float64 `json:"balance"`
	TokenTypeNumeric     float64 `json:"token_type_numeric"`
	HighGasFee           float64 `json:"high_gas_fee"`
}

// Values returns the vector as a slice in model order.
func (v Vector) Values() []float64 {
	return []float64{
		v.Amount,
		v.Frequency24h,
		v.UniqueCounterparties,
		v.HourOfDay,
		v.GasPrice,
		v.IsContract,
		v.AccountAgeDays,
		v.Balance,
		v.TokenTypeNumeric,
		v.HighGasFee,
	}
}

// FromValues rebuilds a vector from a model-order slice. The caller must
// guarantee len(vals) == FeatureCount.
func FromValues(vals []float64) Vector {
	return Vector{
		Amount:               vals[0],
		Frequency24h:         vals[1],
		UniqueCounterparties: vals[2],
		HourOfDay:            vals[3],
		GasPrice:             vals[4],
		IsContract:           vals[5],
		AccountAgeDays:       vals[6],
		Balance:              vals[7],
		TokenTypeNumeric:     vals[8],
		HighGasFee:           vals[9],
	}
}

// GasFee is the derived cost of a transaction in native and fiat units.
type GasFee struct {
	Wei float64 `json:"gas_fee_wei"`
	ETH float64 `json:"gas_fee_eth"`
	USD float64 `json:"gas_fee_usd"`
}

// ComputeGasFee converts gas limit × price (gwei) into wei, ETH, and USD.
// ethPriceUSD is the configured reference price, not a live feed.
func ComputeGasFee(gasLimit int64, gasPriceGwei, ethPriceUSD float64) GasFee {
	wei := float64(gasLimit) * gasPriceGwei * 1e9
	eth := wei / 1e18
	return GasFee{
		Wei: wei,
		ETH: round6(eth),
		USD: round2(eth * ethPriceUSD),
	}
}

// Extract builds the feature vector for a request. receiverIsContract comes
// from the address heuristics; missing context falls back to defaults.
// Extraction itself never fails; malformed requests are rejected by
// validation before this point.
func Extract(req *TransactionRequest, receiverIsContract bool) Vector {
	v := Vector{
		Amount:               req.Amount,
		Frequency24h:         orDefault(req.Frequency24h, DefaultFrequency24h),
		UniqueCounterparties: orDefault(req.UniqueCounterparties, DefaultCounterparties),
		HourOfDay:            orDefault(req.HourOfDay, DefaultHourOfDay),
		GasPrice:             req.GasPriceGwei,
		AccountAgeDays:       orDefault(req.AccountAgeDays, DefaultAccountAgeDays),
		Balance:              orDefault(req.Balance, DefaultBalance),
	}
	if receiverIsContract {
		v.IsContract = 1
	}
	if req.TokenType == TokenUSDC {
		v.TokenTypeNumeric = 1
	}
	if req.GasPriceGwei > HighGasFeeGwei {
		v.HighGasFee = 1
	}
	return v
}

// Details is the transaction_details block returned to callers.
type Details struct {
	SenderAddress   string  `json:"sender_address"`
	ReceiverAddress string  `json:"receiver_address"`
	Amount          float64 `json:"amount"`
	TokenType       string  `json:"token_type"`
	GasLimit        int64   `json:"gas_limit"`
	GasPriceGwei    float64 `json:"gas_price_gwei"`
	GasFeeWei       float64 `json:"gas_fee_wei"`
	GasFeeETH       float64 `json:"gas_fee_eth"`
	GasFeeUSD       float64 `json:"gas_fee_usd"`
	BlockNumber     string  `json:"block_number"`
	Network         string  `json:"network"`
	Timestamp       string  `json:"timestamp"`
}

// NewDetails assembles the details block from a request and its derived fee.
// blockNumber is "N/A" when the chain client is unreachable.
func NewDetails(req *TransactionRequest, fee GasFee, blockNumber, network string) Details {
	return Details{
		SenderAddress:   req.SenderAddress,
		ReceiverAddress: req.ReceiverAddress,
		Amount:          req.Amount,
		TokenType:       req.TokenType,
		GasLimit:        req.GasLimit,
		GasPriceGwei:    req.GasPriceGwei,
		GasFeeWei:       fee.Wei,
		GasFeeETH:       fee.ETH,
		GasFeeUSD:       fee.USD,
		BlockNumber:     blockNumber,
		Network:         network,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round6(f float64) float64 { return math.Round(f*1e6) / 1e6 }
