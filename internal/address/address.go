// Package address provides coarse address heuristics for risk screening.
//
// These are deliberately shallow pattern checks, not bytecode or graph
// analysis: contract detection by trailing hex character, risk by prefix and
// entropy patterns. They run on every request with no state and no I/O.
package address

import "strings"

const addressLength = 42 // "0x" + 40 hex chars

// Analysis holds the per-request address screening result.
type Analysis struct {
	SenderIsContract   bool    `json:"sender_is_contract"`
	ReceiverIsContract bool    `json:"receiver_is_contract"`
	SenderRiskScore    float64 `json:"sender_risk_score"`
	ReceiverRiskScore  float64 `json:"receiver_risk_score"`
	AddressesRelated   bool    `json:"addresses_related"`
}

// Analyze screens a sender/receiver pair.
func Analyze(sender, receiver string) Analysis {
	return Analysis{
		SenderIsContract:   IsContract(sender),
		ReceiverIsContract: IsContract(receiver),
		SenderRiskScore:    RiskScore(sender),
		ReceiverRiskScore:  RiskScore(receiver),
		AddressesRelated:   Related(sender, receiver),
	}
}

// IsContract reports whether an address looks like a smart contract.
// Heuristic: a 42-char address whose last hex character falls in a fixed
// tail set. Absent or malformed addresses are treated as EOAs.
func IsContract(addr string) bool {
	if len(addr) != addressLength {
		return false
	}
	switch strings.ToLower(addr)[addressLength-1] {
	case 'c', 'd', 'e', 'f':
		return true
	}
	return false
}

// RiskScore scores an address in [0,1] from surface patterns:
// +0.3 for a zero-nibble prefix (fresh or vanity-mined addresses),
// +0.2 for a low-entropy body (fewer than 10 distinct characters).
// An absent address scores 0.5 (unknown counterparty).
func RiskScore(addr string) float64 {
	if addr == "" {
		return 0.5
	}
	risk := 0.0
	if strings.HasPrefix(strings.ToLower(addr), "0x000") {
		risk += 0.3
	}
	if distinctChars(body(addr)) < 10 {
		risk += 0.2
	}
	if risk > 1.0 {
		risk = 1.0
	}
	return risk
}

// Related reports whether two addresses share the same first 10 characters
// (prefix included), a cheap proxy for same-wallet derivation. False when
// either side is absent. Symmetric by construction.
func Related(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if len(a) < 10 || len(b) < 10 {
		return false
	}
	return a[:10] == b[:10]
}

// body strips the 0x prefix if present.
func body(addr string) string {
	if len(addr) >= 2 && (addr[:2] == "0x" || addr[:2] == "0X") {
		return addr[2:]
	}
	return addr
}

func distinctChars(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}
