// Package risk scores a submitted refund request. The engine is a pure
// function over its inputs so it can run synchronously inside the
// request-creation transaction: no clock, no randomness, no I/O.
package risk

import "reversa-be/pkg/lifecycle"

// DefaultAutoApproveCeiling applies when the store has not configured one.
const DefaultAutoApproveCeiling = 100.0

// lowRiskThreshold is the score below which a request is considered low
// risk and eligible for auto-approval.
const lowRiskThreshold = 40

// Assessment is the engine output: a 0-100 score and the derived initial
// status for the request.
type Assessment struct {
	Score         int
	InitialStatus lifecycle.Status
	AutoApproved  bool
}

// Score computes the risk score. The score grows with the requested amount
// and shrinks when evidence (line items, attachments) is present. Large,
// unsubstantiated requests land near 100.
func Score(amount float64, hasAttachments, hasItems bool) int {
	score := amountBand(amount)
	if hasAttachments {
		score -= 15
	}
	if hasItems {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// amountBand maps the requested amount onto a base score. Non-positive and
// non-finite amounts fall into the extremes rather than erroring: the
// engine must be total.
func amountBand(amount float64) int {
	switch {
	case amount <= 50:
		return 10
	case amount <= 100:
		return 20
	case amount <= 250:
		return 35
	case amount <= 500:
		return 50
	case amount <= 1000:
		return 65
	case amount <= 2500:
		return 80
	default:
		// Also catches NaN, whose comparisons are all false.
		return 95
	}
}

// Evaluate scores the request and derives its initial status. ceiling is
// the store's configured auto-approve limit; nil falls back to
// DefaultAutoApproveCeiling.
func Evaluate(amount float64, hasAttachments, hasItems bool, ceiling *float64) Assessment {
	limit := DefaultAutoApproveCeiling
	if ceiling != nil {
		limit = *ceiling
	}

	score := Score(amount, hasAttachments, hasItems)

	if score < lowRiskThreshold && amount <= limit {
		return Assessment{Score: score, InitialStatus: lifecycle.StatusApproved, AutoApproved: true}
	}
	return Assessment{Score: score, InitialStatus: lifecycle.StatusNew}
}
