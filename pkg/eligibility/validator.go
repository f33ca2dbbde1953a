// Package eligibility evaluates a request draft against the store's
// configured policy. Failures are verdicts, not errors: an expired window
// produces isEligible=false with human-readable reasons the public form
// shows to the customer as-is.
package eligibility

import (
	"fmt"

	"reversa-be/pkg/lifecycle"
)

// Policy carries the per-store, per-link-type rules the validator reads.
type Policy struct {
	WindowDays       int
	MinValue         float64
	AutoApprove      bool     // store-level aprovar_auto flag
	AutoApproveLimit *float64 // ceiling handed to the risk engine
	RequirePhotos    bool     // exigir_fotos flag
}

// Input is the request draft under evaluation.
type Input struct {
	Type           lifecycle.Type
	OrderAgeDays   int
	Amount         float64
	HasAttachments bool
}

// Verdict is the validator output. Reasons explain ineligibility; warnings
// flag conditions that force manual review without blocking the request.
type Verdict struct {
	IsEligible  bool
	AutoApprove bool
	Reasons     []string
	Warnings    []string
}

// Evaluate runs every rule independently and combines the outcomes.
// Three effective results: ineligible (reasons set), auto-approve
// (eligible, no warnings, policy allows), or manual review.
func Evaluate(in Input, p Policy) Verdict {
	v := Verdict{IsEligible: true}

	if in.OrderAgeDays > p.WindowDays {
		v.IsEligible = false
		v.Reasons = append(v.Reasons,
			fmt.Sprintf("prazo de %d dias para solicitação expirado", p.WindowDays))
	}

	// Missing photos downgrade auto-approval but do not block the request.
	// Product decision: the operator reviews instead of the customer being
	// turned away.
	if p.RequirePhotos && !in.HasAttachments {
		v.Warnings = append(v.Warnings,
			"fotos do produto não enviadas; análise manual necessária")
	}

	if p.MinValue > 0 && in.Amount < p.MinValue {
		v.Warnings = append(v.Warnings,
			fmt.Sprintf("valor abaixo do mínimo configurado (R$ %.2f)", p.MinValue))
	}

	v.AutoApprove = v.IsEligible && p.AutoApprove && len(v.Warnings) == 0
	return v
}
