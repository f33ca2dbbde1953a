package lifecycle

import "fmt"

// Status is the canonical status vocabulary for a request.
// Stored as small codes; rendered to operators through the label table below.
type Status string

const (
	StatusNew          Status = "new"
	StatusReview       Status = "review"
	StatusApproved     Status = "approved"
	StatusAwaitingPost Status = "awaiting_post"
	StatusReceivedDC   Status = "received_dc"
	StatusClosed       Status = "closed"
	StatusProcessing   Status = "processing"
	StatusCompleted    Status = "completed"
	StatusRejected     Status = "rejected"
)

// Type classifies a request.
type Type string

const (
	TypeExchange Type = "exchange"
	TypeReturn   Type = "return"
	TypeRefund   Type = "refund"
)

// RefundMethod is how an approved refund is paid out.
type RefundMethod string

const (
	MethodCard    RefundMethod = "card"
	MethodPix     RefundMethod = "pix"
	MethodBoleto  RefundMethod = "boleto"
	MethodVoucher RefundMethod = "voucher"
)

// labels maps every status code to exactly one pt-BR display label.
// The mapping must stay bijective: list/filter logic resolves columns by
// label and silently drops rows for unknown codes otherwise.
var labels = map[Status]string{
	StatusNew:          "Novo",
	StatusReview:       "Em análise",
	StatusApproved:     "Aprovado",
	StatusAwaitingPost: "Aguardando postagem",
	StatusReceivedDC:   "Recebido no CD",
	StatusClosed:       "Concluído",
	StatusProcessing:   "Em processamento",
	StatusCompleted:    "Reembolsado",
	StatusRejected:     "Recusado",
}

// Label returns the display label for a status code.
func Label(s Status) (string, error) {
	l, ok := labels[s]
	if !ok {
		return "", fmt.Errorf("unknown status code: %s", s)
	}
	return l, nil
}

// FromLabel resolves a display label back to its status code.
func FromLabel(label string) (Status, error) {
	for code, l := range labels {
		if l == label {
			return code, nil
		}
	}
	return "", fmt.Errorf("unknown status label: %s", label)
}

// AllStatuses returns every known status code.
func AllStatuses() []Status {
	return []Status{
		StatusNew,
		StatusReview,
		StatusApproved,
		StatusAwaitingPost,
		StatusReceivedDC,
		StatusClosed,
		StatusProcessing,
		StatusCompleted,
		StatusRejected,
	}
}

// ValidType reports whether t is a known request type.
func ValidType(t Type) bool {
	return t == TypeExchange || t == TypeReturn || t == TypeRefund
}

// ValidMethod reports whether m is a known refund payout method.
func ValidMethod(m RefundMethod) bool {
	switch m {
	case MethodCard, MethodPix, MethodBoleto, MethodVoucher:
		return true
	}
	return false
}
