package domain

import "fmt"

// DocumentStatus is the per-document review state. It is distinct from
// ProcessingPhase, which tracks the overall clearance process of a cargo item.
type DocumentStatus string

const (
	StatusNotStarted DocumentStatus = "NOT_STARTED"
	StatusPending    DocumentStatus = "PENDING"
	StatusInProgress DocumentStatus = "IN_PROGRESS"
	StatusApproved   DocumentStatus = "APPROVED"
	StatusRejected   DocumentStatus = "REJECTED"
)

// documentTransitions lists the legal moves of the per-document state machine.
// REJECTED -> PENDING is the single cycle: a rejected document re-enters review
// when it is resubmitted.
var documentTransitions = map[DocumentStatus][]DocumentStatus{
	StatusNotStarted: {StatusPending, StatusInProgress},
	StatusPending:    {StatusInProgress, StatusApproved, StatusRejected},
	StatusInProgress: {StatusApproved, StatusRejected},
	StatusRejected:   {StatusPending},
	StatusApproved:   {StatusPending},
}

func ParseDocumentStatus(v string) (DocumentStatus, error) {
	switch s := DocumentStatus(v); s {
	case StatusNotStarted, StatusPending, StatusInProgress, StatusApproved, StatusRejected:
		return s, nil
	default:
		return "", fmt.Errorf("unknown document status %q", v)
	}
}

// CanTransition reports whether a document may move from one status to
// another. Re-asserting the current status is allowed so a reviewer can
// amend comments without changing state.
func CanTransition(from, to DocumentStatus) bool {
	if from == to {
		return true
	}
	for _, next := range documentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ProcessingPhase is the coarse-grained state of the overall clearance
// process for one cargo item. It is derived from document statuses and is
// never set directly by callers.
type ProcessingPhase string

const (
	PhaseInitialSubmission ProcessingPhase = "INITIAL_SUBMISSION"
	PhaseAgencyReview      ProcessingPhase = "AGENCY_REVIEW"
	PhaseFinalApproval     ProcessingPhase = "FINAL_APPROVAL"
	PhaseCustomsClearance  ProcessingPhase = "CUSTOMS_CLEARANCE"
)

// AgencyType enumerates the kinds of issuing authorities known to the
// category catalog.
type AgencyType string

const (
	AgencyVeterinary      AgencyType = "VETERINARY_AUTHORITY"
	AgencyQuarantine      AgencyType = "QUARANTINE_AUTHORITY"
	AgencyPlantQuarantine AgencyType = "PLANT_QUARANTINE_AUTHORITY"
	AgencyDrugRegulatory  AgencyType = "DRUG_REGULATORY_AUTHORITY"
	AgencyDangerousGoods  AgencyType = "DANGEROUS_GOODS_AUTHORITY"
	AgencyTransport       AgencyType = "TRANSPORT_AUTHORITY"
	AgencyCustoms         AgencyType = "CUSTOMS_AUTHORITY"
)

// ExporterUpdatedBy marks status records produced by an exporter upload
// rather than an agency decision.
const ExporterUpdatedBy = "exporter-upload"
