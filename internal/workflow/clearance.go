package workflow

import (
	"time"

	"port-customs-clearance/internal/catalog"
	"port-customs-clearance/internal/domain"
)

// EvaluateClearance reports whether every required document of the category
// is APPROVED. Pure and idempotent; the orchestrator persists the result,
// the evaluator never touches storage.
func EvaluateClearance(cat *domain.CommodityCategory, statuses map[string]domain.DocumentStatusRecord) bool {
	for _, name := range catalog.RequiredDocuments(cat) {
		if rec, ok := statuses[name]; !ok || rec.Status != domain.StatusApproved {
			return false
		}
	}
	return true
}

// prerequisiteMet reports whether a single prerequisite is satisfied.
// An exporter document satisfies its dependents once uploaded (it sits at
// PENDING awaiting agency intake); an agency document only once APPROVED.
func prerequisiteMet(cat *domain.CommodityCategory, state *domain.CargoDocumentState, name string) bool {
	status := state.StatusOf(name)
	if _, isExporterDoc := cat.ExporterDocument(name); isExporterDoc {
		return status == domain.StatusPending || status == domain.StatusInProgress || status == domain.StatusApproved
	}
	return status == domain.StatusApproved
}

// unmetPrerequisites returns the prerequisite names of documentName that are
// not yet satisfied, in declaration order.
func unmetPrerequisites(cat *domain.CommodityCategory, state *domain.CargoDocumentState, documentName string) []string {
	var unmet []string
	for _, p := range catalog.PrerequisitesOf(cat, documentName) {
		if !prerequisiteMet(cat, state, p) {
			unmet = append(unmet, p)
		}
	}
	return unmet
}

// cascadeUnlocks moves every agency document whose full prerequisite set is
// now satisfied from NOT_STARTED to PENDING. Documents are visited in
// dependency order, so a chain unlocked by one mutation resolves transitively
// in a single pass: a newly PENDING document never satisfies an agency
// prerequisite, only an APPROVED one does. Returns the unlocked names.
func cascadeUnlocks(cat *domain.CommodityCategory, state *domain.CargoDocumentState, now func() time.Time) []string {
	var unlocked []string
	for _, d := range catalog.AgencyDocumentsInDependencyOrder(cat) {
		if state.StatusOf(d.Name) != domain.StatusNotStarted {
			continue
		}
		if len(unmetPrerequisites(cat, state, d.Name)) > 0 {
			continue
		}
		state.DocumentStatus[d.Name] = domain.DocumentStatusRecord{
			Status:      domain.StatusPending,
			LastUpdated: now(),
			UpdatedBy:   "workflow",
			Comments:    "prerequisites satisfied, awaiting agency review",
		}
		unlocked = append(unlocked, d.Name)
	}
	return unlocked
}

// derivePhase recomputes the coarse processing phase from document statuses.
func derivePhase(cat *domain.CommodityCategory, state *domain.CargoDocumentState) domain.ProcessingPhase {
	if state.IsCustomsCleared {
		return domain.PhaseCustomsClearance
	}
	for _, d := range cat.ExporterDocuments {
		if state.StatusOf(d.Name) == domain.StatusNotStarted {
			return domain.PhaseInitialSubmission
		}
	}
	for _, name := range catalog.RequiredDocuments(cat) {
		if state.StatusOf(name) == domain.StatusApproved {
			continue
		}
		d, isAgencyDoc := cat.AgencyDocument(name)
		if !isAgencyDoc || d.IssuingAgencyType != domain.AgencyCustoms {
			return domain.PhaseAgencyReview
		}
	}
	// Only the customs authority's own documents remain outstanding.
	return domain.PhaseFinalApproval
}
