// Package workflow composes the catalog, registry, and cargo store into the
// customs document-approval workflow.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"port-customs-clearance/internal/catalog"
	"port-customs-clearance/internal/domain"
	"port-customs-clearance/internal/registry"
)

// Conflicting writes on the same cargo record are expected and transient;
// retry the read-modify-write a few times before giving up.
const maxConflictRetries = 3

// CargoStore is the booking/cargo collaborator boundary. Save must apply
// compare-and-set semantics on CargoDocumentState.Version and return
// domain.ErrConflict on a lost race.
type CargoStore interface {
	CreateCargoDocumentState(ctx context.Context, state domain.CargoDocumentState) error
	GetCargoDocumentState(ctx context.Context, bookingID, cargoID string) (domain.CargoDocumentState, error)
	SaveCargoDocumentState(ctx context.Context, state domain.CargoDocumentState) error
}

// UpdateResult is the success payload of a status mutation.
type UpdateResult struct {
	UpdatedBy        string    `json:"updated_by"`
	Timestamp        time.Time `json:"timestamp"`
	IsCustomsCleared bool      `json:"is_customs_cleared"`
	Unlocked         []string  `json:"unlocked,omitempty"`
}

type Orchestrator struct {
	catalog  *catalog.Catalog
	registry *registry.Registry
	store    CargoStore
	now      func() time.Time
}

func NewOrchestrator(cat *catalog.Catalog, reg *registry.Registry, store CargoStore) *Orchestrator {
	return &Orchestrator{
		catalog:  cat,
		registry: reg,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RegisterCargo classifies a new cargo item and initializes its document
// map. Every declared document starts at NOT_STARTED.
func (o *Orchestrator) RegisterCargo(ctx context.Context, bookingID, cargoID, hsCode string) (domain.CargoDocumentState, error) {
	cat, ok := o.catalog.Classify(hsCode)
	if !ok {
		return domain.CargoDocumentState{}, domain.NewValidationError("unsupported HS code %q: no clearance workflow for this cargo", hsCode)
	}

	now := o.now()
	state := domain.CargoDocumentState{
		BookingID:      bookingID,
		CargoID:        cargoID,
		HSCode:         hsCode,
		CategoryName:   cat.Name,
		Phase:          domain.PhaseInitialSubmission,
		DocumentStatus: make(map[string]domain.DocumentStatusRecord),
	}
	for _, name := range cat.DocumentNames() {
		state.DocumentStatus[name] = domain.DocumentStatusRecord{
			Status:      domain.StatusNotStarted,
			LastUpdated: now,
			UpdatedBy:   "workflow",
		}
	}
	if err := o.store.CreateCargoDocumentState(ctx, state); err != nil {
		return domain.CargoDocumentState{}, fmt.Errorf("create cargo document state: %w", err)
	}
	return state, nil
}

// CargoState returns the current aggregate for a cargo item.
func (o *Orchestrator) CargoState(ctx context.Context, bookingID, cargoID string) (domain.CargoDocumentState, error) {
	return o.store.GetCargoDocumentState(ctx, bookingID, cargoID)
}

// SubmitExporterDocument records an exporter upload: the document moves to
// PENDING with the artifact reference attached, then every agency document
// whose prerequisites are now satisfied is unlocked transitively.
func (o *Orchestrator) SubmitExporterDocument(ctx context.Context, bookingID, cargoID, documentName, artifactRef string) (domain.CargoDocumentState, error) {
	var out domain.CargoDocumentState
	err := o.mutate(ctx, bookingID, cargoID, func(cat *domain.CommodityCategory, state *domain.CargoDocumentState) error {
		if _, ok := cat.ExporterDocument(documentName); !ok {
			return domain.NewValidationError("%q is not an exporter document of category %s", documentName, cat.Name)
		}
		state.DocumentStatus[documentName] = domain.DocumentStatusRecord{
			Status:      domain.StatusPending,
			LastUpdated: o.now(),
			UpdatedBy:   domain.ExporterUpdatedBy,
			DocumentURL: artifactRef,
		}
		cascadeUnlocks(cat, state, o.now)
		state.IsCustomsCleared = EvaluateClearance(cat, state.DocumentStatus)
		state.Phase = derivePhase(cat, state)
		out = *state
		return nil
	})
	if err != nil {
		return domain.CargoDocumentState{}, err
	}
	return out, nil
}

// UpdateDocumentStatus applies an agency review decision. Steps run in
// strict order: authorize, gate approvals on prerequisites, write the status
// record, re-evaluate clearance. Nothing is persisted when any step fails.
func (o *Orchestrator) UpdateDocumentStatus(ctx context.Context, credentialKey, bookingID, cargoID, documentName string, newStatus domain.DocumentStatus, comments string) (UpdateResult, error) {
	agency, err := o.registry.Authorize(credentialKey, documentName)
	if err != nil {
		return UpdateResult{}, err
	}

	var result UpdateResult
	err = o.mutate(ctx, bookingID, cargoID, func(cat *domain.CommodityCategory, state *domain.CargoDocumentState) error {
		_, isAgencyDoc := cat.AgencyDocument(documentName)
		_, isExporterDoc := cat.ExporterDocument(documentName)
		if !isAgencyDoc && !isExporterDoc {
			return domain.NewValidationError("%q is not a document of category %s", documentName, cat.Name)
		}
		current := state.StatusOf(documentName)
		// Prerequisites are checked before transition legality: a document
		// still NOT_STARTED is exactly one whose prerequisites have not
		// unlocked it, and the caller needs the unmet names, not a
		// transition complaint.
		if newStatus == domain.StatusApproved {
			if unmet := unmetPrerequisites(cat, state, documentName); len(unmet) > 0 {
				return &domain.PrerequisiteError{Document: documentName, Unmet: unmet}
			}
		}
		if !domain.CanTransition(current, newStatus) {
			return domain.NewValidationError("document %s cannot move from %s to %s", documentName, current, newStatus)
		}

		now := o.now()
		prior := state.DocumentStatus[documentName]
		state.DocumentStatus[documentName] = domain.DocumentStatusRecord{
			Status:      newStatus,
			LastUpdated: now,
			UpdatedBy:   agency.Name,
			Comments:    comments,
			DocumentURL: prior.DocumentURL,
		}
		unlocked := cascadeUnlocks(cat, state, o.now)
		state.IsCustomsCleared = EvaluateClearance(cat, state.DocumentStatus)
		state.Phase = derivePhase(cat, state)

		result = UpdateResult{
			UpdatedBy:        agency.Name,
			Timestamp:        now,
			IsCustomsCleared: state.IsCustomsCleared,
			Unlocked:         unlocked,
		}
		return nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return result, nil
}

// mutate runs one atomic read-modify-write against the cargo aggregate. The
// mutation is re-applied against a fresh read whenever the compare-and-set
// save loses to a concurrent writer, so updates to different documents of the
// same cargo item both land.
func (o *Orchestrator) mutate(ctx context.Context, bookingID, cargoID string, fn func(cat *domain.CommodityCategory, state *domain.CargoDocumentState) error) error {
	var lastErr error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		state, err := o.store.GetCargoDocumentState(ctx, bookingID, cargoID)
		if err != nil {
			return err
		}
		cat, ok := o.catalog.Classify(state.HSCode)
		if !ok {
			return domain.NewValidationError("cargo %s has unsupported HS code %q", cargoID, state.HSCode)
		}
		if state.DocumentStatus == nil {
			state.DocumentStatus = make(map[string]domain.DocumentStatusRecord)
		}
		if err := fn(cat, &state); err != nil {
			return err
		}
		err = o.store.SaveCargoDocumentState(ctx, state)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("save cargo document state: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("update for cargo %s/%s: %w", bookingID, cargoID, lastErr)
}
