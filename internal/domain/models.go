package domain

import "time"

// ExporterDocument is a document the exporter must supply. Exporter documents
// have no prerequisites; they are the roots of a category's dependency graph.
type ExporterDocument struct {
	Name     string     `json:"name"`
	Reviewer AgencyType `json:"reviewer"`
	Required bool       `json:"required"`
}

// AgencyDocument is a document an issuing agency produces once its
// prerequisite documents are satisfied.
type AgencyDocument struct {
	Name               string     `json:"name"`
	IssuingAgencyType  AgencyType `json:"issuing_agency_type"`
	Required           bool       `json:"required"`
	Prerequisites      []string   `json:"prerequisites,omitempty"`
	ProcessingTimeDays int        `json:"processing_time_days"`
	Fee                float64    `json:"fee"`
}

// PhaseDefinition is one step of a category's overall processing sequence.
type PhaseDefinition struct {
	Phase            ProcessingPhase   `json:"phase"`
	ResponsibleParty string            `json:"responsible_party"`
	DependsOn        []ProcessingPhase `json:"depends_on,omitempty"`
}

// CommodityCategory is the regulatory class of goods for one HS-code chapter.
// Categories are immutable after catalog construction.
type CommodityCategory struct {
	ChapterPrefix     string             `json:"chapter_prefix"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	ExporterDocuments []ExporterDocument `json:"exporter_documents"`
	AgencyDocuments   []AgencyDocument   `json:"agency_documents"`
	Phases            []PhaseDefinition  `json:"phases"`
}

// DocumentNames returns every document name declared by the category,
// exporter documents first.
func (c *CommodityCategory) DocumentNames() []string {
	names := make([]string, 0, len(c.ExporterDocuments)+len(c.AgencyDocuments))
	for _, d := range c.ExporterDocuments {
		names = append(names, d.Name)
	}
	for _, d := range c.AgencyDocuments {
		names = append(names, d.Name)
	}
	return names
}

// ExporterDocument returns the exporter document definition with the given
// name, if the category declares one.
func (c *CommodityCategory) ExporterDocument(name string) (ExporterDocument, bool) {
	for _, d := range c.ExporterDocuments {
		if d.Name == name {
			return d, true
		}
	}
	return ExporterDocument{}, false
}

// AgencyDocument returns the agency document definition with the given name,
// if the category declares one.
func (c *CommodityCategory) AgencyDocument(name string) (AgencyDocument, bool) {
	for _, d := range c.AgencyDocuments {
		if d.Name == name {
			return d, true
		}
	}
	return AgencyDocument{}, false
}

// Agency is a registered authority. CredentialKey is a capability: it
// authenticates the agency and must never appear in API responses.
type Agency struct {
	CredentialKey    string     `json:"-"`
	Name             string     `json:"name"`
	Type             AgencyType `json:"type"`
	CategoryPrefix   string     `json:"category_prefix"`
	AllowedDocuments []string   `json:"allowed_documents"`
}

// MayActOn reports whether the agency is permitted to set status on the
// named document.
func (a *Agency) MayActOn(documentName string) bool {
	for _, name := range a.AllowedDocuments {
		if name == documentName {
			return true
		}
	}
	return false
}

// DocumentStatusRecord is one entry in a cargo item's document-status map.
type DocumentStatusRecord struct {
	Status      DocumentStatus `json:"status"`
	LastUpdated time.Time      `json:"last_updated"`
	UpdatedBy   string         `json:"updated_by"`
	Comments    string         `json:"comments,omitempty"`
	DocumentURL string         `json:"document_url,omitempty"`
}

// CargoDocumentState is the per-cargo-item aggregate the workflow mutates.
// IsCustomsCleared and Phase are derived values; callers never set them.
// Version is the compare-and-set token owned by the storage layer.
type CargoDocumentState struct {
	BookingID        string                          `json:"booking_id"`
	CargoID          string                          `json:"cargo_id"`
	HSCode           string                          `json:"hs_code"`
	CategoryName     string                          `json:"category"`
	Phase            ProcessingPhase                 `json:"phase"`
	DocumentStatus   map[string]DocumentStatusRecord `json:"document_status"`
	IsCustomsCleared bool                            `json:"is_customs_cleared"`
	Version          int64                           `json:"-"`
}

// StatusOf returns the current status of a document, defaulting to
// NOT_STARTED when no record exists yet.
func (s *CargoDocumentState) StatusOf(documentName string) DocumentStatus {
	rec, ok := s.DocumentStatus[documentName]
	if !ok {
		return StatusNotStarted
	}
	return rec.Status
}
