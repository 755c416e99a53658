// Package registry holds the deploy-time agency roster and performs the
// credential check in front of every document mutation.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"port-customs-clearance/internal/catalog"
	"port-customs-clearance/internal/domain"
)

// Registry maps agency credential keys to agency identities. Lookups are
// pure: authorization never logs or mutates state.
type Registry struct {
	byKey map[string]*domain.Agency
}

// New validates the roster against the catalog and builds a registry. An
// agency's allowed documents must all be declared by its category: either
// agency documents, or exporter documents the agency's type reviews.
func New(cat *catalog.Catalog, agencies []domain.Agency) (*Registry, error) {
	byKey := make(map[string]*domain.Agency, len(agencies))
	for i := range agencies {
		a := &agencies[i]
		if a.CredentialKey == "" {
			return nil, fmt.Errorf("agency %s: credential key is empty", a.Name)
		}
		if _, dup := byKey[a.CredentialKey]; dup {
			return nil, fmt.Errorf("agency %s: duplicate credential key", a.Name)
		}
		category, ok := cat.Classify(a.CategoryPrefix)
		if !ok {
			return nil, fmt.Errorf("agency %s: unknown category prefix %q", a.Name, a.CategoryPrefix)
		}
		for _, docName := range a.AllowedDocuments {
			if _, isAgencyDoc := category.AgencyDocument(docName); isAgencyDoc {
				continue
			}
			// An agency may also review exporter uploads, but only the
			// documents naming its authority type as reviewer.
			if exporterDoc, isExporterDoc := category.ExporterDocument(docName); isExporterDoc && exporterDoc.Reviewer == a.Type {
				continue
			}
			return nil, fmt.Errorf("agency %s: not permitted to act on %q in category %s", a.Name, docName, category.Name)
		}
		byKey[a.CredentialKey] = a
	}
	return &Registry{byKey: byKey}, nil
}

// LoadFile builds a registry from a JSON roster file. Agencies are
// provisioned at deploy time; the workflow API never creates them.
func LoadFile(cat *catalog.Catalog, path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agency roster: %w", err)
	}
	var roster []agencyConfig
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse agency roster: %w", err)
	}
	agencies := make([]domain.Agency, 0, len(roster))
	for _, entry := range roster {
		agencies = append(agencies, domain.Agency{
			CredentialKey:    entry.CredentialKey,
			Name:             entry.Name,
			Type:             entry.Type,
			CategoryPrefix:   entry.CategoryPrefix,
			AllowedDocuments: entry.AllowedDocuments,
		})
	}
	return New(cat, agencies)
}

// agencyConfig mirrors domain.Agency but keeps the credential readable from
// the roster file, where domain.Agency deliberately drops it from JSON.
type agencyConfig struct {
	CredentialKey    string            `json:"credential_key"`
	Name             string            `json:"name"`
	Type             domain.AgencyType `json:"type"`
	CategoryPrefix   string            `json:"category_prefix"`
	AllowedDocuments []string          `json:"allowed_documents"`
}

// Default returns the built-in roster covering every catalog category.
func Default(cat *catalog.Catalog) *Registry {
	r, err := New(cat, defaultAgencies())
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a credential key to its agency.
func (r *Registry) Lookup(credentialKey string) (*domain.Agency, bool) {
	a, ok := r.byKey[credentialKey]
	return a, ok
}

// List returns public agency records ordered by name. Credential keys are
// excluded by the Agency JSON encoding.
func (r *Registry) List() []domain.Agency {
	out := make([]domain.Agency, 0, len(r.byKey))
	for _, a := range r.byKey {
		public := *a
		public.CredentialKey = ""
		out = append(out, public)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Authorize authenticates the credential and checks it may act on the named
// document. The returned error distinguishes an unknown key from a known
// agency acting outside its permitted set.
func (r *Registry) Authorize(credentialKey, documentName string) (*domain.Agency, error) {
	a, ok := r.byKey[credentialKey]
	if !ok {
		return nil, domain.NewInvalidCredentialError()
	}
	if !a.MayActOn(documentName) {
		return nil, domain.NewNotAuthorizedError(documentName)
	}
	return a, nil
}

func defaultAgencies() []domain.Agency {
	return []domain.Agency{
		{
			CredentialKey:    "vet-authority-key-7f3a",
			Name:             "National Veterinary Services",
			Type:             domain.AgencyVeterinary,
			CategoryPrefix:   "01",
			AllowedDocuments: []string{"Veterinary_Health_Certificate", "Animal_Health_Records"},
		},
		{
			CredentialKey:    "quarantine-key-9d41",
			Name:             "Animal Quarantine Station",
			Type:             domain.AgencyQuarantine,
			CategoryPrefix:   "01",
			AllowedDocuments: []string{"Quarantine_Clearance"},
		},
		{
			CredentialKey:    "plant-quarantine-key-b812",
			Name:             "Plant Quarantine Service",
			Type:             domain.AgencyPlantQuarantine,
			CategoryPrefix:   "08",
			AllowedDocuments: []string{"Phytosanitary_Certificate", "Fumigation_Certificate", "Orchard_Registration", "Pest_Control_Records"},
		},
		{
			CredentialKey:    "drug-regulatory-key-4c29",
			Name:             "Medicines Regulatory Authority",
			Type:             domain.AgencyDrugRegulatory,
			CategoryPrefix:   "30",
			AllowedDocuments: []string{"GMP_Certificate", "Drug_Export_Permit", "Manufacturing_License", "Product_Dossier"},
		},
		{
			CredentialKey:    "dangerous-goods-key-e657",
			Name:             "Dangerous Goods Inspectorate",
			Type:             domain.AgencyDangerousGoods,
			CategoryPrefix:   "36",
			AllowedDocuments: []string{"Dangerous_Goods_Declaration", "UN_Classification_Sheet", "Packaging_Certification", "Safety_Data_Sheet", "Explosives_Handling_License"},
		},
		{
			CredentialKey:    "transport-safety-key-1a90",
			Name:             "Transport Safety Board",
			Type:             domain.AgencyTransport,
			CategoryPrefix:   "36",
			AllowedDocuments: []string{"Transport_Safety_Permit"},
		},
		{
			CredentialKey:    "customs-livestock-key-55f2",
			Name:             "Port Customs Office (Livestock)",
			Type:             domain.AgencyCustoms,
			CategoryPrefix:   "01",
			AllowedDocuments: []string{"Customs_Clearance_Certificate", "Export_License"},
		},
		{
			CredentialKey:    "customs-produce-key-31d8",
			Name:             "Port Customs Office (Produce)",
			Type:             domain.AgencyCustoms,
			CategoryPrefix:   "08",
			AllowedDocuments: []string{"Customs_Clearance_Certificate"},
		},
		{
			CredentialKey:    "customs-pharma-key-8e04",
			Name:             "Port Customs Office (Pharmaceuticals)",
			Type:             domain.AgencyCustoms,
			CategoryPrefix:   "30",
			AllowedDocuments: []string{"Customs_Clearance_Certificate"},
		},
		{
			CredentialKey:    "customs-hazmat-key-cc76",
			Name:             "Port Customs Office (Hazardous Cargo)",
			Type:             domain.AgencyCustoms,
			CategoryPrefix:   "36",
			AllowedDocuments: []string{"Customs_Clearance_Certificate"},
		},
	}
}
