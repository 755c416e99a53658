// Package catalog resolves HS codes to commodity categories and exposes each
// category's document requirement graph.
package catalog

import (
	"fmt"
	"sort"

	"port-customs-clearance/internal/domain"
)

const chapterPrefixLen = 2

// Catalog is the immutable chapter-prefix -> category table. Built once at
// startup and shared by reference; it is never mutated afterwards.
type Catalog struct {
	byPrefix map[string]*domain.CommodityCategory
}

// New validates the category definitions and builds a catalog. Every
// prerequisite name must resolve to a document declared in the same category,
// and the prerequisite graph among agency documents must be acyclic.
func New(categories []domain.CommodityCategory) (*Catalog, error) {
	byPrefix := make(map[string]*domain.CommodityCategory, len(categories))
	for i := range categories {
		cat := &categories[i]
		if len(cat.ChapterPrefix) != chapterPrefixLen {
			return nil, fmt.Errorf("category %s: chapter prefix %q must be %d characters", cat.Name, cat.ChapterPrefix, chapterPrefixLen)
		}
		if _, dup := byPrefix[cat.ChapterPrefix]; dup {
			return nil, fmt.Errorf("duplicate chapter prefix %q", cat.ChapterPrefix)
		}
		if err := validateCategory(cat); err != nil {
			return nil, fmt.Errorf("category %s: %w", cat.Name, err)
		}
		byPrefix[cat.ChapterPrefix] = cat
	}
	return &Catalog{byPrefix: byPrefix}, nil
}

// Default returns the built-in catalog. The definitions are static, so a
// validation failure here is a programming error.
func Default() *Catalog {
	c, err := New(defaultCategories())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify resolves an HS code to its commodity category by chapter prefix.
// Unknown or too-short codes report no supported workflow, not an error.
func (c *Catalog) Classify(hsCode string) (*domain.CommodityCategory, bool) {
	if len(hsCode) < chapterPrefixLen {
		return nil, false
	}
	cat, ok := c.byPrefix[hsCode[:chapterPrefixLen]]
	return cat, ok
}

// Categories returns all categories ordered by chapter prefix.
func (c *Catalog) Categories() []domain.CommodityCategory {
	out := make([]domain.CommodityCategory, 0, len(c.byPrefix))
	for _, cat := range c.byPrefix {
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterPrefix < out[j].ChapterPrefix })
	return out
}

// RequiredDocuments returns the names of every document that must be
// APPROVED before the cargo item is customs cleared.
func RequiredDocuments(cat *domain.CommodityCategory) []string {
	var names []string
	for _, d := range cat.ExporterDocuments {
		if d.Required {
			names = append(names, d.Name)
		}
	}
	for _, d := range cat.AgencyDocuments {
		if d.Required {
			names = append(names, d.Name)
		}
	}
	return names
}

// PrerequisitesOf returns the prerequisite names for an agency document.
// Exporter documents are graph roots and have none.
func PrerequisitesOf(cat *domain.CommodityCategory, documentName string) []string {
	if d, ok := cat.AgencyDocument(documentName); ok {
		return d.Prerequisites
	}
	return nil
}

// AgencyDocumentsInDependencyOrder returns the category's agency documents
// topologically sorted so that every document follows its prerequisites. The
// cascade that unlocks newly-eligible documents walks this order, which makes
// multi-level chains resolve in one pass.
func AgencyDocumentsInDependencyOrder(cat *domain.CommodityCategory) []domain.AgencyDocument {
	ordered := make([]domain.AgencyDocument, 0, len(cat.AgencyDocuments))
	placed := make(map[string]bool, len(cat.AgencyDocuments))
	remaining := append([]domain.AgencyDocument(nil), cat.AgencyDocuments...)

	for len(remaining) > 0 {
		progressed := false
		next := remaining[:0]
		for _, d := range remaining {
			if agencyPrereqsPlaced(cat, d, placed) {
				ordered = append(ordered, d)
				placed[d.Name] = true
				progressed = true
				continue
			}
			next = append(next, d)
		}
		remaining = next
		if !progressed {
			// Unreachable for a validated catalog: New rejects cycles.
			break
		}
	}
	return ordered
}

func agencyPrereqsPlaced(cat *domain.CommodityCategory, d domain.AgencyDocument, placed map[string]bool) bool {
	for _, p := range d.Prerequisites {
		if _, isAgency := cat.AgencyDocument(p); isAgency && !placed[p] {
			return false
		}
	}
	return true
}

func validateCategory(cat *domain.CommodityCategory) error {
	declared := make(map[string]bool)
	for _, name := range cat.DocumentNames() {
		if declared[name] {
			return fmt.Errorf("document %q declared twice", name)
		}
		declared[name] = true
	}
	for _, d := range cat.AgencyDocuments {
		for _, p := range d.Prerequisites {
			if !declared[p] {
				return fmt.Errorf("document %q requires undeclared document %q", d.Name, p)
			}
		}
	}
	if len(AgencyDocumentsInDependencyOrder(cat)) != len(cat.AgencyDocuments) {
		return fmt.Errorf("prerequisite cycle among agency documents")
	}
	return nil
}
