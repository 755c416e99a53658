package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"port-customs-clearance/internal/domain"
)

func TestClassify(t *testing.T) {
	c := Default()

	cases := []struct {
		name     string
		hsCode   string
		wantName string
		wantOK   bool
	}{
		{name: "live animals", hsCode: "0123456", wantName: "LIVE_ANIMALS", wantOK: true},
		{name: "fresh fruits", hsCode: "080810", wantName: "FRESH_FRUITS", wantOK: true},
		{name: "pharmaceuticals", hsCode: "300490", wantName: "PHARMACEUTICALS", wantOK: true},
		{name: "explosives", hsCode: "360100", wantName: "EXPLOSIVES_AND_PYROTECHNICS", wantOK: true},
		{name: "unknown chapter", hsCode: "9999", wantOK: false},
		{name: "too short", hsCode: "3", wantOK: false},
		{name: "empty", hsCode: "", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat, ok := c.Classify(tc.hsCode)
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				require.Equal(t, tc.wantName, cat.Name)
				require.Equal(t, tc.hsCode[:2], cat.ChapterPrefix)
			}
		})
	}
}

func TestRequiredDocumentsExplosives(t *testing.T) {
	c := Default()
	cat, ok := c.Classify("360100")
	require.True(t, ok)

	required := RequiredDocuments(cat)
	require.ElementsMatch(t, []string{
		"Safety_Data_Sheet",
		"Explosives_Handling_License",
		"Dangerous_Goods_Declaration",
		"UN_Classification_Sheet",
		"Transport_Safety_Permit",
		"Customs_Clearance_Certificate",
	}, required)
	require.NotContains(t, required, "Packaging_Certification")
}

func TestPrerequisitesOf(t *testing.T) {
	c := Default()
	cat, ok := c.Classify("360100")
	require.True(t, ok)

	require.ElementsMatch(t, []string{"Safety_Data_Sheet", "Explosives_Handling_License"},
		PrerequisitesOf(cat, "Dangerous_Goods_Declaration"))
	require.Equal(t, []string{"Packaging_Certification"}, PrerequisitesOf(cat, "Transport_Safety_Permit"))

	// Exporter documents are graph roots.
	require.Empty(t, PrerequisitesOf(cat, "Safety_Data_Sheet"))
	require.Empty(t, PrerequisitesOf(cat, "no-such-document"))
}

func TestAgencyDocumentsInDependencyOrder(t *testing.T) {
	c := Default()
	cat, ok := c.Classify("360100")
	require.True(t, ok)

	ordered := AgencyDocumentsInDependencyOrder(cat)
	require.Len(t, ordered, len(cat.AgencyDocuments))

	position := make(map[string]int, len(ordered))
	for i, d := range ordered {
		position[d.Name] = i
	}
	for _, d := range ordered {
		for _, p := range d.Prerequisites {
			if _, isAgency := cat.AgencyDocument(p); isAgency {
				require.Less(t, position[p], position[d.Name], "%s must come after its prerequisite %s", d.Name, p)
			}
		}
	}
}

func TestNewRejectsDanglingPrerequisite(t *testing.T) {
	_, err := New([]domain.CommodityCategory{{
		ChapterPrefix: "42",
		Name:          "LEATHER_GOODS",
		AgencyDocuments: []domain.AgencyDocument{
			{Name: "Tannery_Certificate", IssuingAgencyType: domain.AgencyCustoms, Prerequisites: []string{"No_Such_Document"}},
		},
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "undeclared document")
}

func TestNewRejectsPrerequisiteCycle(t *testing.T) {
	_, err := New([]domain.CommodityCategory{{
		ChapterPrefix: "42",
		Name:          "LEATHER_GOODS",
		AgencyDocuments: []domain.AgencyDocument{
			{Name: "Doc_A", IssuingAgencyType: domain.AgencyCustoms, Prerequisites: []string{"Doc_B"}},
			{Name: "Doc_B", IssuingAgencyType: domain.AgencyCustoms, Prerequisites: []string{"Doc_A"}},
		},
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

func TestNewRejectsDuplicatePrefix(t *testing.T) {
	cats := defaultCategories()
	cats = append(cats, domain.CommodityCategory{ChapterPrefix: "01", Name: "DUPLICATE"})
	_, err := New(cats)
	require.Error(t, err)
}

func TestDefaultCatalogEveryCategoryEndsAtCustoms(t *testing.T) {
	for _, cat := range Default().Categories() {
		_, ok := cat.AgencyDocument("Customs_Clearance_Certificate")
		require.True(t, ok, "category %s must declare a customs clearance certificate", cat.Name)
	}
}
