package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"port-customs-clearance/internal/catalog"
	"port-customs-clearance/internal/domain"
)

func TestAuthorize(t *testing.T) {
	reg := Default(catalog.Default())

	t.Run("allowed document", func(t *testing.T) {
		agency, err := reg.Authorize("dangerous-goods-key-e657", "Dangerous_Goods_Declaration")
		require.NoError(t, err)
		require.Equal(t, "Dangerous Goods Inspectorate", agency.Name)
	})

	t.Run("unknown credential", func(t *testing.T) {
		_, err := reg.Authorize("no-such-key", "Dangerous_Goods_Declaration")
		var authErr *domain.AuthorizationError
		require.ErrorAs(t, err, &authErr)
		require.True(t, authErr.InvalidCredential)
		require.Equal(t, "invalid credential", authErr.Reason)
	})

	t.Run("document outside allowed set", func(t *testing.T) {
		_, err := reg.Authorize("transport-safety-key-1a90", "UN_Classification_Sheet")
		var authErr *domain.AuthorizationError
		require.ErrorAs(t, err, &authErr)
		require.False(t, authErr.InvalidCredential)
		require.Contains(t, authErr.Reason, "not authorized for UN_Classification_Sheet")
	})
}

func TestAuthorizeMatchesAllowedDocuments(t *testing.T) {
	// Authorize succeeds exactly when the document is in the agency's
	// allowed set.
	cat := catalog.Default()
	reg := Default(cat)

	for _, agency := range reg.List() {
		category, ok := cat.Classify(agency.CategoryPrefix)
		require.True(t, ok)
		key := credentialFor(t, agency.Name)

		for _, doc := range category.AgencyDocuments {
			_, err := reg.Authorize(key, doc.Name)
			if agency.MayActOn(doc.Name) {
				require.NoError(t, err, "agency %s should act on %s", agency.Name, doc.Name)
			} else {
				require.Error(t, err, "agency %s should not act on %s", agency.Name, doc.Name)
			}
		}
	}
}

func TestNewAllowsReviewerExporterDocuments(t *testing.T) {
	// The dangerous-goods inspectorate reviews the exporter's safety data
	// sheet; a transport authority does not.
	cat := catalog.Default()

	_, err := New(cat, []domain.Agency{{
		CredentialKey:    "key-1",
		Name:             "Inspectorate",
		Type:             domain.AgencyDangerousGoods,
		CategoryPrefix:   "36",
		AllowedDocuments: []string{"Safety_Data_Sheet"},
	}})
	require.NoError(t, err)

	_, err = New(cat, []domain.Agency{{
		CredentialKey:    "key-2",
		Name:             "Transport Board",
		Type:             domain.AgencyTransport,
		CategoryPrefix:   "36",
		AllowedDocuments: []string{"Safety_Data_Sheet"},
	}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not permitted to act on")
}

func TestNewRejectsDuplicateCredential(t *testing.T) {
	cat := catalog.Default()
	_, err := New(cat, []domain.Agency{
		{CredentialKey: "key-1", Name: "A", Type: domain.AgencyCustoms, CategoryPrefix: "36", AllowedDocuments: []string{"Customs_Clearance_Certificate"}},
		{CredentialKey: "key-1", Name: "B", Type: domain.AgencyCustoms, CategoryPrefix: "36", AllowedDocuments: []string{"Customs_Clearance_Certificate"}},
	})
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	roster := `[
		{
			"credential_key": "file-key-1",
			"name": "File Roster Agency",
			"type": "DANGEROUS_GOODS_AUTHORITY",
			"category_prefix": "36",
			"allowed_documents": ["Dangerous_Goods_Declaration"]
		}
	]`
	path := filepath.Join(t.TempDir(), "agencies.json")
	require.NoError(t, os.WriteFile(path, []byte(roster), 0o600))

	reg, err := LoadFile(catalog.Default(), path)
	require.NoError(t, err)

	agency, err := reg.Authorize("file-key-1", "Dangerous_Goods_Declaration")
	require.NoError(t, err)
	require.Equal(t, "File Roster Agency", agency.Name)
}

func TestListExcludesCredentials(t *testing.T) {
	reg := Default(catalog.Default())
	for _, a := range reg.List() {
		require.Empty(t, a.CredentialKey, "List must not leak credential keys")
	}
}

func credentialFor(t *testing.T, name string) string {
	t.Helper()
	for _, a := range defaultAgencies() {
		if a.Name == name {
			return a.CredentialKey
		}
	}
	t.Fatalf("no default agency named %q", name)
	return ""
}
