//go:build system

package system_test

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"port-customs-clearance/internal/domain"
)

var _ = Describe("System blackbox happy path", Ordered, func() {
	var repoRoot string
	var cfg systemTestConfig

	BeforeAll(func() {
		if os.Getenv("RUN_BLACKBOX_SYSTEM_TEST") != "1" {
			Skip("set RUN_BLACKBOX_SYSTEM_TEST=1 to run real blackbox system test")
		}

		cfg = loadSystemTestConfig()

		var err error
		repoRoot, err = findRepoRoot()
		Expect(err).ToNot(HaveOccurred())

		By("verifying required docker compose services are already running")
		Expect(requireComposeServicesRunning(repoRoot, cfg.RequiredComposeServices)).To(Succeed())

		By("failing fast if infrastructure is unreachable")
		Expect(waitForPostgres(cfg.PostgresDSN, cfg.PreflightTimeout)).To(Succeed())
		Expect(waitForHTTPStatus(cfg.MinioReadyURL, 200, cfg.PreflightTimeout)).To(Succeed())
		Expect(waitForHTTPStatus(strings.TrimRight(cfg.APIBaseURL, "/")+cfg.APIHealthPath, 200, cfg.PreflightTimeout)).To(Succeed())
		Expect(waitForHTTPStatus(strings.TrimRight(cfg.APIBaseURL, "/")+cfg.APIReadyPath, 200, cfg.PreflightTimeout)).To(Succeed())
		Expect(applyMigration(repoRoot, cfg.PostgresDSN)).To(Succeed())
	})

	It("walks an explosives cargo item from registration to customs clearance over HTTP", func() {
		apiBaseURL := strings.TrimRight(cfg.APIBaseURL, "/")
		bookingID := "booking-" + uuid.NewString()[:8]
		cargoID := "cargo-" + uuid.NewString()[:8]

		const (
			dangerousGoodsKey = "dangerous-goods-key-e657"
			transportKey      = "transport-safety-key-1a90"
			customsKey        = "customs-hazmat-key-cc76"
		)

		By("registering an explosives cargo item against a booking")
		state, err := registerCargo(apiBaseURL, bookingID, cargoID, "360100")
		Expect(err).ToNot(HaveOccurred())
		Expect(state.CategoryName).To(Equal("EXPLOSIVES_AND_PYROTECHNICS"))
		Expect(state.Phase).To(Equal(domain.PhaseInitialSubmission))
		Expect(state.IsCustomsCleared).To(BeFalse())

		By("uploading the exporter documents exactly like an exporter")
		fixturePath := filepath.Join(repoRoot, "tests", "system", cfg.UploadFixturePath)
		state, err = uploadCargoDocument(apiBaseURL, bookingID, cargoID, "Safety_Data_Sheet", fixturePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(state.StatusOf("Safety_Data_Sheet")).To(Equal(domain.StatusPending))

		state, err = uploadCargoDocument(apiBaseURL, bookingID, cargoID, "Explosives_Handling_License", fixturePath)
		Expect(err).ToNot(HaveOccurred())
		Expect(state.StatusOf("Dangerous_Goods_Declaration")).To(Equal(domain.StatusPending),
			"declaration unlocks once both exporter documents are uploaded")

		approve := func(agencyKey, documentType string) updateStatusResponse {
			GinkgoHelper()
			resp, err := updateDocumentStatus(apiBaseURL, updateStatusRequest{
				AgencyKey:    agencyKey,
				BookingID:    bookingID,
				CargoID:      cargoID,
				DocumentType: documentType,
				Status:       string(domain.StatusApproved),
				Comments:     fmt.Sprintf("system test approval of %s", documentType),
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeTrue())
			return resp
		}

		By("reviewing the exporter uploads")
		approve(dangerousGoodsKey, "Safety_Data_Sheet")
		approve(dangerousGoodsKey, "Explosives_Handling_License")

		By("approving the declaration and following the unlock cascade")
		resp := approve(dangerousGoodsKey, "Dangerous_Goods_Declaration")
		Expect(resp.Unlocked).To(ConsistOf("UN_Classification_Sheet", "Packaging_Certification"))

		approve(dangerousGoodsKey, "UN_Classification_Sheet")
		resp = approve(dangerousGoodsKey, "Packaging_Certification")
		Expect(resp.Unlocked).To(ConsistOf("Transport_Safety_Permit"))

		resp = approve(transportKey, "Transport_Safety_Permit")
		Expect(resp.Unlocked).To(ConsistOf("Customs_Clearance_Certificate"))
		Expect(resp.IsCustomsCleared).To(BeFalse())

		By("issuing the customs clearance certificate")
		resp = approve(customsKey, "Customs_Clearance_Certificate")
		Expect(resp.IsCustomsCleared).To(BeTrue())

		By("reading back the final cargo state")
		state, err = getCargoDocuments(apiBaseURL, bookingID, cargoID)
		Expect(err).ToNot(HaveOccurred())
		Expect(state.IsCustomsCleared).To(BeTrue())
		Expect(state.Phase).To(Equal(domain.PhaseCustomsClearance))
		for name, record := range state.DocumentStatus {
			Expect(record.Status).To(Equal(domain.StatusApproved), "document %s", name)
		}

		By("verifying the persisted aggregate in Postgres")
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		Expect(err).ToNot(HaveOccurred())
		defer db.Close()
		Expect(db.Ping()).To(Succeed())

		categories, err := fetchStringRows(db,
			`SELECT category FROM cargo_documents WHERE booking_id = $1 AND cargo_id = $2 AND is_customs_cleared`,
			bookingID, cargoID)
		Expect(err).ToNot(HaveOccurred())
		Expect(categories).To(ConsistOf("EXPLOSIVES_AND_PYROTECHNICS"))
	})
})
