package catalog

import "port-customs-clearance/internal/domain"

// defaultCategories is the deploy-time category table: one entry per
// supported HS chapter. Each call returns a fresh copy so the catalog owns
// its data.
func defaultCategories() []domain.CommodityCategory {
	standardPhases := []domain.PhaseDefinition{
		{Phase: domain.PhaseInitialSubmission, ResponsibleParty: "exporter"},
		{Phase: domain.PhaseAgencyReview, ResponsibleParty: "issuing agencies", DependsOn: []domain.ProcessingPhase{domain.PhaseInitialSubmission}},
		{Phase: domain.PhaseFinalApproval, ResponsibleParty: "issuing agencies", DependsOn: []domain.ProcessingPhase{domain.PhaseAgencyReview}},
		{Phase: domain.PhaseCustomsClearance, ResponsibleParty: "customs authority", DependsOn: []domain.ProcessingPhase{domain.PhaseFinalApproval}},
	}

	return []domain.CommodityCategory{
		{
			ChapterPrefix: "01",
			Name:          "LIVE_ANIMALS",
			Description:   "Live animals",
			ExporterDocuments: []domain.ExporterDocument{
				{Name: "Animal_Health_Records", Reviewer: domain.AgencyVeterinary, Required: true},
				{Name: "Export_License", Reviewer: domain.AgencyCustoms, Required: true},
			},
			AgencyDocuments: []domain.AgencyDocument{
				{
					Name:               "Veterinary_Health_Certificate",
					IssuingAgencyType:  domain.AgencyVeterinary,
					Required:           true,
					Prerequisites:      []string{"Animal_Health_Records", "Export_License"},
					ProcessingTimeDays: 5,
					Fee:                180,
				},
				{
					Name:               "Quarantine_Clearance",
					IssuingAgencyType:  domain.AgencyQuarantine,
					Required:           true,
					Prerequisites:      []string{"Veterinary_Health_Certificate"},
					ProcessingTimeDays: 7,
					Fee:                220,
				},
				{
					Name:               "Customs_Clearance_Certificate",
					IssuingAgencyType:  domain.AgencyCustoms,
					Required:           true,
					Prerequisites:      []string{"Quarantine_Clearance"},
					ProcessingTimeDays: 3,
					Fee:                95,
				},
			},
			Phases: standardPhases,
		},
		{
			ChapterPrefix: "08",
			Name:          "FRESH_FRUITS",
			Description:   "Edible fruit and nuts",
			ExporterDocuments: []domain.ExporterDocument{
				{Name: "Orchard_Registration", Reviewer: domain.AgencyPlantQuarantine, Required: true},
				{Name: "Pest_Control_Records", Reviewer: domain.AgencyPlantQuarantine, Required: true},
			},
			AgencyDocuments: []domain.AgencyDocument{
				{
					Name:               "Phytosanitary_Certificate",
					IssuingAgencyType:  domain.AgencyPlantQuarantine,
					Required:           true,
					Prerequisites:      []string{"Orchard_Registration", "Pest_Control_Records"},
					ProcessingTimeDays: 4,
					Fee:                120,
				},
				{
					Name:               "Fumigation_Certificate",
					IssuingAgencyType:  domain.AgencyPlantQuarantine,
					Required:           false,
					Prerequisites:      []string{"Phytosanitary_Certificate"},
					ProcessingTimeDays: 2,
					Fee:                60,
				},
				{
					Name:               "Customs_Clearance_Certificate",
					IssuingAgencyType:  domain.AgencyCustoms,
					Required:           true,
					Prerequisites:      []string{"Phytosanitary_Certificate"},
					ProcessingTimeDays: 3,
					Fee:                95,
				},
			},
			Phases: standardPhases,
		},
		{
			ChapterPrefix: "30",
			Name:          "PHARMACEUTICALS",
			Description:   "Pharmaceutical products",
			ExporterDocuments: []domain.ExporterDocument{
				{Name: "Manufacturing_License", Reviewer: domain.AgencyDrugRegulatory, Required: true},
				{Name: "Product_Dossier", Reviewer: domain.AgencyDrugRegulatory, Required: true},
			},
			AgencyDocuments: []domain.AgencyDocument{
				{
					Name:               "GMP_Certificate",
					IssuingAgencyType:  domain.AgencyDrugRegulatory,
					Required:           true,
					Prerequisites:      []string{"Manufacturing_License"},
					ProcessingTimeDays: 10,
					Fee:                450,
				},
				{
					Name:               "Drug_Export_Permit",
					IssuingAgencyType:  domain.AgencyDrugRegulatory,
					Required:           true,
					Prerequisites:      []string{"GMP_Certificate", "Product_Dossier"},
					ProcessingTimeDays: 6,
					Fee:                300,
				},
				{
					Name:               "Customs_Clearance_Certificate",
					IssuingAgencyType:  domain.AgencyCustoms,
					Required:           true,
					Prerequisites:      []string{"Drug_Export_Permit"},
					ProcessingTimeDays: 3,
					Fee:                95,
				},
			},
			Phases: standardPhases,
		},
		{
			ChapterPrefix: "36",
			Name:          "EXPLOSIVES_AND_PYROTECHNICS",
			Description:   "Explosives, pyrotechnic products, and combustible preparations",
			ExporterDocuments: []domain.ExporterDocument{
				{Name: "Safety_Data_Sheet", Reviewer: domain.AgencyDangerousGoods, Required: true},
				{Name: "Explosives_Handling_License", Reviewer: domain.AgencyDangerousGoods, Required: true},
			},
			AgencyDocuments: []domain.AgencyDocument{
				{
					Name:               "Dangerous_Goods_Declaration",
					IssuingAgencyType:  domain.AgencyDangerousGoods,
					Required:           true,
					Prerequisites:      []string{"Safety_Data_Sheet", "Explosives_Handling_License"},
					ProcessingTimeDays: 5,
					Fee:                350,
				},
				{
					Name:               "UN_Classification_Sheet",
					IssuingAgencyType:  domain.AgencyDangerousGoods,
					Required:           true,
					Prerequisites:      []string{"Dangerous_Goods_Declaration"},
					ProcessingTimeDays: 4,
					Fee:                200,
				},
				{
					Name:               "Packaging_Certification",
					IssuingAgencyType:  domain.AgencyDangerousGoods,
					Required:           false,
					Prerequisites:      []string{"Dangerous_Goods_Declaration"},
					ProcessingTimeDays: 3,
					Fee:                150,
				},
				{
					Name:               "Transport_Safety_Permit",
					IssuingAgencyType:  domain.AgencyTransport,
					Required:           true,
					Prerequisites:      []string{"Packaging_Certification"},
					ProcessingTimeDays: 7,
					Fee:                275,
				},
				{
					Name:               "Customs_Clearance_Certificate",
					IssuingAgencyType:  domain.AgencyCustoms,
					Required:           true,
					Prerequisites:      []string{"UN_Classification_Sheet", "Transport_Safety_Permit"},
					ProcessingTimeDays: 3,
					Fee:                95,
				},
			},
			Phases: standardPhases,
		},
	}
}
