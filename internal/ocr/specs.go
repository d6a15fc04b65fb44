package ocr

// Canned populate specs for the sections the wizard extracts into.

func PersonalDetailsSpec() PopulateSpec {
	return PopulateSpec{Section: "personal_details"}
}

func LanguageCulturalSpec() PopulateSpec {
	return PopulateSpec{
		Section: "language_cultural",
		FieldMapping: map[string]string{
			"test_type":     "english_test_type",
			"overall_score": "english_test_score",
		},
		// Present in test reports but not part of the form.
		SkipFields: []string{"component_scores", "candidate_name"},
	}
}

func SchoolingSpec() PopulateSpec {
	return PopulateSpec{
		Section: "schooling_history",
		FieldMapping: map[string]string{
			"institution_name": "institution",
			"degree":           "qualification_level",
			"major":            "field_of_study",
			"gpa":              "result",
			"grade":            "result",
		},
	}
}

func QualificationsSpec() PopulateSpec {
	return PopulateSpec{Section: "qualifications"}
}

func EmploymentSpec() PopulateSpec {
	return PopulateSpec{Section: "employment_history"}
}
