package form

// Blank records per wizard step. Field names match the intake API schema.

func NewPersonalDetails() *Record {
	return NewRecord(
		"given_name",
		"middle_name",
		"family_name",
		"gender",
		"date_of_birth",
		"phone",
		"email",
		"country",
		"country_of_birth",
		"nationality",
		"passport_number",
		"passport_expiry",
		"street_address",
		"suburb",
		"state",
		"postcode",
	)
}

func NewLanguageCulture() *Record {
	return NewRecord(
		"first_language",
		"english_proficiency",
		"english_test_type",
		"english_test_score",
		"english_test_date",
		"cultural_background",
		"requires_interpreter",
	)
}

func NewSchoolingEntry() *Record {
	return NewRecord(
		"institution",
		"country",
		"qualification_level",
		"field_of_study",
		"start_year",
		"end_year",
		"currently_attending",
		"result",
	)
}

func NewQualification() *Record {
	return NewRecord(
		"qualification_name",
		"institution",
		"completion_date",
		"certificate_number",
		"field_of_study",
		"grade",
	)
}

func NewEmploymentEntry() *Record {
	return NewRecord(
		"employer",
		"role",
		"start_date",
		"end_date",
		"is_current",
		"responsibilities",
		"industry",
	)
}

func NewAdditionalService() *Record {
	return NewRecord(
		"service_id",
		"name",
		"description",
		"fee",
		"selected",
	)
}
