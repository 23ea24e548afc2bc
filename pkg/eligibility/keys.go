package eligibility

// Answer keys read by the evaluator.
const (
	KeyQualification  = "hochschulzugang"
	KeyProgram        = "studiengang"
	KeyGrade          = "abschlussnote"
	KeyExperience     = "berufserfahrung_jahre"
	KeyEnglish        = "englischkenntnisse"
	KeyPriorProgram   = "bachelor_studiengang"
	KeyStudyMode      = "studienart"
	KeySpecialization = "vertiefung"
)
