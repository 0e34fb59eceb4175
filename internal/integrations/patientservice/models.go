package patientservice

// Patient модель пациента из PatientService
type Patient struct {
	Ref      string `json:"ref"` // Stable reference (e.g. WhatsApp number or patient UUID)
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Language string `json:"language,omitempty"`
}

// ErrorResponse модель ошибки от PatientService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
