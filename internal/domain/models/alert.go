package models

// AlertRequest describes the analysis a user wants to share with their contacts
type AlertRequest struct {
	Message   string        `json:"message" validate:"required"`
	RiskLevel RiskLevel     `json:"riskLevel" validate:"required,oneof=safe likely-scam scam"`
	URLs      []ReportedURL `json:"urls"`
}

// ContactAlert holds the ready-to-open links for one emergency contact
type ContactAlert struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	WhatsAppURL string `json:"whatsappUrl"`
	CallURL     string `json:"callUrl"`
}

// EmergencyAlert is the rendered alert for every contact
type EmergencyAlert struct {
	Report   string         `json:"report"`
	Contacts []ContactAlert `json:"contacts"`
}
