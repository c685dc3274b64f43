package models

// Intelligence holds the six extractable data points. Each field is
// either a captured value or nil; nil never erases previously stored
// data when a result is applied to a conversation.
type Intelligence struct {
	BankAccount   *string `json:"bank_account"`
	IFSC          *string `json:"ifsc"`
	UPIID         *string `json:"upi_id"`
	PhishingLink  *string `json:"phishing_link"`
	PhoneNumber   *string `json:"phone_number"`
	WalletAddress *string `json:"wallet_address"`
}

// HoneypotResult is the relay's structured judgment for one turn.
type HoneypotResult struct {
	ScamDetected          bool               `json:"scam_detected"`
	ScamConfidence        float64            `json:"scam_confidence"`
	PersonaResponse       string             `json:"persona_response"`
	ExtractedIntelligence Intelligence       `json:"extracted_intelligence"`
	ConversationStatus    ConversationStatus `json:"conversation_status"`
}
