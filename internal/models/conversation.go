package models

import "time"

// Conversation tracks one honeypot session against a simulated scammer.
type Conversation struct {
	ID             string             `json:"id"`
	ScamType       ScamType           `json:"scam_type"`
	ScamConfidence float64            `json:"scam_confidence"`
	Status         ConversationStatus `json:"status"`

	ExtractedBankAccount   *string `json:"extracted_bank_account"`
	ExtractedIFSC          *string `json:"extracted_ifsc"`
	ExtractedUPIID         *string `json:"extracted_upi_id"`
	ExtractedPhishingLink  *string `json:"extracted_phishing_link"`
	ExtractedPhoneNumber   *string `json:"extracted_phone_number"`
	ExtractedWalletAddress *string `json:"extracted_wallet_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ScamType string

const (
	ScamTypeBanking    ScamType = "banking"
	ScamTypePrize      ScamType = "prize"
	ScamTypeGovernment ScamType = "government"
	ScamTypeEmployment ScamType = "employment"
)

// ValidScamType reports whether t is one of the four known categories.
func ValidScamType(t ScamType) bool {
	switch t {
	case ScamTypeBanking, ScamTypePrize, ScamTypeGovernment, ScamTypeEmployment:
		return true
	}
	return false
}

type ConversationStatus string

const (
	StatusEngaging   ConversationStatus = "engaging"
	StatusCompleted  ConversationStatus = "completed"
	StatusTerminated ConversationStatus = "terminated"
)

// ValidStatus reports whether s is one of the three contract statuses.
func ValidStatus(s ConversationStatus) bool {
	switch s {
	case StatusEngaging, StatusCompleted, StatusTerminated:
		return true
	}
	return false
}

// HasIntelligence reports whether at least one field has been captured.
func (c *Conversation) HasIntelligence() bool {
	for _, f := range []*string{
		c.ExtractedBankAccount,
		c.ExtractedIFSC,
		c.ExtractedUPIID,
		c.ExtractedPhishingLink,
		c.ExtractedPhoneNumber,
		c.ExtractedWalletAddress,
	} {
		if f != nil && *f != "" {
			return true
		}
	}
	return false
}
