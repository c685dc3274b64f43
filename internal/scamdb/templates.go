// Package scamdb carries the canned scam opener catalog used to seed
// honeypot conversations from the dashboard.
package scamdb

import (
	"math/rand"

	"scamtrap/internal/models"
)

// Template groups the canned opener messages of one scam category.
type Template struct {
	Type     models.ScamType `json:"type"`
	Label    string          `json:"label"`
	Messages []string        `json:"messages"`
}

// Pick is one randomly chosen opener.
type Pick struct {
	Type    models.ScamType `json:"type"`
	Message string          `json:"message"`
}

var bankingScams = []string{
	"Dear Customer, Your SBI account has been blocked due to incomplete KYC. Update immediately at http://sbi-kyc-update.xyz or your account will be permanently deactivated. Call 9876543210 for assistance.",
	"ALERT: Suspicious activity detected on your HDFC account. Verify your identity now to prevent account freeze. Share your account number and OTP sent to your registered mobile.",
	"Your ICICI credit card payment of Rs 45,999 is pending. Pay immediately to avoid legal action. Transfer to A/C: 1234567890123456, IFSC: ICIC0001234",
	"Urgent: Your bank account will be closed in 24 hours. Update your PAN and Aadhaar details at our secure portal. Contact: support@bank-verify.com",
	"RBI Notice: Your account is flagged for money laundering investigation. Deposit Rs 50,000 as security to unfreeze. UPI: rbi.security@ybl",
}

var prizeScams = []string{
	"CONGRATULATIONS! You've won Rs 25,00,000 in the Google Lucky Draw! Pay processing fee of Rs 5,000 to claim. Transfer to UPI: googlelucky@paytm",
	"You are selected as the WINNER of iPhone 15 Pro! Courier charges: Rs 2,999 only. Pay now: http://apple-winner.in Contact: 8765432109",
	"Dear Winner, Your mobile number won $1,000,000 in UK Lottery! Send processing documents and fee of Rs 15,000. Email: uk.lottery.claims@gmail.com",
	"Amazon Lucky Customer! You won a FREE Samsung TV worth Rs 89,000! Pay GST of Rs 4,500 to receive. Account: 9876543210987654, IFSC: SBIN0012345",
	"JIOMART MEGA PRIZE: You won a Tata Safari! Processing fee Rs 25,000. WhatsApp: +91-9999888877 with your Aadhaar and PAN for verification.",
}

var governmentScams = []string{
	"INCOME TAX DEPARTMENT: Your refund of Rs 15,450 is pending. Verify bank details immediately at http://it-refund-gov.in to receive within 24 hours.",
	"POLICE CYBER CELL: Your Aadhaar is linked to illegal activities. Appear virtually within 2 hours or face arrest. Pay fine of Rs 50,000. UPI: cybercell.fine@oksbi",
	"EPFO Notice: Your PF account blocked due to mismatch. Update details at http://epfo-update.org. Contact: 7654321098",
	"ELECTRICITY DEPT: Your connection will be cut in 2 hours for unpaid bill of Rs 8,456. Pay now to avoid disconnection. UPI: electricity.dept@ybl",
	"PASSPORT AUTHORITY: Your passport application rejected. Reapply with fee of Rs 12,000 at http://passport-seva.xyz. Urgent response required.",
}

var employmentScams = []string{
	"CONGRATULATIONS! Selected for Amazon Work From Home job. Salary: Rs 45,000/month. Pay registration fee Rs 3,500 to start. UPI: amazon.hr@paytm",
	"URGENT HIRING: Google India needs data entry operators. Training provided. Investment: Rs 8,000 only. Returns Rs 5,000 weekly. Contact: 9988776655",
	"You're hired! TCS remote position confirmed. Complete onboarding by paying Rs 15,000 for laptop and ID card. Transfer to: A/C 5678901234567890, IFSC: HDFC0005678",
	"Part-time job offer: Earn Rs 2,000 daily from home! Just like and share posts. Registration: Rs 500. WhatsApp resume to +91-8877665544",
	"INFOSYS is hiring freshers! Salary Rs 6 LPA. Training fee Rs 25,000 refundable after joining. Apply: http://infosys-careers.xyz",
}

var catalog = []Template{
	{Type: models.ScamTypeBanking, Label: "Banking/Financial", Messages: bankingScams},
	{Type: models.ScamTypePrize, Label: "Prize/Reward", Messages: prizeScams},
	{Type: models.ScamTypeGovernment, Label: "Government/Legal", Messages: governmentScams},
	{Type: models.ScamTypeEmployment, Label: "Employment/Job", Messages: employmentScams},
}

// Catalog returns every template category with its openers.
func Catalog() []Template {
	return catalog
}

// Label returns the display label for a scam type, or the raw type
// string when unknown.
func Label(t models.ScamType) string {
	for _, tpl := range catalog {
		if tpl.Type == t {
			return tpl.Label
		}
	}
	return string(t)
}

// Random picks one opener, restricted to the given type when non-empty.
func Random(t models.ScamType) (*Pick, bool) {
	pool := catalog
	if t != "" {
		pool = nil
		for _, tpl := range catalog {
			if tpl.Type == t {
				pool = append(pool, tpl)
			}
		}
		if len(pool) == 0 {
			return nil, false
		}
	}
	tpl := pool[rand.Intn(len(pool))]
	return &Pick{Type: tpl.Type, Message: tpl.Messages[rand.Intn(len(tpl.Messages))]}, true
}
