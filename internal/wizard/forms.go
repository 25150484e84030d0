package wizard

import (
	"strings"

	"github.com/wolfman30/luxe-salon/internal/formatting"
	"github.com/wolfman30/luxe-salon/internal/validation"
)

// DefaultPaymentMethod is the only method the payment step offers.
const DefaultPaymentMethod = "card"

// ClientInfo is the contact form of the information step.
type ClientInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// Normalize trims surrounding whitespace from every field.
func (c ClientInfo) Normalize() ClientInfo {
	return ClientInfo{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
		Notes:     strings.TrimSpace(c.Notes),
	}
}

// Validate runs every field rule. Notes are optional.
func (c ClientInfo) Validate() error {
	return validation.Collect(
		validation.Name("firstName", "First name", c.FirstName),
		validation.Name("lastName", "Last name", c.LastName),
		validation.Email("email", c.Email),
		validation.Phone("phone", c.Phone, true),
	)
}

// FullName joins first and last name.
func (c ClientInfo) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Payment holds card details. CardNumber is stored as digits only.
type Payment struct {
	Method     string `json:"method"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"nameOnCard"`
}

// Normalize strips card formatting, reformats the expiry as MM/YY and fills the
// default method.
func (p Payment) Normalize() Payment {
	method := strings.TrimSpace(p.Method)
	if method == "" {
		method = DefaultPaymentMethod
	}
	card := p.CardNumber
	if onlyCardRunes(card) {
		card = formatting.Digits(card)
	}
	expiry := strings.TrimSpace(p.ExpiryDate)
	if onlyDigits(expiry) {
		expiry = formatting.FormatExpiry(expiry)
	}
	return Payment{
		Method:     method,
		CardNumber: card,
		ExpiryDate: expiry,
		CVV:        strings.TrimSpace(p.CVV),
		NameOnCard: strings.TrimSpace(p.NameOnCard),
	}
}

// Validate runs every card rule.
func (p Payment) Validate() error {
	return validation.Collect(
		validation.Name("nameOnCard", "Name on card", p.NameOnCard),
		validation.CardNumber("cardNumber", p.CardNumber),
		validation.Expiry("expiryDate", p.ExpiryDate),
		validation.CVV("cvv", p.CVV),
	)
}

// Masked returns a copy safe to show back to the client.
func (p Payment) Masked() Payment {
	masked := p
	masked.CardNumber = formatting.MaskCardNumber(p.CardNumber)
	if masked.CVV != "" {
		masked.CVV = strings.Repeat("•", len(p.CVV))
	}
	return masked
}

func onlyCardRunes(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && r != ' ' && r != '-' {
			return false
		}
	}
	return true
}

func onlyDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
