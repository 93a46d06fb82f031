package checkout

import (
	"sort"
	"strings"
	"unicode/utf8"

	"styleshop/internal/models"
)

const (
	minPhoneLength   = 10
	postalCodeLength = 6
)

// FieldErrors maps an address field to the reason it was rejected.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fe[f])
	}
	return strings.Join(parts, "; ")
}

// ValidateAddress checks a shipping address before payment may be chosen.
func ValidateAddress(a models.ShippingAddress) error {
	errs := FieldErrors{}
	required := []struct {
		field, value, label string
	}{
		{"firstName", a.FirstName, "First name"},
		{"lastName", a.LastName, "Last name"},
		{"phone", a.Phone, "Phone"},
		{"streetAddress", a.StreetAddress, "Street address"},
		{"city", a.City, "City"},
		{"state", a.State, "State"},
		{"postalCode", a.PostalCode, "Postal code"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = r.label + " is required"
		}
	}
	if _, missing := errs["phone"]; !missing && utf8.RuneCountInString(strings.TrimSpace(a.Phone)) < minPhoneLength {
		errs["phone"] = "Phone must have at least 10 digits"
	}
	if _, missing := errs["postalCode"]; !missing && utf8.RuneCountInString(strings.TrimSpace(a.PostalCode)) != postalCodeLength {
		errs["postalCode"] = "Postal code must be 6 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PaymentOption is the payment choice made on the payment step.
type PaymentOption string

const (
	PaymentCard PaymentOption = "card"
	PaymentUPI  PaymentOption = "upi"
	PaymentCOD  PaymentOption = "cod"
)

// Label is the payment method recorded on the order.
func (p PaymentOption) Label() (string, bool) {
	switch p {
	case PaymentCard, "":
		return "Credit Card (Mock)", true
	case PaymentUPI:
		return "UPI (Mock)", true
	case PaymentCOD:
		return "Cash on Delivery", true
	}
	return "", false
}
