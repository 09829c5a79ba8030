package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cinetix/checkout-service/internal/model"
)

// Form field names.  They match the input names of the payment form
// so that field-level errors can be attached to the right control.
const (
	FieldName   = "name"
	FieldEmail  = "email"
	FieldPhone  = "phone"
	FieldMethod = "paymentMethod"
	FieldCard   = "cardNumber"
	FieldExpiry = "expiryDate"
	FieldCVV    = "cvv"
)

const (
	maxCardLen  = 19 // formatted length, fits 16 digits in blocks of four
	phoneDigits = 9
	cvvDigits   = 3
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
)

// CustomerForm holds the buyer and payment fields of one session.  It
// normalizes input on every edit, keeps the current validation errors
// and emits warnings through the injected Notifier.  The clock is
// injected so expiry validation is testable against a fixed date.
type CustomerForm struct {
	info   model.CustomerInfo
	errors model.ValidationErrors
	notify Notifier
	now    func() time.Time
}

// NewCustomerForm builds an empty form.  A nil notifier discards
// warnings; a nil clock falls back to time.Now.
func NewCustomerForm(notify Notifier, now func() time.Time) *CustomerForm {
	if notify == nil {
		notify = nopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &CustomerForm{
		errors: model.ValidationErrors{},
		notify: notify,
		now:    now,
	}
}

// Info returns the current field values.
func (f *CustomerForm) Info() model.CustomerInfo { return f.info }

// Errors returns the validation errors from the last pass, minus any
// entries cleared by later edits.
func (f *CustomerForm) Errors() model.ValidationErrors {
	out := model.ValidationErrors{}
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// SetField stores a field value after applying the per-field input
// normalization, and clears that field's validation error.  Other
// fields keep their errors untouched.  Unknown field names are
// ignored.
func (f *CustomerForm) SetField(field, value string) {
	switch field {
	case FieldName:
		f.info.Name = value
	case FieldEmail:
		f.info.Email = value
	case FieldPhone:
		f.info.Phone = f.normalizeDigits(value, phoneDigits, "el teléfono solo admite 9 dígitos")
	case FieldMethod:
		f.info.Method = model.PaymentMethod(value)
	case FieldCard:
		f.info.CardNumber = formatCardNumber(value)
	case FieldExpiry:
		f.info.ExpiryDate = formatExpiry(value)
	case FieldCVV:
		f.info.CVV = f.normalizeDigits(value, cvvDigits, "el CVV solo admite 3 dígitos")
	default:
		return
	}
	delete(f.errors, field)
}

// stripNonDigits removes everything except 0-9 from s.
func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeDigits keeps only digits, caps them at max and warns the
// user when the input carried non-digits or overflowed the cap.
func (f *CustomerForm) normalizeDigits(value string, max int, warning string) string {
	digits := stripNonDigits(value)
	if len(digits) != len(value) || len(digits) > max {
		f.notify.Notify(warning)
	}
	if len(digits) > max {
		digits = digits[:max]
	}
	return digits
}

// formatCardNumber strips non-digits, regroups the digits in blocks
// of four separated by single spaces and hard-caps the result at 19
// characters.
func formatCardNumber(value string) string {
	digits := stripNonDigits(value)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > maxCardLen {
		out = out[:maxCardLen]
	}
	return out
}

// formatExpiry strips non-digits, inserts the slash after the month
// and caps the result at the MM/YY length.
func formatExpiry(value string) string {
	digits := stripNonDigits(value)
	if len(digits) > 2 {
		digits = digits[:2] + "/" + digits[2:]
	}
	if len(digits) > 5 {
		digits = digits[:5]
	}
	return digits
}

// Validate runs the full validation pass and replaces the error map
// wholesale.  Card fields are only checked when paying by card.  It
// returns the fresh map; submission must not proceed while it is
// non-empty.
func (f *CustomerForm) Validate() model.ValidationErrors {
	errs := model.ValidationErrors{}

	if f.info.Method == "" {
		errs[FieldMethod] = "selecciona un método de pago"
	} else if !f.info.Method.Valid() {
		errs[FieldMethod] = "método de pago no válido"
	}

	name := strings.TrimSpace(f.info.Name)
	switch {
	case name == "":
		errs[FieldName] = "el nombre es requerido"
	case len(name) < 2 || len(name) > 50:
		errs[FieldName] = "el nombre debe tener entre 2 y 50 caracteres"
	}

	switch {
	case f.info.Email == "":
		errs[FieldEmail] = "el email es requerido"
	case !emailRe.MatchString(f.info.Email):
		errs[FieldEmail] = "el email no es válido"
	}

	switch {
	case f.info.Phone == "":
		errs[FieldPhone] = "el teléfono es requerido"
	case len(f.info.Phone) != phoneDigits:
		errs[FieldPhone] = "el teléfono debe tener 9 dígitos"
	}

	if f.info.Method == model.MethodCard {
		f.validateCard(errs)
	}

	f.errors = errs
	return f.Errors()
}

// validateCard checks the three card-only fields into errs.
func (f *CustomerForm) validateCard(errs model.ValidationErrors) {
	digits := strings.ReplaceAll(f.info.CardNumber, " ", "")
	switch {
	case digits == "":
		errs[FieldCard] = "el número de tarjeta es requerido"
	case len(digits) < 12 || len(digits) > 19 || stripNonDigits(digits) != digits:
		errs[FieldCard] = "el número de tarjeta no es válido"
	}

	switch {
	case f.info.ExpiryDate == "":
		errs[FieldExpiry] = "la fecha de expiración es requerida"
	case !expiryRe.MatchString(f.info.ExpiryDate):
		errs[FieldExpiry] = "la fecha de expiración no es válida"
	case f.expired(f.info.ExpiryDate):
		errs[FieldExpiry] = "la tarjeta está vencida"
	}

	switch {
	case f.info.CVV == "":
		errs[FieldCVV] = "el CVV es requerido"
	case len(f.info.CVV) != cvvDigits:
		errs[FieldCVV] = "el CVV debe tener 3 dígitos"
	}
}

// expired reports whether an already well-formed MM/YY value lies
// strictly before the current month.  The two-digit years are
// compared directly, as the site always has: "00" sorts before "99"
// even across a century boundary.
func (f *CustomerForm) expired(expiry string) bool {
	m := expiryRe.FindStringSubmatch(expiry)
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	now := f.now()
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	return year < curYear || (year == curYear && month < curMonth)
}

// ClearErrors discards every validation error, typically when going
// back to seat picking.
func (f *CustomerForm) ClearErrors() {
	f.errors = model.ValidationErrors{}
}

// Reset wipes all field values and errors.
func (f *CustomerForm) Reset() {
	f.info = model.CustomerInfo{}
	f.errors = model.ValidationErrors{}
}
