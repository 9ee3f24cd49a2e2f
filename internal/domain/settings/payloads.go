package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erp/workbench/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payload is the typed body of a settings record
type Payload interface {
	Category() Category
	Validate() error
}

// RoundingMode selects how DecimalFormat rounds
type RoundingMode string

const (
	RoundHalfUp   RoundingMode = "half_up"
	RoundHalfEven RoundingMode = "half_even"
	RoundDown     RoundingMode = "down"
	RoundUp       RoundingMode = "up"
)

// ValueKind picks which precision of a DecimalFormat applies
type ValueKind string

const (
	KindQuantity ValueKind = "quantity"
	KindAmount   ValueKind = "amount"
	KindRate     ValueKind = "rate"
)

// DecimalFormat holds the number of decimals used for each kind of figure
type DecimalFormat struct {
	QuantityDecimals int32        `json:"quantityDecimals" validate:"gte=0,lte=6"`
	AmountDecimals   int32        `json:"amountDecimals" validate:"gte=0,lte=6"`
	RateDecimals     int32        `json:"rateDecimals" validate:"gte=0,lte=8"`
	RoundingMode     RoundingMode `json:"roundingMode" validate:"required,oneof=half_up half_even down up"`
}

func (DecimalFormat) Category() Category { return CategoryDecimalFormat }

func (f DecimalFormat) Validate() error {
	return validationError(validate.Struct(f))
}

// Places returns the configured decimals for kind
func (f DecimalFormat) Places(kind ValueKind) int32 {
	switch kind {
	case KindQuantity:
		return f.QuantityDecimals
	case KindRate:
		return f.RateDecimals
	default:
		return f.AmountDecimals
	}
}

// Round applies the precision and rounding mode for kind
func (f DecimalFormat) Round(kind ValueKind, v decimal.Decimal) decimal.Decimal {
	places := f.Places(kind)
	switch f.RoundingMode {
	case RoundHalfEven:
		return v.RoundBank(places)
	case RoundDown:
		return v.RoundDown(places)
	case RoundUp:
		return v.RoundUp(places)
	default:
		return v.Round(places)
	}
}

// Format rounds v and renders it with exactly the configured decimals
func (f DecimalFormat) Format(kind ValueKind, v decimal.Decimal) string {
	return f.Round(kind, v).StringFixed(f.Places(kind))
}

// Reset periods for document numbering
const (
	ResetNever   = "never"
	ResetYearly  = "yearly"
	ResetMonthly = "monthly"
)

// DocumentNumbering describes how document numbers are issued for one
// transaction type, e.g. PI-000042/24.
type DocumentNumbering struct {
	Prefix      string `json:"prefix" validate:"max=10"`
	Suffix      string `json:"suffix" validate:"max=10"`
	NextNumber  int64  `json:"nextNumber" validate:"gte=1"`
	Padding     int    `json:"padding" validate:"gte=1,lte=12"`
	ResetPeriod string `json:"resetPeriod" validate:"oneof=never yearly monthly"`
	// PeriodKey is the period NextNumber belongs to; maintained by Issue
	PeriodKey string `json:"periodKey,omitempty"`
}

func (DocumentNumbering) Category() Category { return CategoryDocumentNumbering }

func (n DocumentNumbering) Validate() error {
	return validationError(validate.Struct(n))
}

// Format renders num with the series prefix, padding and suffix
func (n DocumentNumbering) Format(num int64) string {
	digits := strconv.FormatInt(num, 10)
	if pad := n.Padding - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return n.Prefix + digits + n.Suffix
}

// Preview returns the number Issue would hand out next
func (n DocumentNumbering) Preview(now time.Time) string {
	next := n.NextNumber
	if n.PeriodKey != "" && n.periodKey(now) != n.PeriodKey {
		next = 1
	}
	return n.Format(next)
}

// Issue hands out the next number and advances the series, restarting at 1
// when the reset period rolls over.
func (n *DocumentNumbering) Issue(now time.Time) string {
	key := n.periodKey(now)
	if key != n.PeriodKey {
		if n.PeriodKey != "" {
			n.NextNumber = 1
		}
		n.PeriodKey = key
	}
	num := n.Format(n.NextNumber)
	n.NextNumber++
	return num
}

func (n DocumentNumbering) periodKey(now time.Time) string {
	switch n.ResetPeriod {
	case ResetYearly:
		return now.Format("2006")
	case ResetMonthly:
		return now.Format("2006-01")
	default:
		return n.PeriodKey
	}
}

// GLAccountEntry maps one transaction type to its ledger accounts
type GLAccountEntry struct {
	TransactionType string `json:"transactionType" validate:"required,max=50"`
	DebitAccount    string `json:"debitAccount" validate:"required,max=20"`
	CreditAccount   string `json:"creditAccount" validate:"required,max=20,nefield=DebitAccount"`
}

// GLAccountMapping is the posting configuration of a module
type GLAccountMapping struct {
	Entries []GLAccountEntry `json:"entries" validate:"dive"`
}

func (GLAccountMapping) Category() Category { return CategoryGLAccountMapping }

func (m GLAccountMapping) Validate() error {
	if err := validate.Struct(m); err != nil {
		return validationError(err)
	}
	seen := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		if seen[e.TransactionType] {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("entries: duplicate transaction type %q", e.TransactionType))
		}
		seen[e.TransactionType] = true
	}
	return nil
}

// Lookup finds the mapping for a transaction type
func (m GLAccountMapping) Lookup(transactionType string) (GLAccountEntry, bool) {
	for _, e := range m.Entries {
		if e.TransactionType == transactionType {
			return e, true
		}
	}
	return GLAccountEntry{}, false
}

// FieldSetting controls one form field
type FieldSetting struct {
	FieldID   string `json:"fieldId" validate:"required,max=64"`
	Visible   bool   `json:"visible"`
	Mandatory bool   `json:"mandatory"`
}

// FieldToggles configures which fields of a form are shown and required
type FieldToggles struct {
	Fields []FieldSetting `json:"fields" validate:"dive"`
}

func (FieldToggles) Category() Category { return CategoryFieldToggle }

func (f FieldToggles) Validate() error {
	if err := validate.Struct(f); err != nil {
		return validationError(err)
	}
	seen := make(map[string]bool, len(f.Fields))
	for _, fs := range f.Fields {
		if seen[fs.FieldID] {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("fields: duplicate field %q", fs.FieldID))
		}
		seen[fs.FieldID] = true
		if fs.Mandatory && !fs.Visible {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("fields: mandatory field %q must be visible", fs.FieldID))
		}
	}
	return nil
}

// IsMandatory reports whether the field must be filled in
func (f FieldToggles) IsMandatory(fieldID string) bool {
	for _, fs := range f.Fields {
		if fs.FieldID == fieldID {
			return fs.Mandatory
		}
	}
	return false
}

// IsVisible reports whether the field is shown; unknown fields are visible
func (f FieldToggles) IsVisible(fieldID string) bool {
	for _, fs := range f.Fields {
		if fs.FieldID == fieldID {
			return fs.Visible
		}
	}
	return true
}
