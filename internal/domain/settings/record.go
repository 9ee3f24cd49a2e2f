// Package settings models single-record configuration forms such as
// decimal formats, document numbering, GL account mapping and field toggles.
package settings

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/erp/workbench/internal/domain/shared"
	"github.com/google/uuid"
)

// Category names a settings form
type Category string

const (
	CategoryDecimalFormat     Category = "decimal_format"
	CategoryDocumentNumbering Category = "document_numbering"
	CategoryGLAccountMapping  Category = "gl_account_mapping"
	CategoryFieldToggle       Category = "field_toggle"
)

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryDecimalFormat, CategoryDocumentNumbering, CategoryGLAccountMapping, CategoryFieldToggle:
		return c, nil
	}
	return "", shared.NewDomainError("INVALID_CATEGORY", "Unknown settings category: "+s)
}

// DefaultPayload returns the payload served before anything was saved
func DefaultPayload(c Category) Payload {
	switch c {
	case CategoryDecimalFormat:
		return DecimalFormat{QuantityDecimals: 2, AmountDecimals: 2, RateDecimals: 4, RoundingMode: RoundHalfUp}
	case CategoryDocumentNumbering:
		return DocumentNumbering{NextNumber: 1, Padding: 6, ResetPeriod: ResetNever}
	case CategoryGLAccountMapping:
		return GLAccountMapping{Entries: []GLAccountEntry{}}
	default:
		return FieldToggles{Fields: []FieldSetting{}}
	}
}

// DecodePayload parses and validates raw JSON for the category. Unknown
// fields are rejected.
func DecodePayload(c Category, raw []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var (
		p   Payload
		err error
	)
	switch c {
	case CategoryDecimalFormat:
		var v DecimalFormat
		err = dec.Decode(&v)
		p = v
	case CategoryDocumentNumbering:
		var v DocumentNumbering
		err = dec.Decode(&v)
		p = v
	case CategoryGLAccountMapping:
		var v GLAccountMapping
		err = dec.Decode(&v)
		p = v
	case CategoryFieldToggle:
		var v FieldToggles
		err = dec.Decode(&v)
		p = v
	default:
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown settings category: "+string(c))
	}
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Malformed settings payload: "+err.Error())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// MaxKeyLength bounds SettingRecord.Key
const MaxKeyLength = 100

// SettingRecord is one saved settings form. A locked record is read-only
// until unlocked.
type SettingRecord struct {
	shared.TenantAggregateRoot
	Category  Category
	Key       string
	Payload   json.RawMessage
	Locked    bool
	LockedBy  *uuid.UUID
	LockedAt  *time.Time
	UpdatedBy *uuid.UUID
}

// NewSettingRecord creates a record holding p
func NewSettingRecord(tenantID uuid.UUID, key string, p Payload, userID uuid.UUID) (*SettingRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > MaxKeyLength {
		return nil, shared.NewDomainError("INVALID_KEY", "Settings key must be 1-100 characters")
	}
	r := &SettingRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Category:            p.Category(),
		Key:                 key,
	}
	if err := r.setPayload(p, userID); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SettingRecord) setPayload(p Payload, userID uuid.UUID) error {
	if p.Category() != r.Category {
		return shared.NewDomainError("INVALID_PAYLOAD", "Payload does not match settings category")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	r.Payload = raw
	r.UpdatedBy = &userID
	return nil
}

// Update replaces the payload. Locked records return shared.ErrRecordLocked.
func (r *SettingRecord) Update(p Payload, userID uuid.UUID) error {
	if r.Locked {
		return shared.ErrRecordLocked
	}
	if err := r.setPayload(p, userID); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

// Decode returns the typed payload
func (r *SettingRecord) Decode() (Payload, error) {
	return DecodePayload(r.Category, r.Payload)
}

// Lock makes the record read-only
func (r *SettingRecord) Lock(userID uuid.UUID) error {
	if r.Locked {
		return shared.ErrRecordLocked
	}
	now := time.Now()
	r.Locked = true
	r.LockedBy = &userID
	r.LockedAt = &now
	r.IncrementVersion()
	return nil
}

// Unlock makes the record editable again
func (r *SettingRecord) Unlock() error {
	if !r.Locked {
		return shared.NewDomainError("NOT_LOCKED", "Record is not locked")
	}
	r.Locked = false
	r.LockedBy = nil
	r.LockedAt = nil
	r.IncrementVersion()
	return nil
}

// IssueNumber hands out the next number of a document numbering record.
// Locking freezes the series configuration but not issuing.
func (r *SettingRecord) IssueNumber(now time.Time) (string, error) {
	if r.Category != CategoryDocumentNumbering {
		return "", shared.NewDomainError("INVALID_CATEGORY", "Record is not a numbering series")
	}
	p, err := r.Decode()
	if err != nil {
		return "", err
	}
	series := p.(DocumentNumbering)
	num := series.Issue(now)
	raw, err := json.Marshal(series)
	if err != nil {
		return "", err
	}
	r.Payload = raw
	r.IncrementVersion()
	return num, nil
}
