package models

import (
	"time"

	"github.com/erp/workbench/internal/domain/settings"
	"github.com/google/uuid"
)

// SettingRecordModel is the persistence model for settings forms
type SettingRecordModel struct {
	TenantAggregateModel
	Category  string     `gorm:"type:varchar(50);not null"`
	Key       string     `gorm:"column:setting_key;type:varchar(100);not null"`
	Payload   string     `gorm:"type:text;not null"`
	Locked    bool       `gorm:"not null;default:false"`
	LockedBy  *uuid.UUID `gorm:"type:uuid"`
	LockedAt  *time.Time
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (SettingRecordModel) TableName() string {
	return "setting_records"
}

// SettingRecordModelFromDomain converts a record for storage
func SettingRecordModelFromDomain(r *settings.SettingRecord) *SettingRecordModel {
	m := &SettingRecordModel{
		Category:  string(r.Category),
		Key:       r.Key,
		Payload:   string(r.Payload),
		Locked:    r.Locked,
		LockedBy:  r.LockedBy,
		LockedAt:  r.LockedAt,
		UpdatedBy: r.UpdatedBy,
	}
	m.TenantAggregateModel.FromDomain(r.TenantAggregateRoot)
	return m
}

// ToDomain converts the row back to a record
func (m *SettingRecordModel) ToDomain() *settings.SettingRecord {
	return &settings.SettingRecord{
		TenantAggregateRoot: m.TenantAggregateModel.ToDomain(),
		Category:            settings.Category(m.Category),
		Key:                 m.Key,
		Payload:             []byte(m.Payload),
		Locked:              m.Locked,
		LockedBy:            m.LockedBy,
		LockedAt:            m.LockedAt,
		UpdatedBy:           m.UpdatedBy,
	}
}
