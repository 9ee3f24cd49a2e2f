// Package models holds the GORM persistence models and their conversions to
// and from domain aggregates. Domain types never carry gorm tags.
package models
