package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"gorm.io/gorm"
)

// PrinterConfig describes a thermal printer attached to the store.
type PrinterConfig struct {
	ID           uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	TenantID     uuid.UUID              `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name         string                 `gorm:"size:100;not null" json:"name"`
	Connection   enum.PrinterConnection `gorm:"size:20;not null;default:'none'" json:"connection"`
	DevicePath   string                 `gorm:"size:255" json:"device_path,omitempty"`
	Address      string                 `gorm:"size:255" json:"address,omitempty"`
	PaperWidthMM int                    `gorm:"not null;default:80" json:"paper_width_mm"`
	Copies       int                    `gorm:"not null;default:1" json:"copies"`
	Purpose      enum.PrinterPurpose    `gorm:"size:20;not null;default:'receipt'" json:"purpose"`
	AutoPrint    bool                   `gorm:"default:false" json:"auto_print"`
	IsDefault    bool                   `gorm:"default:false;index" json:"is_default"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	DeletedAt    gorm.DeletedAt         `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new printer config
func (p *PrinterConfig) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PrinterConfig model
func (PrinterConfig) TableName() string {
	return "printer_configs"
}
