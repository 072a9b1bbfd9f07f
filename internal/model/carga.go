package model

import (
	"time"

	"github.com/google/uuid"
)

// Carga is one ingested batch of deliveries (one source spreadsheet).
type Carga struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreArchivo string    `gorm:"not null"`
	Filas         int       `gorm:"not null;default:0"`
	CreatedAt     time.Time
}

func (Carga) TableName() string { return "cargas" }
