package assets

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetType categorises what is being leased.
type AssetType string

const (
	TypeAuto      AssetType = "AUTO"
	TypeEquipment AssetType = "EQUIPMENT"
)

// Asset is an item offered for lease.
type Asset struct {
	ID           int64           `json:"id"`
	Type         AssetType       `json:"type"`
	Name         string          `json:"name"`
	SerialNumber string          `json:"serial_number"` // VIN or manufacturer serial
	Price        decimal.Decimal `json:"price"`
	SupplierID   int64           `json:"supplier_id"`
	InsurerID    *int64          `json:"insurer_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateAssetRequest is the payload for registering an asset.
type CreateAssetRequest struct {
	Type         string          `json:"type" validate:"required,oneof=AUTO EQUIPMENT"`
	Name         string          `json:"name" validate:"required,max=200"`
	SerialNumber string          `json:"serial_number" validate:"omitempty,max=100"`
	Price        decimal.Decimal `json:"price"`
	SupplierID   int64           `json:"supplier_id" validate:"required,gt=0"`
	InsurerID    *int64          `json:"insurer_id,omitempty" validate:"omitempty,gt=0"`
}
