package domain

import "github.com/shopspring/decimal"

// StockItem is an inventory master record.
type StockItem struct {
	Name           string
	Parent         string
	Alias          string
	PartNumber     string
	UOM            string
	OpeningBalance decimal.Decimal
	OpeningRate    decimal.Decimal
	OpeningValue   decimal.Decimal
	HSNCode        string
	GSTRate        decimal.Decimal
	Taxability     string
}

// Godown is a storage location.
type Godown struct {
	Name    string
	Parent  string
	Address string
}

// EntityKind names what a resolver lookup searches.
type EntityKind string

const (
	EntityAccount EntityKind = "account"
	EntityItem    EntityKind = "item"
	EntityGodown  EntityKind = "godown"
	EntityParty   EntityKind = "party"
)

// Entity is a resolved canonical name with the record it came from.
// Record is one of *Ledger, *StockItem, *Godown, or nil for parties.
type Entity struct {
	Kind   EntityKind
	Name   string
	Alias  string
	Record any
}
