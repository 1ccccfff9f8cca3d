package models

import "time"

// CountryType tells whether a country may be used as shipment origin,
// destination or both.
type CountryType string

const (
	CountryOrigin      CountryType = "ORIGIN"
	CountryDestination CountryType = "DESTINATION"
	CountryBoth        CountryType = "BOTH"
)

type Branch struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BranchRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (b *Branch) Ref() *BranchRef {
	return &BranchRef{ID: b.ID, Name: b.Name, Code: b.Code}
}

type Country struct {
	ID        string      `json:"id" validate:"required"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	Type      CountryType `json:"type" validate:"required,oneof=ORIGIN DESTINATION BOTH"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type CountryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

func (c *Country) Ref() *CountryRef {
	return &CountryRef{ID: c.ID, Name: c.Name, Code: c.Code}
}

type ShipmentStatus struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sortOrder"`
	IsFinal   bool      `json:"isFinal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type StatusRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}

func (s *ShipmentStatus) Ref() *StatusRef {
	return &StatusRef{ID: s.ID, Name: s.Name, Code: s.Code, Color: s.Color}
}
