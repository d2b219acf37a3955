package domain

import (
	"encoding/json"
	"time"
)

// Building is an inspected site.
type Building struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BuildingQuery filters building listings. Empty fields match everything.
type BuildingQuery struct {
	Name  string `json:"name,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Registration is the payload of an account registration.
type Registration struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Password string `json:"password"`
}

// EmailVerification pairs an email with the code sent to it.
type EmailVerification struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// EquipmentEntry is one equipment instance inside a report.
type EquipmentEntry struct {
	Equipment string   `json:"equipment"`
	Instance  string   `json:"instance,omitempty"`
	Document  Document `json:"document"`
}

// Report is a multi-page inspection report for one building.
type Report struct {
	ID         string           `json:"id"`
	BuildingID string           `json:"buildingId"`
	Title      string           `json:"title"`
	Inspector  string           `json:"inspector,omitempty"`
	Entries    []EquipmentEntry `json:"entries"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Envelope is the response shape of every remote report API call.
// Data carries the call-specific payload.
type Envelope struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals Data into v. An empty payload leaves v untouched.
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// ExportRow is one labelled value in an exported sheet.
type ExportRow struct {
	Group string
	Label string
	Value string
	Unit  string
}

// ExportSheet holds the flattened fields and derived values of one
// equipment instance.
type ExportSheet struct {
	Name    string
	Rows    []ExportRow
	Derived []ExportRow
	Photos  int
}

// ExportReport is the tabular form of a report handed to exporters.
type ExportReport struct {
	ID        string
	Title     string
	Building  string
	Generated time.Time
	Sheets    []ExportSheet
}
