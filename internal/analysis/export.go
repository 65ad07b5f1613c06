package analysis

import "time"

// ExportSchemaVersion is written into the header line of every export file.
const ExportSchemaVersion = "1.0"

// ExportRecord represents one line of a JSONL export file.
// It is used both for writing exports and parsing them during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	StrindexExport bool `json:"_strindex_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Record fields
	ID         string      `json:"id,omitempty"`
	Value      *string     `json:"value,omitempty"`
	Properties *Properties `json:"properties,omitempty"` // IGNORED on import, recomputed
	CreatedAt  *time.Time  `json:"created_at,omitempty"`
}

// ToRecord re-analyzes the exported value. Stored properties are never
// trusted; only the value and creation time survive a round trip.
func (r *ExportRecord) ToRecord(a *Analyzer) *Record {
	createdAt := time.Now()
	if r.CreatedAt != nil {
		createdAt = *r.CreatedAt
	}
	return a.NewRecord(*r.Value, createdAt)
}

// RecordToExportRecord converts a Record to an ExportRecord for export.
func RecordToExportRecord(rec *Record) *ExportRecord {
	value := rec.Value
	props := rec.Properties
	createdAt := rec.CreatedAt
	return &ExportRecord{
		ID:         rec.ID,
		Value:      &value,
		Properties: &props,
		CreatedAt:  &createdAt,
	}
}
