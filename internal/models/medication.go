package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyTwiceDaily Frequency = "twice_daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyMonthly    Frequency = "monthly"
)

const DefaultMedicationTime = "09:00"

// MedicationID is opaque text. Browser clients historically stamped records
// with a numeric millisecond timestamp, so a JSON number decodes to its
// decimal text and always encodes back as a string.
type MedicationID string

func (id *MedicationID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*id = MedicationID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("medication id must be a string or a number: %w", err)
	}
	*id = MedicationID(number.String())
	return nil
}

func (id MedicationID) String() string {
	return string(id)
}

// Medication is one user-defined drug regimen. Taken is a single flag per
// medication, not a per-dose log.
type Medication struct {
	ID        MedicationID `json:"id"`
	Name      string       `json:"name"`
	Dosage    string       `json:"dosage"`
	Frequency Frequency    `json:"frequency"`
	Time      string       `json:"time"`
	Notes     string       `json:"notes"`
	Taken     bool         `json:"taken"`
}

// DoseInstance is derived from a Medication on every read and never stored.
// A zero Time means the medication's anchor could not be parsed.
type DoseInstance struct {
	MedicationID   MedicationID `json:"medicationId"`
	MedicationName string       `json:"medicationName"`
	Dosage         string       `json:"dosage"`
	Time           time.Time    `json:"time"`
	Taken          bool         `json:"taken"`
}

func KnownFrequencies() []Frequency {
	return []Frequency{
		FrequencyDaily,
		FrequencyTwiceDaily,
		FrequencyWeekly,
		FrequencyMonthly,
	}
}

func (frequency Frequency) IsKnown() bool {
	for _, known := range KnownFrequencies() {
		if frequency == known {
			return true
		}
	}
	return false
}
