package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/medminder/internal/models"
)

var (
	ErrInvalidMedicationName      = errors.New("invalid medication name")
	ErrInvalidMedicationDosage    = errors.New("invalid medication dosage")
	ErrInvalidMedicationFrequency = errors.New("invalid medication frequency")
	ErrInvalidMedicationTime      = errors.New("invalid medication time")
	ErrInvalidMedicationNotes     = errors.New("invalid medication notes")
)

const (
	maxMedicationNameLength   = 120
	maxMedicationDosageLength = 120
	maxMedicationNotesLength  = 1000
)

var medicationTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type MedicationInput struct {
	ID        string
	Name      string
	Dosage    string
	Frequency string
	Time      string
	Notes     string
}

// NormalizeMedicationInput validates a submitted medication form and returns
// the record to hand to the store. The store itself accepts any shape.
func NormalizeMedicationInput(input MedicationInput) (models.Medication, error) {
	name := strings.TrimSpace(input.Name)
	dosage := strings.TrimSpace(input.Dosage)
	frequency := models.Frequency(strings.ToLower(strings.TrimSpace(input.Frequency)))
	anchor := strings.TrimSpace(input.Time)
	notes := strings.TrimSpace(input.Notes)

	if name == "" || utf8.RuneCountInString(name) > maxMedicationNameLength {
		return models.Medication{}, ErrInvalidMedicationName
	}
	if dosage == "" || utf8.RuneCountInString(dosage) > maxMedicationDosageLength {
		return models.Medication{}, ErrInvalidMedicationDosage
	}
	if frequency == "" {
		frequency = models.FrequencyDaily
	}
	if !frequency.IsKnown() {
		return models.Medication{}, ErrInvalidMedicationFrequency
	}
	if anchor == "" {
		anchor = models.DefaultMedicationTime
	}
	if !medicationTimePattern.MatchString(anchor) {
		return models.Medication{}, ErrInvalidMedicationTime
	}
	if utf8.RuneCountInString(notes) > maxMedicationNotesLength {
		return models.Medication{}, ErrInvalidMedicationNotes
	}

	return models.Medication{
		ID:        models.MedicationID(strings.TrimSpace(input.ID)),
		Name:      name,
		Dosage:    dosage,
		Frequency: frequency,
		Time:      anchor,
		Notes:     notes,
		Taken:     false,
	}, nil
}
