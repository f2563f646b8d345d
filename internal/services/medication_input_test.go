package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/terraincognita07/medminder/internal/models"
)

func TestNormalizeMedicationInputAppliesDefaults(t *testing.T) {
	medication, err := NormalizeMedicationInput(MedicationInput{
		ID:     " 42 ",
		Name:   "  Ibuprofen ",
		Dosage: " 200mg ",
		Notes:  "  after meals ",
	})
	if err != nil {
		t.Fatalf("NormalizeMedicationInput() unexpected error: %v", err)
	}

	want := models.Medication{
		ID:        "42",
		Name:      "Ibuprofen",
		Dosage:    "200mg",
		Frequency: models.FrequencyDaily,
		Time:      "09:00",
		Notes:     "after meals",
	}
	if medication != want {
		t.Fatalf("NormalizeMedicationInput() = %#v, want %#v", medication, want)
	}
}

func TestNormalizeMedicationInputAcceptsKnownFrequencies(t *testing.T) {
	for _, frequency := range []string{"daily", "twice_daily", "WEEKLY", " monthly "} {
		medication, err := NormalizeMedicationInput(MedicationInput{
			Name:      "A",
			Dosage:    "1",
			Frequency: frequency,
			Time:      "23:59",
		})
		if err != nil {
			t.Fatalf("frequency %q: unexpected error %v", frequency, err)
		}
		if !medication.Frequency.IsKnown() {
			t.Fatalf("frequency %q normalized to unknown %q", frequency, medication.Frequency)
		}
	}
}

func TestNormalizeMedicationInputRejectsInvalidFields(t *testing.T) {
	testCases := []struct {
		name  string
		input MedicationInput
		want  error
	}{
		{name: "empty name", input: MedicationInput{Name: "  ", Dosage: "1"}, want: ErrInvalidMedicationName},
		{name: "long name", input: MedicationInput{Name: strings.Repeat("a", 121), Dosage: "1"}, want: ErrInvalidMedicationName},
		{name: "empty dosage", input: MedicationInput{Name: "A", Dosage: ""}, want: ErrInvalidMedicationDosage},
		{name: "unknown frequency", input: MedicationInput{Name: "A", Dosage: "1", Frequency: "hourly"}, want: ErrInvalidMedicationFrequency},
		{name: "hour out of range", input: MedicationInput{Name: "A", Dosage: "1", Time: "24:00"}, want: ErrInvalidMedicationTime},
		{name: "not a time", input: MedicationInput{Name: "A", Dosage: "1", Time: "9am"}, want: ErrInvalidMedicationTime},
		{name: "single digit hour", input: MedicationInput{Name: "A", Dosage: "1", Time: "9:00"}, want: ErrInvalidMedicationTime},
		{name: "long notes", input: MedicationInput{Name: "A", Dosage: "1", Notes: strings.Repeat("n", 1001)}, want: ErrInvalidMedicationNotes},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := NormalizeMedicationInput(testCase.input); !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
}
