package models

import (
	"encoding/json"
	"testing"
)

func TestMedicationIDDecodesStringsAndNumbers(t *testing.T) {
	cases := []struct {
		raw  string
		want MedicationID
	}{
		{raw: `{"id":"abc-1"}`, want: "abc-1"},
		{raw: `{"id":1710000000000}`, want: "1710000000000"},
		{raw: `{"id":42}`, want: "42"},
		{raw: `{"id":null}`, want: ""},
		{raw: `{}`, want: ""},
	}
	for _, tc := range cases {
		var medication Medication
		if err := json.Unmarshal([]byte(tc.raw), &medication); err != nil {
			t.Fatalf("Unmarshal(%s) unexpected error: %v", tc.raw, err)
		}
		if medication.ID != tc.want {
			t.Fatalf("Unmarshal(%s) id = %q, want %q", tc.raw, medication.ID, tc.want)
		}
	}
}

func TestMedicationIDRejectsOtherJSONTypes(t *testing.T) {
	for _, raw := range []string{`{"id":true}`, `{"id":{"n":1}}`, `{"id":[1]}`} {
		var medication Medication
		if err := json.Unmarshal([]byte(raw), &medication); err == nil {
			t.Fatalf("Unmarshal(%s) expected error", raw)
		}
	}
}

func TestMedicationIDEncodesAsString(t *testing.T) {
	var medication Medication
	if err := json.Unmarshal([]byte(`{"id":1710000000000,"name":"Aspirin"}`), &medication); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	encoded, err := json.Marshal(medication)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(encoded, &generic); err != nil {
		t.Fatalf("decode encoded medication: %v", err)
	}
	if id, ok := generic["id"].(string); !ok || id != "1710000000000" {
		t.Fatalf("encoded id = %#v, want string 1710000000000", generic["id"])
	}
}

func TestFrequencyIsKnown(t *testing.T) {
	for _, frequency := range KnownFrequencies() {
		if !frequency.IsKnown() {
			t.Fatalf("%s should be known", frequency)
		}
	}
	if Frequency("hourly").IsKnown() {
		t.Fatal("hourly should not be known")
	}
}
