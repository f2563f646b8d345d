package services

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/medminder/internal/models"
)

const DefaultUpcomingDoseLimit = 5

// twice_daily ignores the medication's own anchor.
var twiceDailyAnchors = []string{"09:00", "21:00"}

// ExpandDoses materializes the doses a medication implies for now's calendar
// date, in now's location.
func ExpandDoses(medication models.Medication, now time.Time) []models.DoseInstance {
	anchors := []string{medication.Time}
	if medication.Frequency == models.FrequencyTwiceDaily {
		anchors = twiceDailyAnchors
	}

	doses := make([]models.DoseInstance, 0, len(anchors))
	for _, anchor := range anchors {
		doses = append(doses, models.DoseInstance{
			MedicationID:   medication.ID,
			MedicationName: medication.Name,
			Dosage:         medication.Dosage,
			Time:           anchorOnDate(anchor, now),
			Taken:          medication.Taken,
		})
	}
	return doses
}

// UpcomingDoses expands every medication, sorts the doses by instant and keeps
// at most limit of them. Equal instants keep collection order. Doses whose
// anchor could not be parsed sort last.
func UpcomingDoses(medications []models.Medication, now time.Time, limit int) []models.DoseInstance {
	if limit < 0 {
		limit = 0
	}

	doses := make([]models.DoseInstance, 0, len(medications))
	for _, medication := range medications {
		doses = append(doses, ExpandDoses(medication, now)...)
	}

	sort.SliceStable(doses, func(i, j int) bool {
		left, right := doses[i].Time, doses[j].Time
		if left.IsZero() || right.IsZero() {
			return !left.IsZero() && right.IsZero()
		}
		return left.Before(right)
	})

	if len(doses) > limit {
		doses = doses[:limit]
	}
	return doses
}

// anchorOnDate applies an "HH:MM" anchor to now's date. Out-of-range values
// roll over the way time.Date normalizes them; non-numeric parts yield the
// zero time.
func anchorOnDate(anchor string, now time.Time) time.Time {
	hourPart, minutePart, found := strings.Cut(strings.TrimSpace(anchor), ":")
	if !found {
		return time.Time{}
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return time.Time{}
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		return time.Time{}
	}

	year, month, day := now.Date()
	return time.Date(year, month, day, hour, minute, 0, 0, now.Location())
}
