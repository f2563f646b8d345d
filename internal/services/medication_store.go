package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/medminder/internal/kv"
	"github.com/terraincognita07/medminder/internal/logging"
	"github.com/terraincognita07/medminder/internal/models"
)

const MedicationsStorageKey = "medications"

var (
	ErrLoadMedicationsFailed    = errors.New("load medications failed")
	ErrPersistMedicationsFailed = errors.New("persist medications failed")
)

// MedicationStore owns one ordered medication collection and writes the whole
// collection to its backend after every mutation. It is not safe for
// concurrent use.
type MedicationStore struct {
	backend     kv.Store
	now         func() time.Time
	log         *logging.Logger
	medications []models.Medication
}

func NewMedicationStore(backend kv.Store, now func() time.Time, logger *logging.Logger) *MedicationStore {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MedicationStore{
		backend:     backend,
		now:         now,
		log:         logger,
		medications: []models.Medication{},
	}
}

// Load replaces the collection with the stored one. A missing or unreadable
// value leaves the collection empty without an error; only a backend failure
// is reported.
func (store *MedicationStore) Load() error {
	store.medications = []models.Medication{}

	raw, ok, err := store.backend.Get(MedicationsStorageKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadMedicationsFailed, err)
	}
	if !ok || len(raw) == 0 {
		return nil
	}

	decoded := make([]models.Medication, 0)
	if err := json.Unmarshal(raw, &decoded); err != nil {
		store.log.Warn("discarding unreadable medications payload", "error", err, "bytes", len(raw))
		return nil
	}
	if decoded == nil {
		decoded = []models.Medication{}
	}
	store.medications = decoded
	return nil
}

// Medications returns a copy of the collection in insertion order.
func (store *MedicationStore) Medications() []models.Medication {
	result := make([]models.Medication, len(store.medications))
	copy(result, store.medications)
	return result
}

func (store *MedicationStore) Find(id models.MedicationID) (models.Medication, bool) {
	index := store.indexOf(id)
	if index < 0 {
		return models.Medication{}, false
	}
	return store.medications[index], true
}

// Add appends medication as given. Callers assign a unique ID.
func (store *MedicationStore) Add(medication models.Medication) error {
	next := append(store.Medications(), medication)
	return store.commit(next)
}

// Remove drops the medication with id. Unknown ids are a no-op.
func (store *MedicationStore) Remove(id models.MedicationID) error {
	next := make([]models.Medication, 0, len(store.medications))
	for _, medication := range store.medications {
		if medication.ID == id {
			continue
		}
		next = append(next, medication)
	}
	return store.commit(next)
}

// ToggleTaken flips the taken flag of the medication with id. Unknown ids are
// a no-op.
func (store *MedicationStore) ToggleTaken(id models.MedicationID) error {
	next := store.Medications()
	if index := store.indexOf(id); index >= 0 {
		next[index].Taken = !next[index].Taken
	}
	return store.commit(next)
}

// Clear empties the collection and deletes its stored value.
func (store *MedicationStore) Clear() error {
	if err := store.backend.Delete(MedicationsStorageKey); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistMedicationsFailed, err)
	}
	store.medications = []models.Medication{}
	return nil
}

func (store *MedicationStore) Upcoming(limit int) []models.DoseInstance {
	return UpcomingDoses(store.medications, store.now(), limit)
}

// commit swaps in next and persists it, restoring the previous collection if
// the write fails.
func (store *MedicationStore) commit(next []models.Medication) error {
	previous := store.medications
	store.medications = next
	if err := store.persist(); err != nil {
		store.medications = previous
		return err
	}
	return nil
}

func (store *MedicationStore) persist() error {
	payload, err := json.Marshal(store.medications)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistMedicationsFailed, err)
	}
	if err := store.backend.Put(MedicationsStorageKey, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistMedicationsFailed, err)
	}
	return nil
}

func (store *MedicationStore) indexOf(id models.MedicationID) int {
	for index, medication := range store.medications {
		if medication.ID == id {
			return index
		}
	}
	return -1
}
