package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/terraincognita07/medminder/internal/kv"
	"github.com/terraincognita07/medminder/internal/logging"
	"github.com/terraincognita07/medminder/internal/models"
)

// userLockStripes bounds lock memory. Users whose ids share a stripe also
// share a lock, which only costs them some contention.
const userLockStripes = 64

var ErrDuplicateMedicationID = errors.New("medication id already exists")

// MedicationService hands each user a freshly loaded MedicationStore inside
// that user's key namespace. Calls for the same user are serialized.
type MedicationService struct {
	backend kv.Store
	now     func() time.Time
	log     *logging.Logger

	locks [userLockStripes]sync.Mutex
}

func NewMedicationService(backend kv.Store, now func() time.Time, logger *logging.Logger) *MedicationService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MedicationService{
		backend: backend,
		now:     now,
		log:     logger,
	}
}

func UserStorageNamespace(userID uint) string {
	return fmt.Sprintf("user:%d:", userID)
}

func (service *MedicationService) List(userID uint) ([]models.Medication, error) {
	var medications []models.Medication
	err := service.withStore(userID, func(store *MedicationStore) error {
		medications = store.Medications()
		return nil
	})
	return medications, err
}

func (service *MedicationService) Add(userID uint, medication models.Medication) ([]models.Medication, error) {
	return service.mutate(userID, func(store *MedicationStore) error {
		if _, exists := store.Find(medication.ID); exists {
			return ErrDuplicateMedicationID
		}
		return store.Add(medication)
	})
}

func (service *MedicationService) Remove(userID uint, medicationID models.MedicationID) ([]models.Medication, error) {
	return service.mutate(userID, func(store *MedicationStore) error {
		return store.Remove(medicationID)
	})
}

func (service *MedicationService) ToggleTaken(userID uint, medicationID models.MedicationID) ([]models.Medication, error) {
	return service.mutate(userID, func(store *MedicationStore) error {
		return store.ToggleTaken(medicationID)
	})
}

// Purge deletes the user's whole collection from the backend.
func (service *MedicationService) Purge(userID uint) error {
	return service.withStore(userID, func(store *MedicationStore) error {
		return store.Clear()
	})
}

func (service *MedicationService) Upcoming(userID uint, limit int) ([]models.DoseInstance, error) {
	var doses []models.DoseInstance
	err := service.withStore(userID, func(store *MedicationStore) error {
		doses = store.Upcoming(limit)
		return nil
	})
	return doses, err
}

func (service *MedicationService) mutate(userID uint, operation func(store *MedicationStore) error) ([]models.Medication, error) {
	var medications []models.Medication
	err := service.withStore(userID, func(store *MedicationStore) error {
		if err := operation(store); err != nil {
			return err
		}
		medications = store.Medications()
		return nil
	})
	return medications, err
}

func (service *MedicationService) withStore(userID uint, operation func(store *MedicationStore) error) error {
	lock := service.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	backend := kv.Namespace(service.backend, UserStorageNamespace(userID))
	store := NewMedicationStore(backend, service.now, service.log.With("user_id", userID))
	if err := store.Load(); err != nil {
		return err
	}
	return operation(store)
}

func (service *MedicationService) userLock(userID uint) *sync.Mutex {
	return &service.locks[userID%userLockStripes]
}
