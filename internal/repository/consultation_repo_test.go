package repository

import (
	"sync"
	"testing"
	"time"

	"telecare/internal/domain"
	"telecare/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.Consultation{},
	))
	return db
}

func TestCreateIfAbsentConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewConsultationRepository(db)

	const workers = 8
	type result struct {
		created bool
		err     error
	}
	var wg sync.WaitGroup
	results := make(chan result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := repo.CreateIfAbsent(1, 10, 20)
			results <- result{created: created, err: err}
		}()
	}
	wg.Wait()
	close(results)

	fresh := 0
	for res := range results {
		require.NoError(t, res.err)
		if res.created {
			fresh++
		}
	}
	require.Equal(t, 1, fresh, "exactly one goroutine creates the session")

	var count int64
	require.NoError(t, db.Model(&models.Consultation{}).Where("appointment_id = ?", 1).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateIfAbsentAllowsNewSessionAfterTerminal(t *testing.T) {
	db := newTestDB(t)
	repo := NewConsultationRepository(db)

	first, created, err := repo.CreateIfAbsent(1, 10, 20)
	require.NoError(t, err)
	require.True(t, created)

	require.NoError(t, repo.Update(first.ID, map[string]interface{}{
		"status":   domain.ConsultationCompleted,
		"ended_at": time.Now(),
	}))

	// A terminal session no longer blocks a fresh one for the appointment.
	second, created, err := repo.CreateIfAbsent(1, 10, 20)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, domain.ConsultationWaiting, second.Status)
}

func TestAppointmentUpdateStatusIf(t *testing.T) {
	db := newTestDB(t)
	repo := NewAppointmentRepository(db)

	appt := &models.Appointment{
		PatientID:   10,
		DoctorID:    20,
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      domain.AppointmentApproved,
	}
	require.NoError(t, repo.Create(appt))

	changed, err := repo.UpdateStatusIf(appt.ID, domain.AppointmentApproved, domain.AppointmentCompleted)
	require.NoError(t, err)
	require.True(t, changed)

	// Second transition finds no approved row; no-op, no error.
	changed, err = repo.UpdateStatusIf(appt.ID, domain.AppointmentApproved, domain.AppointmentCompleted)
	require.NoError(t, err)
	require.False(t, changed)

	got, err := repo.GetByID(appt.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AppointmentCompleted, got.Status)
}
