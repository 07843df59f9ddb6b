package service

import (
	"errors"
	"testing"
	"time"

	"telecare/internal/domain"
	"telecare/internal/models"
	"telecare/internal/repository"

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
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.Consultation{},
	))
	return db
}

type fixture struct {
	svc      *ConsultationService
	db       *gorm.DB
	patient  models.User
	doctor   models.User
	stranger models.User
	apptRepo *repository.AppointmentRepository
	consRepo *repository.ConsultationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		apptRepo: repository.NewAppointmentRepository(db),
		consRepo: repository.NewConsultationRepository(db),
		patient:  models.User{FullName: "Jane Mwangi", Email: "jane@example.com", Role: domain.RolePatient},
		doctor:   models.User{FullName: "Dr. Achieng", Email: "achieng@example.com", Role: domain.RoleDoctor},
		stranger: models.User{FullName: "Dr. Otieno", Email: "otieno@example.com", Role: domain.RoleDoctor},
	}
	require.NoError(t, db.Create(&f.patient).Error)
	require.NoError(t, db.Create(&f.doctor).Error)
	require.NoError(t, db.Create(&f.stranger).Error)
	f.svc = NewConsultationService(f.consRepo, f.apptRepo)
	return f
}

func (f *fixture) appointment(t *testing.T, status string) *models.Appointment {
	t.Helper()
	a := &models.Appointment{
		PatientID:   f.patient.ID,
		DoctorID:    f.doctor.ID,
		ScheduledAt: time.Now().Add(time.Hour),
		Reason:      "persistent cough",
		Status:      status,
	}
	require.NoError(t, f.db.Create(a).Error)
	return a
}

func TestStartCreatesWaitingSessionAndConsumesAppointment(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)

	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConsultationWaiting, session.Status)
	require.Equal(t, appt.ID, session.AppointmentID)
	require.Equal(t, f.patient.ID, session.PatientID)
	require.Equal(t, f.doctor.ID, session.DoctorID)
	require.False(t, session.StartedAt.IsZero())
	require.Nil(t, session.EndedAt)
	require.Equal(t, f.patient.FullName, session.Patient.FullName)

	got, err := f.apptRepo.GetByID(appt.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AppointmentCompleted, got.Status)
}

func TestStartIsIdempotent(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)

	first, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)

	// Second start returns the same session even though the appointment has
	// already moved to completed.
	second, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Consultation{}).Where("appointment_id = ?", appt.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestStartRejectsNonApprovedAppointment(t *testing.T) {
	f := newFixture(t)
	for _, status := range []string{domain.AppointmentPending, domain.AppointmentCancelled, domain.AppointmentCompleted} {
		appt := f.appointment(t, status)
		_, err := f.svc.Start(appt.ID, f.doctor.ID)
		var stateErr *InvalidStateError
		require.ErrorAs(t, err, &stateErr)
		require.Equal(t, status, stateErr.Current)

		var count int64
		require.NoError(t, f.db.Model(&models.Consultation{}).Where("appointment_id = ?", appt.ID).Count(&count).Error)
		require.Zero(t, count, "no session may exist for a %s appointment", status)
	}
}

func TestStartRejectsWrongDoctor(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)

	_, err := f.svc.Start(appt.ID, f.stranger.ID)
	require.ErrorIs(t, err, ErrNotYourAppointment)

	_, err = f.svc.Start(9999, f.doctor.ID)
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestEndFinalizesSession(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)
	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)

	// Backdate the start so the computed duration is visible.
	require.NoError(t, f.db.Model(&models.Consultation{}).Where("id = ?", session.ID).
		Update("started_at", time.Now().Add(-90*time.Second)).Error)

	ended, err := f.svc.End(session.ID, f.patient.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConsultationCompleted, ended.Status)
	require.NotNil(t, ended.EndedAt)
	require.InDelta(t, 90, ended.DurationSeconds, 2)
}

func TestEndRejectsTerminalAndOutsiders(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)
	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)

	_, err = f.svc.End(session.ID, f.stranger.ID)
	require.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.End(session.ID, f.doctor.ID)
	require.NoError(t, err)

	_, err = f.svc.End(session.ID, f.doctor.ID)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	require.Equal(t, domain.ConsultationCompleted, stateErr.Current)

	_, err = f.svc.End(9999, f.doctor.ID)
	require.ErrorIs(t, err, ErrConsultationNotFound)
}

func TestEndedSessionAllowsRestart(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)
	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)
	_, err = f.svc.End(session.ID, f.doctor.ID)
	require.NoError(t, err)

	// The appointment is completed, so a fresh start is rejected rather than
	// opening a second session.
	_, err = f.svc.Start(appt.ID, f.doctor.ID)
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	require.Equal(t, domain.AppointmentCompleted, stateErr.Current)
}

func TestActiveForUser(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)
	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)

	forPatient, err := f.svc.ActiveForUser(f.patient.ID, domain.RolePatient)
	require.NoError(t, err)
	require.Len(t, forPatient, 1)
	require.Equal(t, session.ID, forPatient[0].ID)

	forDoctor, err := f.svc.ActiveForUser(f.doctor.ID, domain.RoleDoctor)
	require.NoError(t, err)
	require.Len(t, forDoctor, 1)

	forStranger, err := f.svc.ActiveForUser(f.stranger.ID, domain.RoleDoctor)
	require.NoError(t, err)
	require.Empty(t, forStranger)

	_, err = f.svc.End(session.ID, f.doctor.ID)
	require.NoError(t, err)
	forPatient, err = f.svc.ActiveForUser(f.patient.ID, domain.RolePatient)
	require.NoError(t, err)
	require.Empty(t, forPatient)
}

func TestSaveNotesPartialUpdate(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)
	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)

	notes := "advised rest and fluids"
	rx := "amoxicillin 500mg x7d"
	updated, err := f.svc.SaveNotes(session.ID, f.doctor.ID, &notes, &rx)
	require.NoError(t, err)
	require.Equal(t, notes, updated.Notes)
	require.Equal(t, rx, updated.Prescription)

	// A nil prescription leaves the earlier value in place.
	revised := "advised rest, fluids, follow-up in a week"
	updated, err = f.svc.SaveNotes(session.ID, f.doctor.ID, &revised, nil)
	require.NoError(t, err)
	require.Equal(t, revised, updated.Notes)
	require.Equal(t, rx, updated.Prescription)

	_, err = f.svc.SaveNotes(session.ID, f.patient.ID, &notes, nil)
	require.ErrorIs(t, err, ErrNotSessionDoctor)

	// Notes can still be written after the call has ended.
	_, err = f.svc.End(session.ID, f.doctor.ID)
	require.NoError(t, err)
	_, err = f.svc.SaveNotes(session.ID, f.doctor.ID, &notes, nil)
	require.NoError(t, err)
}

func TestMarkMissedBefore(t *testing.T) {
	f := newFixture(t)
	appt := f.appointment(t, domain.AppointmentApproved)
	session, err := f.svc.Start(appt.ID, f.doctor.ID)
	require.NoError(t, err)

	// Too recent: nothing to sweep.
	n, err := f.consRepo.MarkMissedBefore(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, f.db.Model(&models.Consultation{}).Where("id = ?", session.ID).
		Update("started_at", time.Now().Add(-10*time.Minute)).Error)
	n, err = f.consRepo.MarkMissedBefore(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	swept, err := f.consRepo.FindByID(session.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ConsultationMissed, swept.Status)
	require.NotNil(t, swept.EndedAt)

	// Missed is terminal.
	_, err = f.svc.End(session.ID, f.doctor.ID)
	var stateErr *InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	require.Equal(t, domain.ConsultationMissed, stateErr.Current)
}
