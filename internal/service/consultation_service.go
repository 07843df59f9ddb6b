package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"telecare/internal/domain"
	"telecare/internal/models"
	"telecare/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrNotYourAppointment   = errors.New("appointment belongs to another doctor")
	ErrNotParticipant       = errors.New("not a participant in this consultation")
	ErrNotSessionDoctor     = errors.New("only the consultation's doctor may update notes")
)

// InvalidStateError reports an operation attempted against a resource whose
// current status disallows it. Current names the offending status so the UI
// can explain why.
type InvalidStateError struct {
	Current string
	Reason  string
}

func (e *InvalidStateError) Error() string { return e.Reason }

// ConsultationService owns the call lifecycle: waiting -> active ->
// completed, with missed as the alternate terminal state and completed
// reachable directly from waiting (ending an unanswered call still
// finalizes it).
type ConsultationService struct {
	consultations *repository.ConsultationRepository
	appointments  *repository.AppointmentRepository
}

func NewConsultationService(consultations *repository.ConsultationRepository, appointments *repository.AppointmentRepository) *ConsultationService {
	return &ConsultationService{consultations: consultations, appointments: appointments}
}

// Start begins (or resumes) the consultation for an approved appointment.
// Starting consumes the appointment: it transitions to completed
// immediately, whether or not the call ever connects. An in-progress
// session is looked up before the status precondition so a doctor
// double-clicking start, or reloading mid-call, gets the same session back
// even though the appointment has already flipped to completed.
func (s *ConsultationService) Start(appointmentID, doctorID uint) (*models.Consultation, error) {
	appt, err := s.appointments.GetByID(appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	if appt.DoctorID != doctorID {
		return nil, ErrNotYourAppointment
	}

	existing, err := s.consultations.FindInProgressByAppointment(appointmentID)
	if err == nil {
		return s.consultations.FindByID(existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !appt.IsApproved() {
		return nil, &InvalidStateError{
			Current: appt.Status,
			Reason:  fmt.Sprintf("appointment is %s; it must be approved before a consultation can start", appt.Status),
		}
	}

	session, _, err := s.consultations.CreateIfAbsent(appointmentID, appt.PatientID, appt.DoctorID)
	if err != nil {
		return nil, err
	}
	// Conditional write keeps this idempotent and self-healing: a crash
	// between session create and this update is repaired by the next start,
	// and the appointment is never marked completed twice.
	if _, err := s.appointments.UpdateStatusIf(appointmentID, domain.AppointmentApproved, domain.AppointmentCompleted); err != nil {
		return nil, err
	}
	return s.consultations.FindByID(session.ID)
}

// ActiveForUser returns the caller's in-progress sessions, most recent
// first. Clients call this on load to resume UI state after a refresh.
func (s *ConsultationService) ActiveForUser(userID uint, role string) ([]models.Consultation, error) {
	return s.consultations.ListInProgressForUser(userID, role)
}

// End finalizes the session. Either participant may end unilaterally, from
// waiting or active. Ending an already-terminal session is rejected rather
// than silently recomputing the duration.
func (s *ConsultationService) End(sessionID, userID uint) (*models.Consultation, error) {
	session, err := s.consultations.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	if userID != session.DoctorID && userID != session.PatientID {
		return nil, ErrNotParticipant
	}
	if !session.InProgress() {
		return nil, &InvalidStateError{
			Current: session.Status,
			Reason:  fmt.Sprintf("consultation is already %s", session.Status),
		}
	}
	endedAt := time.Now()
	duration := 0
	if !session.StartedAt.IsZero() {
		duration = int(math.Round(endedAt.Sub(session.StartedAt).Seconds()))
	}
	err = s.consultations.Update(sessionID, map[string]interface{}{
		"status":           domain.ConsultationCompleted,
		"ended_at":         endedAt,
		"duration_seconds": duration,
	})
	if err != nil {
		return nil, err
	}
	return s.consultations.FindByID(sessionID)
}

// SaveNotes updates clinical notes and/or prescription text. Doctor only.
// A nil field is left unchanged. No status requirement: doctors commonly
// finish typing notes after the call has ended.
func (s *ConsultationService) SaveNotes(sessionID, doctorID uint, notes, prescription *string) (*models.Consultation, error) {
	session, err := s.consultations.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsultationNotFound
		}
		return nil, err
	}
	if session.DoctorID != doctorID {
		return nil, ErrNotSessionDoctor
	}
	fields := map[string]interface{}{}
	if notes != nil {
		fields["notes"] = *notes
	}
	if prescription != nil {
		fields["prescription"] = *prescription
	}
	if len(fields) == 0 {
		return session, nil
	}
	if err := s.consultations.Update(sessionID, fields); err != nil {
		return nil, err
	}
	return s.consultations.FindByID(sessionID)
}

// RunMissedSweeper periodically flips waiting sessions older than
// ringTimeout to missed. Blocks until ctx is cancelled; callers run it in a
// goroutine. A zero ringTimeout disables the sweeper and unanswered calls
// stay waiting until a participant ends them.
func (s *ConsultationService) RunMissedSweeper(ctx context.Context, ringTimeout, interval time.Duration) {
	if ringTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.consultations.MarkMissedBefore(time.Now().Add(-ringTimeout))
			if err != nil {
				log.Printf("[consultation] missed sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[consultation] marked %d unanswered sessions missed", n)
			}
		}
	}
}
