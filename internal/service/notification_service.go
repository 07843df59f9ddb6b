package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"telecare/internal/domain"
	"telecare/internal/models"
	"telecare/internal/repository"
)

type NotificationService struct {
	repo     *repository.NotificationRepository
	userRepo *repository.UserRepository
	fcm      *FCMService
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		return err
	}
	s.sendPush(userID, title, body, data)
	return nil
}

func (s *NotificationService) sendPush(userID uint, title, body string, data map[string]interface{}) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil || u.FCMToken == "" {
		return
	}
	push := make(map[string]string, len(data))
	for k, v := range data {
		push[k] = fmt.Sprint(v)
	}
	_ = s.fcm.Send(context.Background(), u.FCMToken, title, body, push)
}

func (s *NotificationService) NotifyAppointmentBooked(doctorID uint, patientName string, appointmentID uint) error {
	return s.Notify(doctorID, domain.NotifAppointmentBooked, "New appointment request",
		patientName+" requested an appointment",
		map[string]interface{}{"appointment_id": appointmentID})
}

func (s *NotificationService) NotifyAppointmentApproved(patientID uint, doctorName string, appointmentID uint) error {
	return s.Notify(patientID, domain.NotifAppointmentApproved, "Appointment approved",
		"Dr. "+doctorName+" approved your appointment",
		map[string]interface{}{"appointment_id": appointmentID})
}

func (s *NotificationService) NotifyAppointmentCancelled(userID uint, byName string, appointmentID uint) error {
	return s.Notify(userID, domain.NotifAppointmentCancelled, "Appointment cancelled",
		byName+" cancelled the appointment",
		map[string]interface{}{"appointment_id": appointmentID})
}

func (s *NotificationService) NotifyPrescriptionIssued(patientID uint, doctorName string, prescriptionID uint) error {
	return s.Notify(patientID, domain.NotifPrescriptionIssued, "New prescription",
		"Dr. "+doctorName+" issued you a prescription",
		map[string]interface{}{"prescription_id": prescriptionID})
}

// NotifyMissedCall implements ws.MissedCallNotifier: the callee had no live
// signaling connection, so the ring is delivered as a stored notification
// plus a push, letting their device prompt them to rejoin.
func (s *NotificationService) NotifyMissedCall(calleeID, callerID uint, callerName string, consultationID uint) {
	if callerName == "" {
		callerName = "User " + strconv.FormatUint(uint64(callerID), 10)
	}
	_ = s.Notify(calleeID, domain.NotifIncomingCall, "Incoming video call",
		callerName+" is calling you",
		map[string]interface{}{
			"caller_id":       callerID,
			"consultation_id": consultationID,
		})
}
