package domain

const (
	RoleDoctor  = "DOCTOR"
	RolePatient = "PATIENT"
)

const (
	AppointmentPending   = "pending"
	AppointmentApproved  = "approved"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

// Consultation statuses. A session is "in progress" while waiting or
// active; completed and missed are terminal.
const (
	ConsultationWaiting   = "waiting"
	ConsultationActive    = "active"
	ConsultationCompleted = "completed"
	ConsultationMissed    = "missed"
)

// InProgressStatuses is the set used by every in-progress lookup.
var InProgressStatuses = []string{ConsultationWaiting, ConsultationActive}

const (
	NotifAppointmentBooked    = "APPOINTMENT_BOOKED"
	NotifAppointmentApproved  = "APPOINTMENT_APPROVED"
	NotifAppointmentCancelled = "APPOINTMENT_CANCELLED"
	NotifIncomingCall         = "INCOMING_CALL"
	NotifPrescriptionIssued   = "PRESCRIPTION_ISSUED"
)
