package booking

import "github.com/google/uuid"

// Identity is the tagged union of "who this booking is for": either a
// registered patient or a named guest, never both and never neither.
// Keeping the exclusivity inside the constructor pair means callers cannot
// build a half-filled value.
type Identity struct {
	patientID *uuid.UUID
	guestName string
}

func IdentifiedPatient(id uuid.UUID) Identity {
	return Identity{patientID: &id}
}

func Guest(name string) Identity {
	return Identity{guestName: name}
}

func (i Identity) PatientID() (uuid.UUID, bool) {
	if i.patientID == nil {
		return uuid.Nil, false
	}
	return *i.patientID, true
}

func (i Identity) GuestName() (string, bool) {
	if i.patientID != nil || i.guestName == "" {
		return "", false
	}
	return i.guestName, true
}

// Valid reports whether the identity carries exactly one variant.
func (i Identity) Valid() bool {
	return i.patientID != nil || i.guestName != ""
}

// Apply writes the identity onto the persisted columns.
func (i Identity) Apply(b *Booking) {
	if i.patientID != nil {
		b.PatientID = i.patientID
		return
	}
	b.GuestName = i.guestName
}
