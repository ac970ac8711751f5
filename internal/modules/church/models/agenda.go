package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

const prayerSubjectRunes = 30

// PastoralAppointment is an agenda entry. Prayer follow-ups carry the
// assistant.NoTime sentinel and never block a counseling slot.
type PastoralAppointment struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID        uuid.UUID                 `gorm:"type:uuid;not null;index" json:"churchId"`
	Date            calendar.Date             `gorm:"type:date;not null" json:"date"`
	Time            string                    `gorm:"type:text;not null" json:"time"`
	PersonName      string                    `gorm:"type:text;not null" json:"personName"`
	Subject         string                    `gorm:"type:text;not null" json:"subject"`
	Kind            assistant.AppointmentKind `gorm:"type:text;not null" json:"kind"`
	PrayerRequestID *uuid.UUID                `gorm:"type:uuid;uniqueIndex" json:"prayerRequestId,omitempty"`
	CreatedAt       time.Time                 `gorm:"autoCreateTime" json:"createdAt"`
}

func (PastoralAppointment) TableName() string {
	return "pastoral_appointments"
}

func (a *PastoralAppointment) GetID() uuid.UUID {
	return a.ID
}

func (a *PastoralAppointment) SetChurchID(id uuid.UUID) {
	a.ChurchID = id
}

// OccupiesSlot reports whether the appointment blocks its date and time.
func (a *PastoralAppointment) OccupiesSlot() bool {
	return a.Kind == assistant.KindCounseling
}

type AppointmentRequest struct {
	Date       string `json:"date" validate:"required,date"`
	Time       string `json:"time" validate:"required,hhmm"`
	PersonName string `json:"personName" validate:"required,max=200"`
	Subject    string `json:"subject" validate:"required,max=300"`
}

// Apply writes a counseling appointment. Prayer follow-ups are only created
// together with their prayer request.
func (r *AppointmentRequest) Apply(a *PastoralAppointment) error {
	date, err := calendar.Parse(r.Date)
	if err != nil {
		return err
	}
	a.Date = date
	a.Time = r.Time
	a.PersonName = r.PersonName
	a.Subject = r.Subject
	a.Kind = assistant.KindCounseling
	return nil
}

type PrayerRequest struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"churchId"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Contact     string        `gorm:"type:text" json:"contact"`
	Reason      string        `gorm:"type:text;not null" json:"reason"`
	RequestDate calendar.Date `gorm:"type:date;not null" json:"date"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"createdAt"`
}

func (PrayerRequest) TableName() string {
	return "prayer_requests"
}

func (p *PrayerRequest) GetID() uuid.UUID {
	return p.ID
}

func (p *PrayerRequest) SetChurchID(id uuid.UUID) {
	p.ChurchID = id
}

type PrayerRequestRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Contact string `json:"contact" validate:"max=200"`
	Reason  string `json:"reason" validate:"required,max=2000"`
}

func (r *PrayerRequestRequest) Apply(p *PrayerRequest) error {
	p.Name = r.Name
	p.Contact = r.Contact
	p.Reason = r.Reason
	return nil
}

// FollowUpFor builds the agenda entry every prayer request carries: same
// church and day, no time, subject derived from the reason.
func FollowUpFor(p *PrayerRequest) *PastoralAppointment {
	id := p.ID
	return &PastoralAppointment{
		ChurchID:        p.ChurchID,
		Date:            p.RequestDate,
		Time:            assistant.NoTime,
		PersonName:      p.Name,
		Subject:         PrayerSubject(p.Reason),
		Kind:            assistant.KindPrayerFollowUp,
		PrayerRequestID: &id,
	}
}

// PrayerSubject is "Pedido de oração: " plus the first 30 characters of the
// reason, with an ellipsis when the reason is longer.
func PrayerSubject(reason string) string {
	subject := "Pedido de oração: "
	if utf8.RuneCountInString(reason) <= prayerSubjectRunes {
		return subject + reason
	}
	return subject + string([]rune(reason)[:prayerSubjectRunes]) + "..."
}
