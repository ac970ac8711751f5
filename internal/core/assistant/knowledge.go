// Package assistant turns a church's records into a grounding context,
// runs chat sessions against a text-generation provider and recognises the
// directives the model embeds in its replies.
package assistant

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

// AppointmentKind distinguishes counseling slots from prayer follow-ups.
type AppointmentKind string

const (
	KindCounseling     AppointmentKind = "Aconselhamento"
	KindPrayerFollowUp AppointmentKind = "Oração"
)

// NoTime is the time value of appointments that do not occupy a slot.
const NoTime = "N/A"

type ChurchProfile struct {
	Name           string
	Address        string
	PastorName     string
	PastorBio      string
	ProfilePicture string
	WebsiteURL     string
	InstagramURL   string
}

type AgentSettings struct {
	Name        string
	Personality string
}

type ScheduleEntry struct {
	Day         string
	Time        string
	Description string
}

type SpecialEvent struct {
	Name        string
	Description string
	Date        calendar.Date
	EndDate     *calendar.Date
}

type FaqEntry struct {
	Question string
	Answer   string
}

type MinistryLeader struct {
	Name    string
	Contact string
}

type MinistryActivity struct {
	Name     string
	Day      string
	Time     string
	Location string
}

type Ministry struct {
	Name      string
	Purpose   string
	Leaders   []MinistryLeader
	Schedule  []MinistryActivity
	HowToJoin string
}

type PastoralAvailability struct {
	Day       string
	StartTime string
	EndTime   string
}

type PastoralAppointment struct {
	Date       calendar.Date
	Time       string
	PersonName string
	Subject    string
	Kind       AppointmentKind
}

// OccupiesSlot reports whether the appointment blocks its time for counseling.
func (a PastoralAppointment) OccupiesSlot() bool {
	return a.Kind != KindPrayerFollowUp
}

type FinancialInfo struct {
	Bank    string
	Branch  string
	Account string
	PixKey  string
}

// Configured reports whether any donation field is filled in.
func (f FinancialInfo) Configured() bool {
	for _, v := range []string{f.Bank, f.Branch, f.Account, f.PixKey} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

type UploadedFile struct {
	Name       string
	UploadedAt time.Time
}

// Snapshot is everything the assistant knows about one church at one moment.
type Snapshot struct {
	ChurchID     uuid.UUID
	Church       ChurchProfile
	Agent        AgentSettings
	Schedules    []ScheduleEntry
	Events       []SpecialEvent
	FAQs         []FaqEntry
	Ministries   []Ministry
	Availability []PastoralAvailability
	Agenda       []PastoralAppointment
	Financial    FinancialInfo
	Files        []UploadedFile
}
