package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/validation"
)

// ScheduleEntry is a recurring service.
type ScheduleEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID    uuid.UUID `gorm:"type:uuid;not null;index" json:"churchId"`
	Day         string    `gorm:"type:text;not null" json:"day"`
	Time        string    `gorm:"type:text;not null" json:"time"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ScheduleEntry) TableName() string {
	return "schedules"
}

func (s *ScheduleEntry) GetID() uuid.UUID {
	return s.ID
}

func (s *ScheduleEntry) SetChurchID(id uuid.UUID) {
	s.ChurchID = id
}

type ScheduleRequest struct {
	Day         string `json:"day" validate:"required,weekday"`
	Time        string `json:"time" validate:"required,hhmm"`
	Description string `json:"description" validate:"required,max=300"`
}

func (r *ScheduleRequest) Apply(s *ScheduleEntry) error {
	s.Day = r.Day
	s.Time = r.Time
	s.Description = r.Description
	return nil
}

// SpecialEvent is a one-off or multi-day event.
type SpecialEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"churchId"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Date        calendar.Date  `gorm:"type:date;not null" json:"date"`
	EndDate     *calendar.Date `gorm:"type:date" json:"endDate"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
}

func (SpecialEvent) TableName() string {
	return "special_events"
}

func (e *SpecialEvent) GetID() uuid.UUID {
	return e.ID
}

func (e *SpecialEvent) SetChurchID(id uuid.UUID) {
	e.ChurchID = id
}

type SpecialEventRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"required,date"`
	EndDate     string `json:"endDate" validate:"omitempty,date"`
}

func (r *SpecialEventRequest) Apply(e *SpecialEvent) error {
	start, err := calendar.Parse(r.Date)
	if err != nil {
		return validation.Invalid("date", "deve estar no formato YYYY-MM-DD")
	}

	var end *calendar.Date
	if r.EndDate != "" {
		d, err := calendar.Parse(r.EndDate)
		if err != nil {
			return validation.Invalid("endDate", "deve estar no formato YYYY-MM-DD")
		}
		if d.Before(start) {
			return validation.Invalid("endDate", "não pode ser anterior à data de início")
		}
		if !d.Equal(start) {
			end = &d
		}
	}

	e.Name = r.Name
	e.Description = r.Description
	e.Date = start
	e.EndDate = end
	return nil
}

type FaqEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID  uuid.UUID `gorm:"type:uuid;not null;index" json:"churchId"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (FaqEntry) TableName() string {
	return "faqs"
}

func (f *FaqEntry) GetID() uuid.UUID {
	return f.ID
}

func (f *FaqEntry) SetChurchID(id uuid.UUID) {
	f.ChurchID = id
}

type FaqRequest struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=4000"`
}

func (r *FaqRequest) Apply(f *FaqEntry) error {
	f.Question = r.Question
	f.Answer = r.Answer
	return nil
}

type MinistryLeader struct {
	Name    string `json:"name" validate:"required,max=200"`
	Contact string `json:"contact" validate:"max=200"`
}

type MinistryActivity struct {
	Name     string `json:"name" validate:"required,max=200"`
	Day      string `json:"day" validate:"required,weekday"`
	Time     string `json:"time" validate:"required,hhmm"`
	Location string `json:"location" validate:"max=200"`
}

// Ministry owns its leaders and activities as ordered JSONB lists.
type Ministry struct {
	ID        uuid.UUID                             `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID  uuid.UUID                             `gorm:"type:uuid;not null;index" json:"churchId"`
	Name      string                                `gorm:"type:text;not null" json:"name"`
	Purpose   string                                `gorm:"type:text" json:"purpose"`
	Leaders   datatypes.JSONSlice[MinistryLeader]   `gorm:"type:jsonb;not null" json:"leaders"`
	Schedule  datatypes.JSONSlice[MinistryActivity] `gorm:"type:jsonb;not null" json:"schedule"`
	HowToJoin string                                `gorm:"type:text" json:"howToJoin"`
	CreatedAt time.Time                             `gorm:"autoCreateTime" json:"createdAt"`
}

func (Ministry) TableName() string {
	return "ministries"
}

func (m *Ministry) GetID() uuid.UUID {
	return m.ID
}

func (m *Ministry) SetChurchID(id uuid.UUID) {
	m.ChurchID = id
}

type MinistryRequest struct {
	Name      string             `json:"name" validate:"required,max=200"`
	Purpose   string             `json:"purpose" validate:"max=2000"`
	Leaders   []MinistryLeader   `json:"leaders" validate:"required,min=1,dive"`
	Schedule  []MinistryActivity `json:"schedule" validate:"required,min=1,dive"`
	HowToJoin string             `json:"howToJoin" validate:"max=2000"`
}

func (r *MinistryRequest) Apply(m *Ministry) error {
	m.Name = r.Name
	m.Purpose = r.Purpose
	m.Leaders = datatypes.NewJSONSlice(r.Leaders)
	m.Schedule = datatypes.NewJSONSlice(r.Schedule)
	m.HowToJoin = r.HowToJoin
	return nil
}

// PastoralAvailability is a weekly window when counseling may be booked.
type PastoralAvailability struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID  uuid.UUID `gorm:"type:uuid;not null;index" json:"churchId"`
	Day       string    `gorm:"type:text;not null" json:"day"`
	StartTime string    `gorm:"type:text;not null" json:"startTime"`
	EndTime   string    `gorm:"type:text;not null" json:"endTime"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (PastoralAvailability) TableName() string {
	return "pastoral_availability"
}

func (a *PastoralAvailability) GetID() uuid.UUID {
	return a.ID
}

func (a *PastoralAvailability) SetChurchID(id uuid.UUID) {
	a.ChurchID = id
}

type AvailabilityRequest struct {
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

func (r *AvailabilityRequest) Apply(a *PastoralAvailability) error {
	// HH:MM strings order like the times they denote.
	if r.EndTime <= r.StartTime {
		return validation.Invalid("endTime", "deve ser posterior ao horário de início")
	}
	a.Day = r.Day
	a.StartTime = r.StartTime
	a.EndTime = r.EndTime
	return nil
}

// UploadedFile references a document; its content is stored elsewhere.
type UploadedFile struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"churchId"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Reference  string    `gorm:"type:text;not null" json:"reference"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploadedAt"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}

func (f *UploadedFile) GetID() uuid.UUID {
	return f.ID
}

func (f *UploadedFile) SetChurchID(id uuid.UUID) {
	f.ChurchID = id
}

type UploadedFileRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Reference string `json:"reference" validate:"required,max=2048"`
}

func (r *UploadedFileRequest) Apply(f *UploadedFile) error {
	f.Name = r.Name
	f.Reference = r.Reference
	return nil
}
