// Package kb loads everything the assistant knows about a church.
package kb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

// Records is the raw row set of one church.
type Records struct {
	Church       models.Church
	Agent        *models.AgentSettings
	Schedules    []models.ScheduleEntry
	Events       []models.SpecialEvent
	FAQs         []models.FaqEntry
	Ministries   []models.Ministry
	Availability []models.PastoralAvailability
	Agenda       []models.PastoralAppointment
	Financial    *models.FinancialInfo
	Files        []models.UploadedFile
}

// Retriever implements assistant.SnapshotLoader over the church tables.
type Retriever struct {
	db *gorm.DB
}

func NewRetriever(db *gorm.DB) *Retriever {
	return &Retriever{db: db}
}

// Load reads every record of the church in one read-only transaction so the
// snapshot is consistent.
func (r *Retriever) Load(ctx context.Context, churchID uuid.UUID) (*assistant.Snapshot, error) {
	var rec Records

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec.Church, "id = ?", churchID).Error; err != nil {
			return err
		}

		var agent models.AgentSettings
		switch err := tx.First(&agent, "church_id = ?", churchID).Error; {
		case err == nil:
			rec.Agent = &agent
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var financial models.FinancialInfo
		switch err := tx.First(&financial, "church_id = ?", churchID).Error; {
		case err == nil:
			rec.Financial = &financial
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		lists := []struct {
			dest  interface{}
			order string
		}{
			{&rec.Schedules, "created_at"},
			{&rec.Events, "date"},
			{&rec.FAQs, "created_at"},
			{&rec.Ministries, "created_at"},
			{&rec.Availability, "created_at"},
			{&rec.Agenda, "date, time"},
			{&rec.Files, "uploaded_at"},
		}
		for _, l := range lists {
			if err := tx.Where("church_id = ?", churchID).Order(l.order).Find(l.dest).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Igreja não encontrada")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load church records: %w", err)
	}

	return ToSnapshot(&rec), nil
}

// ToSnapshot maps database rows onto the assistant's view of a church.
func ToSnapshot(rec *Records) *assistant.Snapshot {
	snap := &assistant.Snapshot{
		ChurchID: rec.Church.ID,
		Church: assistant.ChurchProfile{
			Name:           rec.Church.Name,
			Address:        rec.Church.Address,
			PastorName:     rec.Church.PastorName,
			PastorBio:      rec.Church.PastorBio,
			ProfilePicture: rec.Church.ProfilePicture,
			WebsiteURL:     rec.Church.WebsiteURL,
			InstagramURL:   rec.Church.InstagramURL,
		},
	}

	if rec.Agent != nil {
		snap.Agent = assistant.AgentSettings{Name: rec.Agent.Name, Personality: rec.Agent.Personality}
	}
	if rec.Financial != nil {
		snap.Financial = assistant.FinancialInfo{
			Bank:    rec.Financial.Bank,
			Branch:  rec.Financial.Branch,
			Account: rec.Financial.Account,
			PixKey:  rec.Financial.PixKey,
		}
	}

	for _, s := range rec.Schedules {
		snap.Schedules = append(snap.Schedules, assistant.ScheduleEntry{Day: s.Day, Time: s.Time, Description: s.Description})
	}
	for _, e := range rec.Events {
		snap.Events = append(snap.Events, assistant.SpecialEvent{
			Name:        e.Name,
			Description: e.Description,
			Date:        e.Date,
			EndDate:     e.EndDate,
		})
	}
	for _, f := range rec.FAQs {
		snap.FAQs = append(snap.FAQs, assistant.FaqEntry{Question: f.Question, Answer: f.Answer})
	}
	for _, m := range rec.Ministries {
		snap.Ministries = append(snap.Ministries, toMinistry(m))
	}
	for _, a := range rec.Availability {
		snap.Availability = append(snap.Availability, assistant.PastoralAvailability{
			Day:       a.Day,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
		})
	}
	for _, a := range rec.Agenda {
		snap.Agenda = append(snap.Agenda, assistant.PastoralAppointment{
			Date:       a.Date,
			Time:       a.Time,
			PersonName: a.PersonName,
			Subject:    a.Subject,
			Kind:       a.Kind,
		})
	}
	for _, f := range rec.Files {
		snap.Files = append(snap.Files, assistant.UploadedFile{Name: f.Name, UploadedAt: f.UploadedAt})
	}
	return snap
}

func toMinistry(m models.Ministry) assistant.Ministry {
	out := assistant.Ministry{Name: m.Name, Purpose: m.Purpose, HowToJoin: m.HowToJoin}
	for _, l := range m.Leaders {
		out.Leaders = append(out.Leaders, assistant.MinistryLeader{Name: l.Name, Contact: l.Contact})
	}
	for _, a := range m.Schedule {
		out.Schedule = append(out.Schedule, assistant.MinistryActivity{
			Name:     a.Name,
			Day:      a.Day,
			Time:     a.Time,
			Location: a.Location,
		})
	}
	return out
}
