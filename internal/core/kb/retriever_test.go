package kb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/core/assistant"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/modules/church/models"
	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

func TestToSnapshot(t *testing.T) {
	churchID := uuid.New()
	end := calendar.MustParse("2024-11-17")
	prayerID := uuid.New()
	rec := &Records{
		Church: models.Church{ID: churchID, Name: "Igreja Central", PastorName: "Pr. João", WebsiteURL: "https://ic.org"},
		Agent:  &models.AgentSettings{Name: "Ana", Personality: "Acolhedora"},
		Schedules: []models.ScheduleEntry{
			{Day: "Domingo", Time: "18:00", Description: "Culto da Família"},
		},
		Events: []models.SpecialEvent{
			{Name: "Conferência", Date: calendar.MustParse("2024-11-15"), EndDate: &end},
		},
		FAQs: []models.FaqEntry{{Question: "Tem café?", Answer: "Sim."}},
		Ministries: []models.Ministry{{
			Name:     "Louvor",
			Leaders:  datatypes.NewJSONSlice([]models.MinistryLeader{{Name: "Marcos", Contact: "11 9999"}}),
			Schedule: datatypes.NewJSONSlice([]models.MinistryActivity{{Name: "Ensaio", Day: "Sábado", Time: "15:00"}}),
		}},
		Availability: []models.PastoralAvailability{{Day: "Terça-feira", StartTime: "09:00", EndTime: "12:00"}},
		Agenda: []models.PastoralAppointment{{
			Date:            calendar.MustParse("2024-10-28"),
			Time:            assistant.NoTime,
			PersonName:      "Carlos",
			Subject:         "Pedido de oração: Saúde",
			Kind:            assistant.KindPrayerFollowUp,
			PrayerRequestID: &prayerID,
		}},
		Financial: &models.FinancialInfo{PixKey: "pix@ic.org"},
		Files:     []models.UploadedFile{{Name: "estatuto.pdf", UploadedAt: time.Unix(0, 0)}},
	}

	snap := ToSnapshot(rec)

	assert.Equal(t, churchID, snap.ChurchID)
	assert.Equal(t, "https://ic.org", snap.Church.WebsiteURL)
	assert.Equal(t, assistant.AgentSettings{Name: "Ana", Personality: "Acolhedora"}, snap.Agent)
	require.Len(t, snap.Ministries, 1)
	assert.Equal(t, []assistant.MinistryLeader{{Name: "Marcos", Contact: "11 9999"}}, snap.Ministries[0].Leaders)
	assert.Equal(t, "Sábado", snap.Ministries[0].Schedule[0].Day)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "2024-11-17", snap.Events[0].EndDate.String())
	require.Len(t, snap.Agenda, 1)
	assert.False(t, snap.Agenda[0].OccupiesSlot())
	assert.True(t, snap.Financial.Configured())
	assert.Equal(t, "estatuto.pdf", snap.Files[0].Name)

	text := assistant.Serializer{}.Build(snap).Text
	assert.Contains(t, text, "- Culto da Família: Toda Domingo às 18:00.")
	assert.Contains(t, text, "P: Tem café?\nR: Sim.")
}

func TestToSnapshot_MissingOptionalRows(t *testing.T) {
	snap := ToSnapshot(&Records{Church: models.Church{ID: uuid.New(), Name: "Nova"}})

	assert.Empty(t, snap.Agent.Name)
	assert.False(t, snap.Financial.Configured())

	text := assistant.Serializer{}.Build(snap).Text
	assert.Contains(t, text, assistant.NoSchedules)
	assert.Contains(t, text, assistant.NoFinancial)
}
