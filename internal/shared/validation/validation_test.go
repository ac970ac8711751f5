package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

type leader struct {
	Name string `json:"name" validate:"required"`
}

type sample struct {
	Email   string   `json:"email" validate:"required,email"`
	Day     string   `json:"day" validate:"required,weekday"`
	Time    string   `json:"time" validate:"required,hhmm"`
	Date    string   `json:"date" validate:"omitempty,date"`
	Leaders []leader `json:"leaders" validate:"min=1,dive"`
}

func valid() sample {
	return sample{
		Email:   "pastor@igreja.com",
		Day:     "Domingo",
		Time:    "19:30",
		Date:    "2024-10-28",
		Leaders: []leader{{Name: "Ana"}},
	}
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(valid()))
}

func TestStruct_FieldDetails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sample)
		field  string
	}{
		{"bad email", func(s *sample) { s.Email = "nope" }, "email"},
		{"unknown weekday", func(s *sample) { s.Day = "Monday" }, "day"},
		{"bad time", func(s *sample) { s.Time = "24:00" }, "time"},
		{"bad date", func(s *sample) { s.Date = "28/10/2024" }, "date"},
		{"no leaders", func(s *sample) { s.Leaders = nil }, "leaders"},
		{"empty leader", func(s *sample) { s.Leaders = []leader{{}} }, "leaders[0].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)

			err := Struct(s)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))

			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			details := appErr.Details.([]FieldError)
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
		})
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("endTime", "deve ser posterior ao início")

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, []FieldError{{Field: "endTime", Message: "deve ser posterior ao início"}}, appErr.Details)
}
