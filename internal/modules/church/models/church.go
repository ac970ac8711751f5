package models

import (
	"time"

	"github.com/google/uuid"
)

// Default assistant settings seeded with every new church.
const (
	DefaultAgentName        = "Assistente Virtual"
	DefaultAgentPersonality = "Amigável e prestativo"
)

type Church struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"type:text;not null" json:"name"`
	Address        string    `gorm:"type:text" json:"address"`
	PastorName     string    `gorm:"type:text" json:"pastorName"`
	PastorBio      string    `gorm:"type:text" json:"pastorBio"`
	ProfilePicture string    `gorm:"type:text" json:"profilePicture"`
	WebsiteURL     string    `gorm:"type:text" json:"websiteUrl"`
	InstagramURL   string    `gorm:"type:text" json:"instagramUrl"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Church) TableName() string {
	return "churches"
}

type ChurchRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Address        string `json:"address" validate:"max=300"`
	PastorName     string `json:"pastorName" validate:"required,max=200"`
	PastorBio      string `json:"pastorBio" validate:"max=4000"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,max=2048"`
	WebsiteURL     string `json:"websiteUrl" validate:"omitempty,url"`
	InstagramURL   string `json:"instagramUrl" validate:"omitempty,url"`
}

func (r *ChurchRequest) Apply(c *Church) error {
	c.Name = r.Name
	c.Address = r.Address
	c.PastorName = r.PastorName
	c.PastorBio = r.PastorBio
	c.ProfilePicture = r.ProfilePicture
	c.WebsiteURL = r.WebsiteURL
	c.InstagramURL = r.InstagramURL
	return nil
}

// ChurchUpdateRequest is a partial update; nil fields keep their value.
type ChurchUpdateRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address        *string `json:"address" validate:"omitempty,max=300"`
	PastorName     *string `json:"pastorName" validate:"omitempty,min=1,max=200"`
	PastorBio      *string `json:"pastorBio" validate:"omitempty,max=4000"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=2048"`
	WebsiteURL     *string `json:"websiteUrl" validate:"omitempty,url"`
	InstagramURL   *string `json:"instagramUrl" validate:"omitempty,url"`
}

func (r *ChurchUpdateRequest) Apply(c *Church) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Name, r.Name)
	set(&c.Address, r.Address)
	set(&c.PastorName, r.PastorName)
	set(&c.PastorBio, r.PastorBio)
	set(&c.ProfilePicture, r.ProfilePicture)
	set(&c.WebsiteURL, r.WebsiteURL)
	set(&c.InstagramURL, r.InstagramURL)
	return nil
}

// AgentSettings configures the assistant of one church.
type AgentSettings struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"churchId"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Personality string    `gorm:"type:text;not null" json:"personality"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (AgentSettings) TableName() string {
	return "agent_settings"
}

func DefaultAgentSettings(churchID uuid.UUID) *AgentSettings {
	return &AgentSettings{ChurchID: churchID, Name: DefaultAgentName, Personality: DefaultAgentPersonality}
}

type AgentSettingsRequest struct {
	Name        string `json:"name" validate:"required,max=80"`
	Personality string `json:"personality" validate:"required,max=200"`
}

func (r *AgentSettingsRequest) Apply(a *AgentSettings) error {
	a.Name = r.Name
	a.Personality = r.Personality
	return nil
}

// FinancialInfo holds donation details. Every field is optional.
type FinancialInfo struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ChurchID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"churchId"`
	Bank      string    `gorm:"type:text" json:"bank"`
	Branch    string    `gorm:"type:text" json:"branch"`
	Account   string    `gorm:"type:text" json:"account"`
	PixKey    string    `gorm:"type:text" json:"pixKey"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (FinancialInfo) TableName() string {
	return "financial_info"
}

type FinancialInfoRequest struct {
	Bank    string `json:"bank" validate:"max=120"`
	Branch  string `json:"branch" validate:"max=40"`
	Account string `json:"account" validate:"max=40"`
	PixKey  string `json:"pixKey" validate:"max=140"`
}

func (r *FinancialInfoRequest) Apply(f *FinancialInfo) error {
	f.Bank = r.Bank
	f.Branch = r.Branch
	f.Account = r.Account
	f.PixKey = r.PixKey
	return nil
}

// OnboardingSchedule is lenient: incomplete rows are skipped, not rejected.
type OnboardingSchedule struct {
	Day         string `json:"day"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

func (s OnboardingSchedule) Complete() bool {
	return s.Day != "" && s.Time != "" && s.Description != ""
}

type OnboardingRequest struct {
	Church        *ChurchRequest        `json:"church" validate:"omitempty"`
	AgentSettings *AgentSettingsRequest `json:"agentSettings" validate:"omitempty"`
	Schedules     []OnboardingSchedule  `json:"schedules"`
}

type OnboardingStatus struct {
	Completed bool `json:"completed"`
	HasChurch bool `json:"hasChurch"`
}
