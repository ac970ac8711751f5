package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/apperr"
)

const (
	SenderUser   = "user"
	SenderMember = "member"

	TagAgent     = "Agente"
	TagUrgent    = "Urgente"
	TagNewMember = "Novo Membro"
)

type Conversation struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Avatar      string     `json:"avatar"`
	LastMessage string     `json:"lastMessage"`
	Timestamp   string     `json:"timestamp"`
	UnreadCount int        `json:"unreadCount"`
	Tags        []string   `json:"tags"`
	SessionID   *uuid.UUID `json:"sessionId,omitempty"`
}

type ChatMessage struct {
	ID        int    `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

type inbox struct {
	conversations []*Conversation
	messages      map[int][]ChatMessage
	nextID        int
}

// HumanChat is the mocked human-desk inbox. Each church gets its own copy
// of the sample conversations on first use; conversations handed off by the
// assistant are added on top. Nothing is persisted.
type HumanChat struct {
	mu      sync.Mutex
	inboxes map[uuid.UUID]*inbox
	now     func() time.Time
}

func NewHumanChat() *HumanChat {
	return &HumanChat{inboxes: make(map[uuid.UUID]*inbox), now: time.Now}
}

func avatar(seed string) string {
	return "https://i.pravatar.cc/40?u=" + seed
}

func seedInbox() *inbox {
	in := &inbox{
		conversations: []*Conversation{
			{ID: 1, Name: "Ana Silva", Avatar: avatar("ana"), Timestamp: "10:45", UnreadCount: 2, Tags: []string{TagNewMember}},
			{ID: 2, Name: "Carlos Souza", Avatar: avatar("carlos"), Timestamp: "09:30", Tags: []string{TagUrgent}},
			{ID: 3, Name: "Beatriz Costa", Avatar: avatar("bia"), Timestamp: "Ontem", Tags: []string{}},
			{ID: 4, Name: "Daniel Martins", Avatar: avatar("dani"), Timestamp: "Sexta", Tags: []string{TagAgent}},
		},
		messages: map[int][]ChatMessage{
			1: {
				{ID: 1, Sender: SenderMember, Text: "Oi, tudo bem? Eu sou nova na igreja e gostaria de saber como funciona o batismo.", Timestamp: "10:40", Read: true},
				{ID: 2, Sender: SenderUser, Text: "Olá Ana, seja bem-vinda! Que alegria ter você conosco. O batismo é um passo lindo na caminhada cristã. Temos um encontro preparatório no próximo sábado. Você tem interesse?", Timestamp: "10:42", Read: true},
				{ID: 3, Sender: SenderMember, Text: "Tenho sim! Que ótimo!", Timestamp: "10:44"},
				{ID: 4, Sender: SenderMember, Text: "Precisa levar algo?", Timestamp: "10:45"},
			},
			2: {
				{ID: 1, Sender: SenderMember, Text: "Bom dia. Preciso falar com o pastor, por favor. É um assunto urgente.", Timestamp: "09:30", Read: true},
			},
			3: {
				{ID: 1, Sender: SenderMember, Text: "Consegui fazer a inscrição, muito obrigada pela ajuda!", Timestamp: "Ontem", Read: true},
			},
			4: {
				{ID: 1, Sender: SenderMember, Text: "Qual o endereço do evento de jovens?", Timestamp: "Sexta", Read: true},
				{ID: 2, Sender: SenderUser, Text: "O evento será no nosso salão principal, na Rua da Paz, 123. Esperamos você lá!", Timestamp: "Sexta", Read: true},
			},
		},
		nextID: 5,
	}
	for _, c := range in.conversations {
		msgs := in.messages[c.ID]
		c.LastMessage = msgs[len(msgs)-1].Text
	}
	return in
}

func (h *HumanChat) inboxFor(churchID uuid.UUID) *inbox {
	in, ok := h.inboxes[churchID]
	if !ok {
		in = seedInbox()
		h.inboxes[churchID] = in
	}
	return in
}

func (in *inbox) find(id int) (*Conversation, error) {
	for _, c := range in.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("Conversa não encontrada")
}

// Conversations lists the inbox, newest conversation first.
func (h *HumanChat) Conversations(churchID uuid.UUID) []Conversation {
	h.mu.Lock()
	defer h.mu.Unlock()

	in := h.inboxFor(churchID)
	out := make([]Conversation, 0, len(in.conversations))
	for _, c := range in.conversations {
		cp := *c
		cp.Tags = append([]string(nil), c.Tags...)
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out
}

// Messages returns the thread and marks it read.
func (h *HumanChat) Messages(churchID uuid.UUID, conversationID int) ([]ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	in := h.inboxFor(churchID)
	c, err := in.find(conversationID)
	if err != nil {
		return nil, err
	}

	msgs := in.messages[conversationID]
	for i := range msgs {
		msgs[i].Read = true
	}
	c.UnreadCount = 0
	return append([]ChatMessage(nil), msgs...), nil
}

// Reply appends an operator message to the thread.
func (h *HumanChat) Reply(churchID uuid.UUID, conversationID int, text string) (*ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	in := h.inboxFor(churchID)
	c, err := in.find(conversationID)
	if err != nil {
		return nil, err
	}
	msg := in.append(c, SenderUser, text, h.now())
	return &msg, nil
}

// Escalate opens a conversation for a session the assistant handed off.
func (h *HumanChat) Escalate(churchID, sessionID uuid.UUID, text string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	in := h.inboxFor(churchID)
	sid := sessionID
	c := &Conversation{
		ID:        in.nextID,
		Name:      "Chat de teste " + sessionID.String()[:8],
		Avatar:    avatar(sessionID.String()),
		Tags:      []string{TagAgent},
		SessionID: &sid,
	}
	in.nextID++
	in.conversations = append(in.conversations, c)

	in.append(c, SenderMember, text, h.now())
	c.UnreadCount = 1
	return c.ID
}

func (in *inbox) append(c *Conversation, sender, text string, at time.Time) ChatMessage {
	msgs := in.messages[c.ID]
	msg := ChatMessage{
		ID:        len(msgs) + 1,
		Sender:    sender,
		Text:      text,
		Timestamp: at.Format("15:04"),
		Read:      sender == SenderUser,
	}
	in.messages[c.ID] = append(msgs, msg)
	c.LastMessage = text
	c.Timestamp = msg.Timestamp
	return msg
}
