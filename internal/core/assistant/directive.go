package assistant

import (
	"regexp"
	"strings"
)

// Markers the model embeds in its replies.
const (
	MarkerHandoff     = "HUMAN_HANDOFF:"
	MarkerAppointment = "AGENDA_MARCADA:"
	MarkerPrayer      = "ORACAO_REGISTRADA:"
)

// DefaultHandoffMessage is shown when the model emits a bare handoff marker.
const DefaultHandoffMessage = "A conversa será transferida para um de nossos atendentes."

var (
	appointmentRe = regexp.MustCompile(`AGENDA_MARCADA:\s*([^;]+);\s*([^;]+);\s*(\d{4}-\d{2}-\d{2});\s*(\d{2}:\d{2})`)
	// The reason runs to the end of its line and may itself contain ';'.
	prayerRe = regexp.MustCompile(`ORACAO_REGISTRADA:\s*([^;\n]+);([^;\n]*);([^\n]+)`)
)

type DirectiveKind string

const (
	DirectiveNone        DirectiveKind = ""
	DirectiveHandoff     DirectiveKind = "handoff"
	DirectiveAppointment DirectiveKind = "appointment"
	DirectivePrayer      DirectiveKind = "prayer"
)

type AppointmentDirective struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type PrayerDirective struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Reason  string `json:"reason"`
}

// Directive is the single action found in a reply. Only the field matching
// Kind is set.
type Directive struct {
	Kind           DirectiveKind         `json:"kind"`
	HandoffMessage string                `json:"handoffMessage,omitempty"`
	Appointment    *AppointmentDirective `json:"appointment,omitempty"`
	Prayer         *PrayerDirective      `json:"prayer,omitempty"`
}

func (d Directive) IsNone() bool {
	return d.Kind == DirectiveNone
}

// ExtractDirective looks for at most one directive, in the order handoff,
// appointment, prayer. A reply without a well-formed marker yields a
// Directive of kind DirectiveNone.
func ExtractDirective(reply string) Directive {
	if msg, ok := ExtractHandoff(reply); ok {
		return Directive{Kind: DirectiveHandoff, HandoffMessage: msg}
	}
	if a, ok := ExtractAppointment(reply); ok {
		return Directive{Kind: DirectiveAppointment, Appointment: &a}
	}
	if p, ok := ExtractPrayer(reply); ok {
		return Directive{Kind: DirectivePrayer, Prayer: &p}
	}
	return Directive{}
}

// ExtractHandoff matches replies that begin with the handoff marker. Leading
// whitespace and a wrapping quote or backtick are tolerated.
func ExtractHandoff(reply string) (string, bool) {
	s := strings.TrimSpace(reply)
	quote := ""
	if strings.HasPrefix(s, "`") || strings.HasPrefix(s, `"`) {
		quote = s[:1]
		s = s[1:]
	}
	if !strings.HasPrefix(s, MarkerHandoff) {
		return "", false
	}

	msg := strings.TrimSpace(strings.TrimPrefix(s, MarkerHandoff))
	if quote != "" {
		msg = strings.TrimSpace(strings.TrimSuffix(msg, quote))
	}
	if msg == "" {
		msg = DefaultHandoffMessage
	}
	return msg, true
}

func ExtractAppointment(reply string) (AppointmentDirective, bool) {
	m := appointmentRe.FindStringSubmatch(reply)
	if m == nil {
		return AppointmentDirective{}, false
	}

	a := AppointmentDirective{
		Name:    strings.TrimSpace(m[1]),
		Subject: strings.TrimSpace(m[2]),
		Date:    strings.TrimSpace(m[3]),
		Time:    strings.TrimSpace(m[4]),
	}
	if a.Name == "" || a.Subject == "" {
		return AppointmentDirective{}, false
	}
	return a, true
}

// ExtractPrayer matches the prayer marker. The contact may be blank since it
// is optional for the person asking; name and reason may not.
func ExtractPrayer(reply string) (PrayerDirective, bool) {
	loc := prayerRe.FindStringSubmatchIndex(reply)
	if loc == nil {
		return PrayerDirective{}, false
	}

	group := func(n int) string {
		return strings.TrimSpace(reply[loc[2*n]:loc[2*n+1]])
	}

	p := PrayerDirective{
		Name:    group(1),
		Contact: group(2),
		Reason:  group(3),
	}

	// A directive quoted as in the instruction example closes with the same quote.
	if start := loc[0]; start > 0 {
		if q := reply[start-1]; q == '"' || q == '`' {
			p.Reason = strings.TrimSpace(strings.TrimSuffix(p.Reason, string(q)))
		}
	}

	if p.Name == "" || p.Reason == "" {
		return PrayerDirective{}, false
	}
	return p, true
}
