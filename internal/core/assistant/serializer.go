package assistant

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MuhamadAgungGumelar/church-ai-agent-be/internal/shared/calendar"
)

// Placeholders rendered in place of empty collections.
const (
	NoSchedules    = "Nenhuma programação fixa cadastrada."
	NoEvents       = "Nenhum evento especial agendado."
	NoFAQs         = "Nenhuma pergunta frequente cadastrada."
	NoAvailability = "O pastor não definiu horários de atendimento no momento."
	NoAgenda       = "Nenhum horário agendado no momento."
	NoFinancial    = "As informações para doações não foram cadastradas."
	NoMinistries   = "Nenhum ministério cadastrado."
	NoLeaders      = "Nenhum líder cadastrado."
	NoActivities   = "Nenhuma atividade cadastrada."
)

const (
	notInformedM = "Não informado"
	notInformedF = "Não informada"

	defaultAgentName   = "Assistente Virtual"
	defaultPersonality = "Amigável e prestativo"
)

const protocolBlock = `--- PROTOCOLOS DE AÇÃO ---

## PERMISSÃO DE AGENDAMENTO
Você TEM permissão para agendar aconselhamentos. Cada aconselhamento dura EXATAMENTE 1 HORA. Ao receber um pedido, converse com o usuário para obter o nome da pessoa, o assunto, o dia e o horário desejado (baseado na disponibilidade). Antes de confirmar, VERIFIQUE a lista de 'Horários já agendados' para evitar conflitos. Itens marcados como "Pedido de oração" NÃO bloqueiam o horário. Você PODE marcar um aconselhamento no mesmo dia de um pedido de oração. Apenas horários marcados como "ocupado para aconselhamento" criam conflito. Após confirmar TODOS os dados e verificar que não há conflito, finalize a conversa com a frase EXATA e em uma única mensagem:
"AGENDA_MARCADA: [Nome da Pessoa]; [Assunto]; [YYYY-MM-DD]; [HH:MM]"
Substitua os colchetes com os dados reais. Ex: "Ok, agendado para você. AGENDA_MARCADA: Maria Silva; Oração; 2024-10-28; 15:00"

## PEDIDOS DE ORAÇÃO
Você PODE receber pedidos de oração. Se alguém pedir oração, seja empático e peça o nome da pessoa, um contato (telefone ou email, que é opcional) e o motivo da oração. Após obter os dados, finalize com a frase EXATA em uma única mensagem, sempre como a última linha da resposta:
"ORACAO_REGISTRADA: [Nome da Pessoa]; [Contato]; [Motivo da Oração]"
Exemplo: "Entendido. Estaremos orando por você. ORACAO_REGISTRADA: Carlos; carlos@email.com; Saúde da família"

## PROTOCOLO DE ATENDIMENTO HUMANO
Se o usuário expressar um desejo claro de falar com uma pessoa, pastor, ou qualquer atendente humano (ex: "quero falar com um humano", "posso falar com alguém?"), sua ÚNICA resposta deve ser a frase EXATA: ` + "`HUMAN_HANDOFF: A conversa será transferida para um de nossos atendentes.`" + ` Não adicione mais nada à resposta.`

const behaviourBlock = `--- REGRAS DE COMPORTAMENTO ---
- Sempre responda em português do Brasil.
- Mantenha o tom definido pela sua personalidade.
- Se não souber a resposta, diga que não tem a informação e que a pessoa pode contatar a secretaria da igreja.
- Não invente informações. Baseie-se APENAS na base de conhecimento fornecida.
- Se a pergunta for sobre um assunto que não está na sua base de conhecimento, você pode usar a busca do Google para encontrar a informação. Sempre cite as fontes encontradas.
- Para agendamentos e pedidos de oração, siga ESTRITAMENTE o formato de saída definido.
`

// Serializer renders a Snapshot into the grounding context handed to the
// provider as its system instruction.
type Serializer struct {
	// MaxChars caps the context length in runes; zero means no cap. Over the
	// cap, uploaded-file references are dropped oldest first. Church records
	// are never cut, so the result may still exceed the cap.
	MaxChars int
}

// Grounding is a rendered context plus what had to be left out of it.
type Grounding struct {
	Text         string
	DroppedFiles int
}

func (s Serializer) Build(snap *Snapshot) Grounding {
	files := make([]UploadedFile, len(snap.Files))
	copy(files, snap.Files)
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].UploadedAt.Before(files[j].UploadedAt)
	})

	text := render(snap, files)
	dropped := 0
	for s.MaxChars > 0 && utf8.RuneCountInString(text) > s.MaxChars && len(files) > 0 {
		files = files[1:]
		dropped++
		text = render(snap, files)
	}

	return Grounding{Text: text, DroppedFiles: dropped}
}

func render(snap *Snapshot, files []UploadedFile) string {
	var sb strings.Builder

	agentName := orDefault(snap.Agent.Name, defaultAgentName)
	personality := orDefault(snap.Agent.Personality, defaultPersonality)

	fmt.Fprintf(&sb, "Você é \"%s\", um assistente de IA para a igreja \"%s\".\n", agentName, orDefault(snap.Church.Name, notInformedM))
	fmt.Fprintf(&sb, "Sua personalidade definida é: \"%s\".\n", personality)
	sb.WriteString("Seu objetivo é responder às perguntas dos membros da igreja de forma humana e precisa, mantendo o contexto da conversa.\n\n")

	sb.WriteString("--- BASE DE CONHECIMENTO ---\n\n")

	sb.WriteString("## Informações Gerais\n")
	fmt.Fprintf(&sb, "- Nome da Igreja: %s\n", orDefault(snap.Church.Name, notInformedM+"."))
	fmt.Fprintf(&sb, "- Pastor Responsável: %s\n", orDefault(snap.Church.PastorName, notInformedM+"."))
	fmt.Fprintf(&sb, "- Biografia do Pastor: %s\n", orDefault(snap.Church.PastorBio, notInformedF+"."))
	fmt.Fprintf(&sb, "- Endereço da Igreja: %s\n", orDefault(snap.Church.Address, notInformedM+"."))
	if snap.Church.WebsiteURL != "" {
		fmt.Fprintf(&sb, "O site oficial da igreja é %s. Você tem permissão para usar sua ferramenta de busca para consultar este site se a resposta não estiver na base de conhecimento.\n", snap.Church.WebsiteURL)
	}
	if snap.Church.InstagramURL != "" {
		fmt.Fprintf(&sb, "O perfil oficial da igreja no Instagram é %s. Você pode recomendá-lo para os membros se manterem atualizados.\n", snap.Church.InstagramURL)
	}
	if len(files) > 0 {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name
		}
		fmt.Fprintf(&sb, "Você também tem acesso aos seguintes documentos para consulta: %s.\n", strings.Join(names, ", "))
	}
	sb.WriteString("\n")

	sb.WriteString("## Ministérios\n")
	sb.WriteString(ministriesText(snap.Ministries))
	sb.WriteString("\n\n")

	sb.WriteString("## Programação e Eventos\n")
	sb.WriteString("- Programação Fixa:\n")
	sb.WriteString(schedulesText(snap.Schedules))
	sb.WriteString("\n- Eventos Especiais:\n")
	sb.WriteString(eventsText(snap.Events))
	sb.WriteString("\n\n")

	sb.WriteString("## Perguntas Frequentes (FAQ)\n")
	sb.WriteString(faqsText(snap.FAQs))
	sb.WriteString("\n\n")

	sb.WriteString("## Agenda Pastoral (Aconselhamento)\n")
	sb.WriteString("- Horários disponíveis do pastor:\n")
	sb.WriteString(availabilityText(snap.Availability))
	sb.WriteString("\n- Horários já agendados:\n")
	sb.WriteString(agendaText(snap.Agenda))
	sb.WriteString("\n\n")

	sb.WriteString("## Doações (Dízimos e Ofertas)\n")
	sb.WriteString(financialText(snap.Financial))
	sb.WriteString("\n\n")

	sb.WriteString(protocolBlock)
	sb.WriteString("\n\n\n")
	sb.WriteString(behaviourBlock)

	return sb.String()
}

func ministriesText(ministries []Ministry) string {
	if len(ministries) == 0 {
		return NoMinistries
	}

	blocks := make([]string, 0, len(ministries))
	for _, m := range ministries {
		var sb strings.Builder
		fmt.Fprintf(&sb, "### Ministério: %s\n", m.Name)
		fmt.Fprintf(&sb, "- Propósito: %s\n", m.Purpose)

		if len(m.Leaders) == 0 {
			fmt.Fprintf(&sb, "- Líderes: %s\n", NoLeaders)
		} else {
			leaders := make([]string, len(m.Leaders))
			for i, l := range m.Leaders {
				leaders[i] = fmt.Sprintf("%s (Contato: %s)", l.Name, orDefault(l.Contact, notInformedM))
			}
			fmt.Fprintf(&sb, "- Líderes: %s\n", strings.Join(leaders, ", "))
		}

		sb.WriteString("- Programação:\n")
		if len(m.Schedule) == 0 {
			fmt.Fprintf(&sb, "  - %s\n", NoActivities)
		}
		for _, a := range m.Schedule {
			fmt.Fprintf(&sb, "  - %s: %s às %s no(a) %s.\n", a.Name, a.Day, a.Time, a.Location)
		}

		fmt.Fprintf(&sb, "- Como Participar: %s", m.HowToJoin)
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}

func schedulesText(schedules []ScheduleEntry) string {
	if len(schedules) == 0 {
		return NoSchedules
	}

	sorted := make([]ScheduleEntry, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := calendar.WeekdayIndex(sorted[i].Day), calendar.WeekdayIndex(sorted[j].Day)
		if di != dj {
			return di < dj
		}
		return sorted[i].Time < sorted[j].Time
	})

	lines := make([]string, len(sorted))
	for i, s := range sorted {
		lines[i] = fmt.Sprintf("- %s: Toda %s às %s.", s.Description, s.Day, s.Time)
	}
	return strings.Join(lines, "\n")
}

func eventsText(events []SpecialEvent) string {
	if len(events) == 0 {
		return NoEvents
	}

	sorted := make([]SpecialEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	lines := make([]string, len(sorted))
	for i, e := range sorted {
		if e.EndDate != nil && !e.EndDate.IsZero() {
			lines[i] = fmt.Sprintf("- %s (Data: de %s a %s): %s", e.Name, e.Date.BR(), e.EndDate.BR(), sentence(e.Description))
			continue
		}
		lines[i] = fmt.Sprintf("- %s (Data: %s): %s", e.Name, e.Date.BR(), sentence(e.Description))
	}
	return strings.Join(lines, "\n")
}

func faqsText(faqs []FaqEntry) string {
	if len(faqs) == 0 {
		return NoFAQs
	}

	blocks := make([]string, len(faqs))
	for i, f := range faqs {
		blocks[i] = fmt.Sprintf("P: %s\nR: %s", f.Question, f.Answer)
	}
	return strings.Join(blocks, "\n\n")
}

func availabilityText(slots []PastoralAvailability) string {
	if len(slots) == 0 {
		return NoAvailability
	}

	sorted := make([]PastoralAvailability, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return calendar.WeekdayIndex(sorted[i].Day) < calendar.WeekdayIndex(sorted[j].Day)
	})

	lines := make([]string, len(sorted))
	for i, a := range sorted {
		lines[i] = fmt.Sprintf("- %s: das %s às %s.", a.Day, a.StartTime, a.EndTime)
	}
	return strings.Join(lines, "\n")
}

func agendaText(agenda []PastoralAppointment) string {
	if len(agenda) == 0 {
		return NoAgenda
	}

	sorted := make([]PastoralAppointment, len(agenda))
	copy(sorted, agenda)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Time < sorted[j].Time
	})

	lines := make([]string, len(sorted))
	for i, a := range sorted {
		if a.OccupiesSlot() {
			lines[i] = fmt.Sprintf("- %s às %s: Horário ocupado para aconselhamento.", a.Date.BR(), a.Time)
			continue
		}
		lines[i] = fmt.Sprintf("- %s: Pedido de oração de %s. (Não bloqueia o horário para aconselhamento).", a.Date.BR(), a.PersonName)
	}
	return strings.Join(lines, "\n")
}

func financialText(f FinancialInfo) string {
	if !f.Configured() {
		return NoFinancial
	}

	var sb strings.Builder
	sb.WriteString("Se alguém perguntar como doar, ofertar ou entregar o dízimo, forneça as seguintes informações:\n")
	fmt.Fprintf(&sb, "- Banco: %s\n", orDefault(f.Bank, notInformedM))
	fmt.Fprintf(&sb, "- Agência: %s\n", orDefault(f.Branch, notInformedF))
	fmt.Fprintf(&sb, "- Conta: %s\n", orDefault(f.Account, notInformedF))
	fmt.Fprintf(&sb, "- Chave PIX: %s\n", orDefault(f.PixKey, notInformedF))
	sb.WriteString("Nunca peça valores. Apenas forneça os dados se for perguntado.")
	return sb.String()
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// sentence ends s with exactly one period.
func sentence(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".") + "."
}
