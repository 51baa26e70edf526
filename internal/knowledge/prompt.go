package knowledge

import (
	"fmt"
	"strings"
)

// Gesture vocabulary the model picks from. "talk1" doubles as the fallback
// gesture when the model output cannot be parsed.
const gestureVocabulary = "swingarm (przywitanie), goodbye, nod (zgoda), celebrate (radość), hug (spa), " +
	"shankhand (umowa), guideright/guideleft (kierunki), searching (sprawdzanie), surprise, shy, " +
	"fadai (myślenie), applause, talk1-8"

const languageRule = "JĘZYK: ZAWSZE odpowiadaj W TYM SAMYM JĘZYKU, w którym mówi użytkownik. " +
	"Jeśli mówi po angielsku — odpowiadaj po angielsku. Po rosyjsku — po rosyjsku. Po niemiecku — po niemiecku. " +
	"Automatycznie dopasuj się do języka gościa. Obsługiwane języki: pl, en, ru, de, cs, uk, fr."

const realtimeLanguageRule = "CRITICAL LANGUAGE RULE: You MUST detect the language the user speaks and " +
	"ALWAYS reply in that SAME language. If the guest speaks English — answer in English. Russian — answer " +
	"in Russian. German — in German. Never default to Polish if the guest speaks another language. " +
	"Supported: pl, en, ru, de, cs, uk, fr. Be EXTREMELY concise and brief - answer in 1-2 short sentences " +
	"maximum. Get straight to the point without unnecessary words or explanations."

// SystemPrompt builds the full concierge system prompt for chat completions.
// weather is an optional one-line enrichment appended last; an empty string
// leaves the prompt unchanged.
func (b *Base) SystemPrompt(weather string) string {
	var sb strings.Builder
	sb.WriteString(b.Context)

	rooms := make([]string, 0, len(b.Rooms))
	for _, r := range b.Rooms {
		rooms = append(rooms, fmt.Sprintf("%s (%s)", r.Type, r.Price))
	}
	fmt.Fprintf(&sb, "\n\nPOKOJE: %s", strings.Join(rooms, ", "))

	fmt.Fprintf(&sb, "\n\nRESTAURACJA (%s):\n", b.Restaurant.Hours)
	fmt.Fprintf(&sb, "Śniadanie %s: %s\n", b.Restaurant.Breakfast.Time, b.Restaurant.Breakfast.Price)
	fmt.Fprintf(&sb, "Lunch: %s\n", strings.Join(b.Restaurant.Lunch.Menu, "; "))
	fmt.Fprintf(&sb, "Kolacja: %s", strings.Join(b.Restaurant.Dinner.Specials, "; "))

	treatments := make([]string, 0, len(b.Spa.Treatments))
	for _, t := range b.Spa.Treatments {
		treatments = append(treatments, fmt.Sprintf("%s %s: %s", t.Name, t.Duration, t.Discount))
	}
	packages := make([]string, 0, len(b.Spa.Packages))
	for _, p := range b.Spa.Packages {
		packages = append(packages, fmt.Sprintf("%s %s", p.Name, p.Price))
	}
	fmt.Fprintf(&sb, "\n\nSPA (%s):\n%s\nPakiety: %s", b.Spa.Hours, strings.Join(treatments, "; "), strings.Join(packages, "; "))

	fmt.Fprintf(&sb, "\n\nFAQ: %s", b.faqText())

	sb.WriteString("\n\n" + languageRule)
	sb.WriteString("\n\nFORMAT JSON (bez markdown):\n{\"text\": \"odpowiedź\", \"gesture\": \"nazwa\", \"emotion\": \"emocja\"}")
	sb.WriteString("\n\nGESTY: " + gestureVocabulary)
	sb.WriteString("\n\nZACHOWANIE: Profesjonalny concierge. Używaj konkretnych danych (ceny, nazwy). " +
		"Symuluj rezerwacje (RES-2025-XXXX). Sugeruj dodatkowe usługi.")

	if weather != "" {
		sb.WriteString("\n\n" + weather)
	}
	return sb.String()
}

// RealtimeInstructions builds the terse instruction string used when minting
// an ephemeral realtime session. Spoken replies are kept to 1-2 sentences.
func (b *Base) RealtimeInstructions(weather string) string {
	var sb strings.Builder
	sb.WriteString(b.Context)
	fmt.Fprintf(&sb, "\n\nFAQ:\n%s", b.faqText())
	if weather != "" {
		sb.WriteString("\n\n" + weather)
	}
	sb.WriteString("\n\n" + realtimeLanguageRule)
	return sb.String()
}

func (b *Base) faqText() string {
	entries := make([]string, 0, len(b.FAQ))
	for _, item := range b.FAQ {
		entries = append(entries, fmt.Sprintf("Q: %s\nA: %s", item.Q, item.A))
	}
	return strings.Join(entries, "\n\n")
}
