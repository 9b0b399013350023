// Package dateparse adapts a natural-language date parser for the scheduling flow.
package dateparse

import (
	"log/slog"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// Parser resolves free-text date expressions to candidate instants.
// Implementations must bias ambiguous expressions toward the future.
type Parser interface {
	// Parse returns candidate instants for the expression, ordered by
	// preference. An empty slice means the expression was not understood.
	Parse(text string, ref time.Time) []time.Time
}

// NaturalParser implements Parser using future-biased natural-language parsing.
type NaturalParser struct{}

// NewNaturalParser creates the default parser.
func NewNaturalParser() *NaturalParser {
	return &NaturalParser{}
}

// spanishVocabulary rewrites the Spanish temporal expressions counterparts
// actually type onto the grammar the underlying parser understands. Longer
// phrases must come before the words they contain.
var spanishVocabulary = []struct{ es, en string }{
	{"pasado mañana", "2 days from now"},
	{"de la mañana", "am"},
	{"de la madrugada", "am"},
	{"de la tarde", "pm"},
	{"de la noche", "pm"},
	{"mañana", "tomorrow"},
	{"hoy", "today"},
	{"mediodía", "noon"},
	{"mediodia", "noon"},
	{"medianoche", "midnight"},
	{"próximo", "next"},
	{"proximo", "next"},
	{"próxima", "next"},
	{"proxima", "next"},
	{"a las", "at"},
	{"a la", "at"},
	{"lunes", "monday"},
	{"martes", "tuesday"},
	{"miércoles", "wednesday"},
	{"miercoles", "wednesday"},
	{"jueves", "thursday"},
	{"viernes", "friday"},
	{"sábado", "saturday"},
	{"sabado", "saturday"},
	{"domingo", "sunday"},
}

// normalize lowercases the expression and translates Spanish temporal tokens
// at word boundaries. Definite articles are dropped so "el lunes" reads as
// "monday".
func normalize(text string) string {
	s := " " + strings.ToLower(strings.TrimSpace(text)) + " "
	for _, v := range spanishVocabulary {
		s = strings.ReplaceAll(s, " "+v.es+" ", " "+v.en+" ")
	}
	s = strings.ReplaceAll(s, " el ", " ")
	return strings.TrimSpace(s)
}

// Parse resolves text like "mañana a las 10am" or "tomorrow at 10am" relative
// to ref. Expressions without any temporal content produce no candidates.
func (p *NaturalParser) Parse(text string, ref time.Time) []time.Time {
	normalized := normalize(text)
	if normalized == "" {
		return nil
	}
	t, err := naturaldate.Parse(normalized, ref, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		slog.Debug("DateParser no candidates", "text", text, "normalized", normalized, "error", err)
		return nil
	}
	// The parser echoes the reference instant for inputs it silently ignored;
	// treat that as not understood rather than booking "right now".
	if t.Equal(ref) {
		slog.Debug("DateParser resolved to reference instant, discarding", "text", text)
		return nil
	}
	slog.Debug("DateParser resolved candidate", "text", text, "candidate", t)
	return []time.Time{t}
}
