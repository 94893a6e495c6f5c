// Package topic enriches short legal topic labels with related vocabulary
// before they are tokenized for keyword search.
package topic

import "strings"

// Entry maps a topic key to the vocabulary appended when the key matches.
type Entry struct {
	Key       string `yaml:"key" json:"key"`
	Expansion string `yaml:"expansion" json:"expansion"`
}

// Expander is an ordered expansion table. The first entry whose key is a
// substring of the lowercased topic wins.
type Expander struct {
	entries []Entry
}

// NewExpander creates an expander over entries, in declaration order.
// Keys are lowercased; entries with a blank key are ignored.
func NewExpander(entries []Entry) *Expander {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		out = append(out, Entry{Key: key, Expansion: strings.TrimSpace(e.Expansion)})
	}
	return &Expander{entries: out}
}

// NewDefaultExpander uses the built-in legal vocabulary table.
func NewDefaultExpander() *Expander {
	return NewExpander(Default)
}

// Expand returns the topic followed by the matching entry's vocabulary, or
// the topic unchanged when no key matches.
func (e *Expander) Expand(topic string) string {
	entry, ok := e.Match(topic)
	if !ok {
		return topic
	}
	return topic + " " + entry.Expansion
}

// Match returns the first entry whose key occurs in the lowercased topic.
func (e *Expander) Match(topic string) (Entry, bool) {
	lower := strings.ToLower(topic)
	for _, entry := range e.entries {
		if strings.Contains(lower, entry.Key) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the table.
func (e *Expander) Entries() []Entry {
	return append([]Entry(nil), e.entries...)
}

// Default is the built-in expansion table. Order matters: a topic that
// contains several keys expands with the first one listed.
var Default = []Entry{
	{"contrato", "contrato obligaciones acuerdo convenio partes"},
	{"matrimonio", "matrimonio cónyuges divorcio separación familia"},
	{"herencia", "herencia sucesión testamento herederos legatarios"},
	{"despido", "despido terminación relación laboral trabajador patrono indemnización"},
	{"arrendamiento", "arrendamiento alquiler arrendatario arrendador renta"},
	{"propiedad", "propiedad dominio inmueble bienes posesión"},
	{"delito", "delito pena sanción penal culpable"},
	{"prescripción", "prescripción plazo caducidad término vencimiento"},
	{"obligación", "obligación deuda acreedor deudor pago"},
	{"sociedad", "sociedad mercantil socios capital acciones"},
	{"salario", "salario remuneración pago jornal compensación sueldo"},
	{"vacaciones", "vacaciones descanso licencia permiso"},
	{"aguinaldo", "aguinaldo décimo tercer mes sueldo adicional"},
	{"homicidio", "homicidio muerte matar vida"},
	{"robo", "robo hurto sustracción apoderamiento"},
	{"estafa", "estafa fraude engaño perjuicio patrimonial"},
	{"divorcio", "divorcio separación disolución vínculo matrimonial"},
	{"alimentos", "alimentos pensión alimentaria manutención"},
	{"daños", "daños perjuicios indemnización responsabilidad civil"},
	{"embargo", "embargo secuestro bienes ejecución"},
}
