// Package query turns a free-form legal question into knowledge base
// lookups: explicit article references, a code hint and topic labels.
package query

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxRangeSpan is the widest "artículos X al Y" range that is expanded.
const MaxRangeSpan = 20

// Reference is an article number mentioned in a query. CodeHint is empty
// when the query names no code.
type Reference struct {
	Number   int    `json:"number"`
	CodeHint string `json:"code_hint,omitempty"`
}

var (
	singleRef = regexp.MustCompile(`(?i)(?:art[ií]culos?|arts?\.?)\s*(\d+)`)
	rangeRef  = regexp.MustCompile(`(?i)(?:art[ií]culos?|arts?\.?)\s*(\d+)\s*(?:al|a|hasta)\s*(\d+)`)
)

// Hint maps a keyword found in the query to a code id.
type Hint struct {
	Keyword string
	CodeID  string
}

// CodeHints is checked in order; the first keyword contained in the
// lowercased query wins. Longer keywords come first so "procesal penal"
// is not taken for "penal".
var CodeHints = []Hint{
	{"procesal penal", "codigo-procesal-penal"},
	{"procesal", "codigo-procesal-penal"},
	{"civil", "codigo-civil"},
	{"comercio", "codigo-comercio"},
	{"penal", "codigo-penal"},
	{"trabajo", "codigo-trabajo"},
	{"laboral", "codigo-trabajo"},
}

// ExtractReferences finds article numbers in q, in order of appearance,
// followed by the members of any short range. The detected code hint, if
// any, applies to every reference.
func ExtractReferences(q string) []Reference {
	var refs []Reference
	for _, m := range singleRef.FindAllStringSubmatch(q, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			refs = append(refs, Reference{Number: n})
		}
	}

	for _, m := range rangeRef.FindAllStringSubmatch(q, -1) {
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil || end-start > MaxRangeSpan {
			continue
		}
		for n := start; n <= end; n++ {
			if !hasNumber(refs, n) {
				refs = append(refs, Reference{Number: n})
			}
		}
	}

	if hint := DetectCode(q); hint != "" {
		for i := range refs {
			refs[i].CodeHint = hint
		}
	}
	return refs
}

// DetectCode returns the code id hinted at by q, or "".
func DetectCode(q string) string {
	lower := strings.ToLower(q)
	for _, h := range CodeHints {
		if strings.Contains(lower, h.Keyword) {
			return h.CodeID
		}
	}
	return ""
}

func hasNumber(refs []Reference, n int) bool {
	for _, r := range refs {
		if r.Number == n {
			return true
		}
	}
	return false
}

// TopicPattern tags queries matching Pattern with Topic.
type TopicPattern struct {
	Pattern *regexp.Regexp
	Topic   string
}

func topicPattern(expr, topic string) TopicPattern {
	return TopicPattern{Pattern: regexp.MustCompile(`(?i)` + expr), Topic: topic}
}

// TopicPatterns is the ordered detection table. Go's \b is ASCII-only, so
// patterns anchor on ASCII letters.
var TopicPatterns = []TopicPattern{
	topicPattern(`\bcontrat`, "contrato"),
	topicPattern(`\bdespi`, "despido"),
	topicPattern(`\bvacacion`, "vacaciones"),
	topicPattern(`\b(?:aguinaldo|décimo.?tercer)\b`, "aguinaldo"),
	topicPattern(`\b(?:salario|sueldo|remunerac)`, "salario"),
	topicPattern(`\b(?:matrimonio|casar)`, "matrimonio"),
	topicPattern(`\bdivorci`, "divorcio"),
	topicPattern(`\b(?:herencia|hered)`, "herencia"),
	topicPattern(`\b(?:propiedad|inmueble|terreno|finca)\b`, "propiedad"),
	topicPattern(`\b(?:arrendamiento|alquiler|inquilin)`, "arrendamiento"),
	topicPattern(`\b(?:sociedad|empresa|compañía)\b`, "sociedad"),
	topicPattern(`\b(?:prescripci|prescrib)`, "prescripción"),
	topicPattern(`\b(?:obligaci|deuda)`, "obligación"),
	topicPattern(`\b(?:delito|crimen|criminal)\b`, "delito"),
	topicPattern(`\b(?:homicidio|asesinat|matar)\b`, "homicidio"),
	topicPattern(`\b(?:robo|hurto|robar)\b`, "robo"),
	topicPattern(`\b(?:estafa|fraude|engaño)\b`, "estafa"),
	topicPattern(`\b(?:daños|perjuicios|indemnizaci)`, "daños"),
	topicPattern(`\b(?:embargo|embargar)\b`, "embargo"),
	topicPattern(`\b(?:alimento|pensión.?alimentaria|manutenci)`, "alimentos"),
	topicPattern(`\b(?:jornada|horas.?extra|horario)\b`, "jornada laboral"),
	topicPattern(`\bpreaviso\b`, "preaviso"),
	topicPattern(`\bcesant[ií]a\b`, "cesantía"),
	topicPattern(`\b(?:garantía|fianza)\b`, "garantía"),
	topicPattern(`\bhipoteca`, "hipoteca"),
	topicPattern(`\b(?:testamento|sucesi)`, "testamento"),
	topicPattern(`\busufruct`, "usufructo"),
	topicPattern(`\bservidumbre`, "servidumbre"),
	topicPattern(`\b(?:posesi[oó]n|poseedor)\b`, "posesión"),
	topicPattern(`\b(?:compraventa|compra|venta)\b`, "compraventa"),
	topicPattern(`\b(?:donaci[oó]n|donar)\b`, "donación"),
	topicPattern(`\b(?:poder|mandato|poderdante)\b`, "mandato"),
	topicPattern(`\bresponsabilidad\b`, "responsabilidad"),
	topicPattern(`\b(?:capacidad|incapacidad|menor)\b`, "capacidad"),
	topicPattern(`\b(?:persona.?jur[ií]dica|asociaci)`, "persona jurídica"),
	topicPattern(`\b(?:comerciant|actividad.?comercial)\b`, "comerciante"),
	topicPattern(`\b(?:quiebra|insolvencia)\b`, "quiebra"),
	topicPattern(`\b(?:t[ií]tulo.?valor|letra.?de.?cambio|pagar[eé]|cheque)\b`, "títulos valores"),
	topicPattern(`\b(?:trabajador|patrono|empleador|emplead)`, "relación laboral"),
	topicPattern(`\b(?:sindicato|huelga)\b`, "sindicato"),
	topicPattern(`\b(?:seguridad.?social|ccss)\b`, "seguridad social"),
	topicPattern(`\bjusta.?causa\b`, "despido"),
	topicPattern(`\b(?:derecho|derechos)\b.*\b(?:laboral|trabajador)`, "relación laboral"),
}

// DetectTopics returns the topics whose pattern matches q, in table order,
// each at most once.
func DetectTopics(q string) []string {
	return detectTopics(TopicPatterns, q)
}

func detectTopics(table []TopicPattern, q string) []string {
	lower := strings.ToLower(q)
	var topics []string
	seen := make(map[string]bool)
	for _, p := range table {
		if seen[p.Topic] || !p.Pattern.MatchString(lower) {
			continue
		}
		topics = append(topics, p.Topic)
		seen[p.Topic] = true
	}
	return topics
}
