package extraction

import "strings"

var diacriticFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

// Normalize lowercases, folds common diacritics and collapses whitespace so
// keyword matching tolerates accent and spacing variation in source documents.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = diacriticFolder.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Header keyword sets per column role. Matching is substring-based on the
// normalized header text; fuzziness here is accepted imprecision.
var (
	dateHeaderKeywords      = []string{"data", "date", "dia"}
	timeHeaderKeywords      = []string{"horario", "hora", "time", "schedule", "periodo"}
	topicHeaderKeywords     = []string{"tema", "conteudo", "topic", "assunto", "subject", "atividade", "activity"}
	practicalHeaderKeywords = []string{"pratica", "practical"}
	courseHeaderKeywords    = []string{"curso", "course", "turma"}
)

// labKeywords flag free text that refers to a practical/laboratory session.
var labKeywords = []string{"lab", "laboratorio", "laboratory", "pratica", "practical", "practice"}

// legendKeywords mark header/legend/separator rows that carry no session data.
var legendKeywords = []string{"legenda", "legend", "observac", "notes:", "feriado", "holiday", "recesso"}

func matchesAny(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// HasLabKeyword reports whether text mentions a lab/practical session.
func HasLabKeyword(text string) bool {
	return matchesAny(Normalize(text), labKeywords)
}

func isLegendText(text string) bool {
	return matchesAny(Normalize(text), legendKeywords)
}

// headerLabelVariants are multi-word forms that appear verbatim as headers.
var headerLabelVariants = []string{"aula pratica", "sessao pratica", "practical session"}

// isHeaderLabel reports whether a cell value is itself one of the known
// header labels rather than data.
func isHeaderLabel(text string) bool {
	n := Normalize(text)
	if n == "" {
		return false
	}
	for _, kw := range headerLabelVariants {
		if n == kw {
			return true
		}
	}
	for _, set := range [][]string{dateHeaderKeywords, timeHeaderKeywords, topicHeaderKeywords, practicalHeaderKeywords, courseHeaderKeywords} {
		for _, kw := range set {
			if n == kw {
				return true
			}
		}
	}
	return false
}
