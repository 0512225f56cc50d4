// Package teaching implements the form-driven generation flows.
package teaching

// Catalog holds the fixed form option lists the product offers. Clients
// fetch it once and render selects from it; the validator enforces
// membership on submit.
type Catalog struct {
	Grades        []string `json:"grades"`
	Subjects      []string `json:"subjects"`
	Methodologies []string `json:"methodologies"`
	Difficulties  []string `json:"difficulties"`
	Formats       []string `json:"formats"`
	ClassProfiles []string `json:"class_profiles"`
}

var (
	grades = []string{
		"EF - 1º Ano", "EF - 2º Ano", "EF - 3º Ano", "EF - 4º Ano", "EF - 5º Ano",
		"EF - 6º Ano", "EF - 7º Ano", "EF - 8º Ano", "EF - 9º Ano",
		"EM - 1º Ano", "EM - 2º Ano", "EM - 3º Ano",
	}

	subjects = []string{
		"Matemática", "Português", "Ciências", "História", "Geografia", "Arte",
		"Educação Física", "Inglês", "Biologia", "Física", "Química", "Sociologia",
		"Filosofia", "Redação", "Literatura",
	}

	methodologies = []string{"Expositiva", "Interativa", "Dinâmica"}

	difficulties = []string{"Fácil", "Médio", "Difícil"}

	// Formats are the two permitted answer formats for question sets and
	// corrections. The prompt layer maps them to lowercase display words.
	formats = []string{"Objetivas", "Dissertativas"}

	classProfiles = []string{
		"Turma distraída",
		"Gosta de conversar durante a aula",
		"Prefere atividades práticas",
		"Praticam Bullying",
	}
)

// DefaultCatalog returns the fixed option lists.
func DefaultCatalog() Catalog {
	return Catalog{
		Grades:        grades,
		Subjects:      subjects,
		Methodologies: methodologies,
		Difficulties:  difficulties,
		Formats:       formats,
		ClassProfiles: classProfiles,
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
