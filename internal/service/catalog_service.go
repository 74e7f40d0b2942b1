package service

import "github.com/dostonbek/testplatform/internal/dto"

// CatalogResponse is the fixed subject tree the setup view offers, plus the
// accepted difficulty and count choices.
type CatalogResponse struct {
	Subjects       map[string]map[string][]string `json:"subjects"`
	Difficulties   []DifficultyOption             `json:"difficulties"`
	QuestionCounts []int                          `json:"questionCounts"`
}

type DifficultyOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// subjectCatalog is static content, not configuration: the platform offers a
// curated tree of subjects and the generation prompt quotes its leaves.
var subjectCatalog = map[string]map[string][]string{
	"Ingliz tili": {
		"Zamonlar (Tenses)": {
			"Present Simple", "Present Continuous", "Present Perfect",
			"Past Simple", "Past Continuous", "Past Perfect",
			"Future Simple", "Future Continuous", "Future Perfect",
		},
		"Grammatika":     {"Articles", "Modal Verbs", "Passive Voice", "Conditionals", "Reported Speech"},
		"Lug'at boyligi": {"Daily Routine", "Business English", "Travel & Tourism", "Technology"},
	},
	"Matematika": {
		"Algebra":    {"Chiziqli tenglamalar", "Kvadrat tenglamalar", "Logarifmlar", "Funksiyalar"},
		"Geometriya": {"Planimetriya", "Stereometriya", "Vektorlar", "Trigonometriya"},
		"Analiz":     {"Hosilalar", "Integrallar", "Limitlar"},
	},
	"Biologiya": {
		"Botanika":          {"O'simlik to'qimalari", "Gulli o'simliklar", "Daraxtlar va butalar"},
		"Zoologiya":         {"Bir hujayralilar", "Bo'g'imoyoqlilar", "Sudralib yuruvchilar", "Sutemizuvchilar"},
		"Odam anatomiyasi":  {"Skelet sistemasi", "Qon aylanish sistemasi", "Asab sistemasi", "Hazm qilish"},
	},
	"Kimyo": {
		"Anorganik kimyo": {"Metallar va nometallar", "Oksidlar", "Kislota va tuzlar", "Davriy jadval"},
		"Organik kimyo":   {"Alkanlar", "Alkenlar va Alkinlar", "Spirtlar", "Karbon kislotalar"},
		"Umumiy kimyo":    {"Atom tuzilishi", "Kimyoviy bog'lanish", "Reaksiya tezligi"},
	},
	"Tarix": {
		"O'zbekiston tarixi": {"Qadimgi davr", "Amir Temur davri", "Xonliklar davri", "Mustaqillik yillari"},
		"Jahon tarixi":       {"Qadimgi Misr va Gretsiya", "O'rta asrlar", "Birinchi jahon urushi", "Ikkinchi jahon urushi"},
	},
	"Rus tili": {
		"Grammatika": {"Padéji (Kelishiklar)", "Glagoli (Fe'llar)", "Rodi (Jinslar)", "Prilagatelniye"},
		"Leksika":    {"Rabota i Professiya", "Semya i Dom", "Puteshestviye", "Tehnologii"},
	},
	"Informatika": {
		"Dasturlash":        {"Python asoslari", "JavaScript & React", "Java Spring", "Ma'lumotlar tuzilmasi"},
		"Sun'iy Intellekt":  {"Mashinali o'rganish", "Neyron tarmoqlar", "NLP"},
	},
	"Ona tili va Adabiyot": {
		"Ona tili": {"Gramatika", "Zamonlar", "Marfologiya", "Sintaksis"},
		"Adabiyot": {"Mumtoz Adabiyot", "Sheriyat", "Zamonaviy adabiyot"},
	},
}

// Catalog returns the setup tree together with the wire enums the start
// request validates against.
func Catalog() CatalogResponse {
	return CatalogResponse{
		Subjects: subjectCatalog,
		Difficulties: []DifficultyOption{
			{Value: dto.DifficultyEasy, Label: "Oson"},
			{Value: dto.DifficultyMedium, Label: "O'rtacha"},
			{Value: dto.DifficultyHard, Label: "Qiyin"},
		},
		QuestionCounts: []int{5, 10, 15, 20, 25, 30, 35, 40},
	}
}
