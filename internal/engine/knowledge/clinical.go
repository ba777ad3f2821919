package knowledge

import "strings"

// DrugClass describes the classification of a known medication.
type DrugClass struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	OTC   bool   `json:"otc"`
}

// Specialty maps symptom vocabulary to a referral specialty.
type Specialty struct {
	Name     string   `json:"name"`
	Keywords []string `json:"-"`
}

var drugClasses = map[string]DrugClass{
	"ibuprofen":       {Name: "ibuprofen", Class: "NSAID", OTC: true},
	"naproxen":        {Name: "naproxen", Class: "NSAID", OTC: true},
	"meloxicam":       {Name: "meloxicam", Class: "NSAID"},
	"acetaminophen":   {Name: "acetaminophen", Class: "analgesic", OTC: true},
	"tramadol":        {Name: "tramadol", Class: "opioid analgesic"},
	"cyclobenzaprine": {Name: "cyclobenzaprine", Class: "muscle relaxant"},
	"gabapentin":      {Name: "gabapentin", Class: "anticonvulsant (neuropathic pain)"},
	"prednisone":      {Name: "prednisone", Class: "corticosteroid"},
	"omeprazole":      {Name: "omeprazole", Class: "proton pump inhibitor", OTC: true},
	"sumatriptan":     {Name: "sumatriptan", Class: "triptan"},
	"sertraline":      {Name: "sertraline", Class: "SSRI"},
	"lisinopril":      {Name: "lisinopril", Class: "ACE inhibitor"},
	"metformin":       {Name: "metformin", Class: "biguanide"},
	"albuterol":       {Name: "albuterol", Class: "short-acting beta agonist"},
}

var specialties = []Specialty{
	{Name: "orthopedics", Keywords: []string{"back", "spine", "knee", "shoulder", "joint", "hip", "disc", "fracture"}},
	{Name: "neurology", Keywords: []string{"migraine", "headache", "numbness", "tingling", "seizure", "dizziness", "radiating"}},
	{Name: "gastroenterology", Keywords: []string{"stomach", "abdominal", "reflux", "heartburn", "bowel", "nausea"}},
	{Name: "cardiology", Keywords: []string{"chest pain", "palpitation", "heart", "shortness of breath"}},
	{Name: "pulmonology", Keywords: []string{"asthma", "wheezing", "cough", "breathing"}},
	{Name: "psychiatry", Keywords: []string{"anxiety", "depression", "panic", "insomnia", "mood"}},
	{Name: "sleep medicine", Keywords: []string{"snoring", "apnea", "sleep"}},
}

// ClassifyMedication looks a medication up by name, case-insensitive.
func ClassifyMedication(name string) (DrugClass, bool) {
	d, ok := drugClasses[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// MatchSpecialty picks the specialty whose keyword list best matches the
// symptom description. Ties resolve to the earlier table entry.
func MatchSpecialty(description string) (Specialty, bool) {
	text := strings.ToLower(description)
	best := -1
	bestScore := 0
	for i, sp := range specialties {
		score := 0
		for _, kw := range sp.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return Specialty{}, false
	}
	return specialties[best], true
}
