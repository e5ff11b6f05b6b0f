package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	logx "github.com/medical-triage/server/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Specialty is one entry of the specialist catalog.
type Specialty struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Indication  string `json:"indication"`
}

// Catalog is the read-only specialty catalog. It keeps file order and is safe
// for concurrent reads.
type Catalog struct {
	specialties []Specialty
	index       map[string]int
}

// New builds a catalog from specs, keeping the first entry for duplicate names.
func New(specs []Specialty) *Catalog {
	c := &Catalog{index: make(map[string]int, len(specs))}
	for _, s := range specs {
		if s.Name == "" {
			continue
		}
		if _, dup := c.index[s.Name]; dup {
			continue
		}
		c.index[s.Name] = len(c.specialties)
		c.specialties = append(c.specialties, s)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.specialties)
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Catalog) Get(name string) (Specialty, bool) {
	i, ok := c.index[name]
	if !ok {
		return Specialty{}, false
	}
	return c.specialties[i], true
}

// Names returns specialty names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.specialties))
	for i, s := range c.specialties {
		out[i] = s.Name
	}
	return out
}

// Load reads the catalog at path. A missing, malformed or empty file yields
// the built-in default catalog; Load never fails.
func Load(path string) *Catalog {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logx.Debug().Err(err).Str("path", path).Msg("specialist catalog unavailable, using defaults")
		return Default()
	}
	c, err := Parse(data)
	if err != nil {
		logx.Debug().Err(err).Str("path", path).Msg("specialist catalog malformed, using defaults")
		return Default()
	}
	logx.Debug().Str("path", path).Int("specialties", c.Len()).Msg("specialist catalog loaded")
	return c
}

type rawSpecialty struct {
	Description string `yaml:"description"`
	Indication  string `yaml:"indication"`
	WhenToSee   string `yaml:"when_to_see"`
}

// Parse decodes a JSON or YAML mapping of specialty name to
// {description, indication}. Key order is preserved.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("empty catalog")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New("catalog must be a mapping")
	}

	specs := make([]Specialty, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := strings.TrimSpace(root.Content[i].Value)
		var raw rawSpecialty
		if err := root.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode specialty %q: %w", name, err)
		}
		indication := raw.Indication
		if indication == "" {
			indication = raw.WhenToSee
		}
		specs = append(specs, Specialty{Name: name, Description: raw.Description, Indication: indication})
	}

	c := New(specs)
	if c.Len() == 0 {
		return nil, errors.New("empty catalog")
	}
	return c, nil
}

// Default returns the built-in catalog. It covers every specialty referenced
// by ConditionSpecialties.
func Default() *Catalog {
	return New(defaultSpecialties)
}

var defaultSpecialties = []Specialty{
	{"General Medicine", "Comprehensive care for common health problems and first point of contact.", "For general symptoms, routine check-ups or when you are unsure which specialist to see."},
	{"Internal Medicine", "Diagnosis and non-surgical treatment of adult diseases.", "For complex or chronic conditions affecting several organs."},
	{"Family Medicine", "Continuous care for people of all ages within the family context.", "For ongoing care, prevention and common illnesses."},
	{"Preventive Medicine", "Disease prevention, screening and health promotion.", "For check-ups, vaccination and risk assessment."},
	{"Cardiology", "Diagnosis and treatment of heart and blood vessel diseases.", "For chest pain, palpitations, high blood pressure or shortness of breath on exertion."},
	{"Neurology", "Disorders of the brain, spinal cord and nerves.", "For persistent headaches, dizziness, numbness, seizures or memory problems."},
	{"Psychiatry", "Diagnosis and treatment of mental disorders.", "For depression, severe anxiety, mood changes or thoughts of self-harm."},
	{"Psychology", "Assessment and therapy for emotional and behavioural difficulties.", "For stress, anxiety, relationship problems or emotional support."},
	{"Pulmonology", "Diseases of the lungs and airways.", "For persistent cough, shortness of breath, wheezing or asthma."},
	{"Gastroenterology", "Disorders of the digestive system.", "For abdominal pain, reflux, changes in bowel habits or digestive bleeding."},
	{"Endocrinology", "Hormonal and metabolic disorders.", "For diabetes, thyroid problems or unexplained weight changes."},
	{"Dermatology", "Conditions of the skin, hair and nails.", "For rashes, itching, changing moles or persistent skin problems."},
	{"Otolaryngology", "Ear, nose and throat conditions.", "For ear pain, hearing loss, sinus problems, vertigo or persistent sore throat."},
	{"Traumatology", "Injuries and disorders of bones, joints and muscles.", "For fractures, sprains, joint pain or back injuries."},
	{"Infectious Diseases", "Diagnosis and treatment of infections.", "For persistent fever, complicated infections or tropical diseases."},
	{"Nephrology", "Kidney diseases.", "For kidney problems, abnormal urine tests or hard-to-control blood pressure."},
	{"Nutrition", "Diet assessment and nutritional treatment.", "For weight management, diabetes diet or nutritional deficiencies."},
	{"Rheumatology", "Autoimmune and inflammatory diseases of joints and muscles.", "For joint swelling, morning stiffness or suspected arthritis."},
	{"Allergology", "Allergies and immune system disorders.", "For recurrent allergic reactions, hay fever, hives or allergic asthma."},
	{"Pain Medicine", "Management of acute and chronic pain.", "For pain that persists despite usual treatment."},
	{"Emergency Medicine", "Immediate care for acute and life-threatening conditions.", "For severe chest pain, difficulty breathing, fainting or sudden weakness."},
	{"Intensive Care", "Care of critically ill patients.", "Accessed through emergency services or hospital referral."},
	{"General Surgery", "Surgical treatment of abdominal and soft-tissue conditions.", "For suspected appendicitis, hernias or conditions that may need surgery."},
}
