// Package validation turns untrusted form input into bounded,
// pattern-conformant field values. The rule table below is the single source
// of truth for field names, labels, length bounds, and patterns; the backend
// fail-fast validator and any richer client-side mirror both derive from it.
package validation

import "regexp"

// Rule describes the constraints for one mandatory form field.
type Rule struct {
	Name    string
	Label   string
	MaxLen  int
	Pattern *regexp.Regexp
}

var (
	// emailPattern accepts the local@domain shape with no embedded whitespace.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

	// gradePattern allows letters, digits, the masculine/feminine ordinal
	// marks used in Spanish grade names (1º, 2ª), spaces, and hyphens.
	gradePattern = regexp.MustCompile(`^[\p{L}\p{N}ºª -]+$`)

	// phonePattern allows digits, common separators, and an international
	// prefix; 7 to 20 characters after sanitization.
	phonePattern = regexp.MustCompile(`^[0-9+().\- ]{7,20}$`)

	// responsibleIDPattern covers national ID / passport style identifiers.
	responsibleIDPattern = regexp.MustCompile(`^[\p{L}\p{N}.\-]{5,30}$`)
)

// Rules is the authoritative, ordered field rule set. Validation runs in this
// order and stops at the first failure, so the order is part of the contract.
var Rules = []Rule{
	{Name: "student_name", Label: "Student name", MaxLen: 120},
	{Name: "father_name", Label: "Father's name", MaxLen: 120},
	{Name: "mother_name", Label: "Mother's name", MaxLen: 120},
	{Name: "other_guardian", Label: "Other guardian", MaxLen: 120},
	{Name: "father_email", Label: "Father's email", MaxLen: 120, Pattern: emailPattern},
	{Name: "mother_email", Label: "Mother's email", MaxLen: 120, Pattern: emailPattern},
	{Name: "grade", Label: "Grade", MaxLen: 15, Pattern: gradePattern},
	{Name: "address", Label: "Address", MaxLen: 150},
	{Name: "municipio", Label: "Municipio", MaxLen: 100},
	{Name: "sector", Label: "Sector", MaxLen: 100},
	{Name: "urbanizacion", Label: "Urbanización", MaxLen: 100},
	{Name: "bloque", Label: "Bloque", MaxLen: 50},
	{Name: "father_phone", Label: "Father's phone", MaxLen: 20, Pattern: phonePattern},
	{Name: "father_office_phone", Label: "Father's office phone", MaxLen: 20, Pattern: phonePattern},
	{Name: "mother_phone", Label: "Mother's phone", MaxLen: 20, Pattern: phonePattern},
	{Name: "mother_office_phone", Label: "Mother's office phone", MaxLen: 20, Pattern: phonePattern},
	{Name: "other_guardian_phone", Label: "Other guardian's phone", MaxLen: 20, Pattern: phonePattern},
	{Name: "responsible_id", Label: "Responsible ID", MaxLen: 30, Pattern: responsibleIDPattern},
	{Name: "observaciones", Label: "Observaciones", MaxLen: 500},
}

// ServiceOptionsField is the repeatable multi-value field validated by
// ValidateServiceOptions rather than the rule table.
const ServiceOptionsField = "service_options"

// AllowedServiceOptions is the fixed set of selectable service options.
var AllowedServiceOptions = map[string]struct{}{
	"AM":  {},
	"PM":  {},
	"1/2": {},
}

// serviceOptionMaxLen bounds each raw option value before set membership is
// checked.
const serviceOptionMaxLen = 10

// RuleFor returns the rule for a field name, if one exists.
func RuleFor(name string) (Rule, bool) {
	for _, r := range Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}
