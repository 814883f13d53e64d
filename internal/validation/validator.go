package validation

import (
	dErrors "matricula/pkg/domain-errors"
	pstrings "matricula/pkg/platform/strings"
)

// Validate applies a rule to a raw field value and returns the sanitized
// result or a classified client error. Whitespace-only input fails the same
// way as missing input: the two are indistinguishable to a reader of the
// stored record.
func Validate(rule Rule, raw string) (string, error) {
	if raw == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, rule.Label+" is required")
	}

	clean := Sanitize(raw, rule.MaxLen)
	if clean == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, rule.Label+" is required")
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(clean) {
		return "", dErrors.New(dErrors.CodeBadRequest, rule.Label+" has an invalid format")
	}

	return clean, nil
}

// ValidateServiceOptions sanitizes, deduplicates, and checks the repeatable
// service-option values against the fixed allowed set. An empty result and an
// out-of-set member fail identically. Order of the returned set is not
// significant.
func ValidateServiceOptions(raw []string) ([]string, error) {
	sanitized := make([]string, 0, len(raw))
	for _, v := range raw {
		sanitized = append(sanitized, Sanitize(v, serviceOptionMaxLen))
	}

	options := pstrings.DedupeAndTrim(sanitized)
	if len(options) == 0 {
		return nil, errInvalidServiceOptions()
	}
	for _, opt := range options {
		if _, ok := AllowedServiceOptions[opt]; !ok {
			return nil, errInvalidServiceOptions()
		}
	}

	return options, nil
}

func errInvalidServiceOptions() error {
	return dErrors.New(dErrors.CodeBadRequest, "select at least one valid service option")
}
