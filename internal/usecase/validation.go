package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/xavierca1/prospection-crm/internal/entity"
)

const (
	EmailInvalidMessage = "Format d'email invalide (ex: nom@exemple.fr)"
	PhoneInvalidMessage = "Format invalide (ex: 06 12 34 56 78 ou +33612345678)"
)

var (
	// \s alone is ASCII; \p{Z} and U+FEFF cover the non-breaking spaces
	// pasted from French documents.
	emailPattern         = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)
	phoneSeparators      = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}.\-]`)
	domesticPhonePattern = regexp.MustCompile(`^0[1-9]\d{8}$`)
	intlPhonePattern     = regexp.MustCompile(`^\+\d{10,15}$`)
)

// ValidationResult is what form fields display next to an input.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail accepts the empty string since the field is optional.
func ValidateEmail(value string) ValidationResult {
	if value == "" {
		return ValidationResult{Valid: true}
	}
	if !emailPattern.MatchString(value) {
		return ValidationResult{Valid: false, Message: EmailInvalidMessage}
	}
	return ValidationResult{Valid: true}
}

// ValidatePhone strips spaces, dots and hyphens, then accepts a 10 digit
// domestic number (0 then 1-9) or + followed by 10 to 15 digits.
func ValidatePhone(value string) ValidationResult {
	if value == "" {
		return ValidationResult{Valid: true}
	}
	cleaned := phoneSeparators.ReplaceAllString(value, "")
	if !domesticPhonePattern.MatchString(cleaned) && !intlPhonePattern.MatchString(cleaned) {
		return ValidationResult{Valid: false, Message: PhoneInvalidMessage}
	}
	return ValidationResult{Valid: true}
}

func ValidateNewProspect(in entity.NewProspect) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(in.Nom) == "" {
		errors = append(errors, ValidationError{"nom", "is required"})
	}
	if r := ValidateEmail(in.Email); !r.Valid {
		errors = append(errors, ValidationError{"email", r.Message})
	}
	if r := ValidatePhone(in.Telephone); !r.Valid {
		errors = append(errors, ValidationError{"telephone", r.Message})
	}
	if in.Status != "" && !in.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is not a pipeline status"})
	}
	if in.ValeurEstimee != nil && !validAmount(*in.ValeurEstimee) {
		errors = append(errors, ValidationError{"valeurEstimee", amountMessage})
	}

	return errors
}

// ValidatePatch only looks at the fields the patch carries.
func ValidatePatch(p entity.ProspectPatch) []ValidationError {
	var errors []ValidationError

	if p.IsEmpty() {
		errors = append(errors, ValidationError{"patch", "must change at least one field"})
	}
	if p.Nom != nil && strings.TrimSpace(*p.Nom) == "" {
		errors = append(errors, ValidationError{"nom", "must not be empty"})
	}
	if p.Email != nil {
		if r := ValidateEmail(*p.Email); !r.Valid {
			errors = append(errors, ValidationError{"email", r.Message})
		}
	}
	if p.Telephone != nil {
		if r := ValidatePhone(*p.Telephone); !r.Valid {
			errors = append(errors, ValidationError{"telephone", r.Message})
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		errors = append(errors, ValidationError{"status", "is not a pipeline status"})
	}
	if v := p.ValeurEstimee.Value; p.ValeurEstimee.Present && v != nil && !validAmount(*v) {
		errors = append(errors, ValidationError{"valeurEstimee", amountMessage})
	}

	return errors
}

const amountMessage = "must be a finite, non-negative amount"

// validAmount rejects NaN and infinities, which JSON cannot encode.
func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func ValidateInteraction(in entity.NewInteraction) []ValidationError {
	var errors []ValidationError

	if !in.Type.Valid() {
		errors = append(errors, ValidationError{"type", "must be appel, email, reunion, sms or visite"})
	}
	if in.Date.IsZero() {
		errors = append(errors, ValidationError{"date", "is required"})
	}
	if in.Duree != nil && *in.Duree < 0 {
		errors = append(errors, ValidationError{"duree", "must not be negative"})
	}

	return errors
}
