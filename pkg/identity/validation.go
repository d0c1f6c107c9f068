package identity

import (
	"net/mail"
	"sort"
	"strings"
)

const (
	minPasswordLength = 6
	maxPhoneLength    = 15
)

// Validate pre-checks a signup before it reaches the provider. The provider
// still enforces its own password policy.
func (r SignupRequest) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if len(r.Password) < minPasswordLength {
		return ErrRegistry.New(CodePasswordTooShort)
	}
	return validatePhone(r.PhoneNumber)
}

// Validate checks the fields that were supplied.
func (r UpdateRequest) Validate() error {
	if r.Email != nil {
		if err := ValidateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.PhoneNumber != nil {
		return validatePhone(*r.PhoneNumber)
	}
	return nil
}

// ValidateEmail accepts a bare address only, without display name.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrRegistry.New(CodeInvalidEmail).WithDetail("email", email)
	}
	return nil
}

// RequireFields fails with CodeMissingField listing every blank field.
func RequireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return ErrRegistry.New(CodeMissingField).WithDetail("fields", missing)
}

// ListLimit applies the default and the upper bound for one page.
func ListLimit(limit int) (int32, error) {
	switch {
	case limit == 0:
		return DefaultListLimit, nil
	case limit < 0 || limit > MaxListLimit:
		return 0, ErrRegistry.New(CodeInvalidLimit).WithDetail("limit", limit)
	default:
		return int32(limit), nil
	}
}

func validatePhone(phone string) error {
	if len(phone) > maxPhoneLength {
		return ErrRegistry.New(CodePhoneTooLong)
	}
	return nil
}
