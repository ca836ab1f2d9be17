package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"storefront_service/internal/domain"
)

var (
	phonePattern   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

func isValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func isValidPincode(pincode string) bool {
	return pincodePattern.MatchString(pincode)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword enforces basic password complexity rules.
func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.NewValidationError("password", "must be at least 8 characters long")
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper {
		return domain.NewValidationError("password", "must contain at least one uppercase letter")
	}
	if !hasLower {
		return domain.NewValidationError("password", "must contain at least one lowercase letter")
	}
	if !hasDigit {
		return domain.NewValidationError("password", "must contain at least one digit")
	}
	return nil
}

// validateCustomer checks checkout form fields and returns the trimmed copy.
func validateCustomer(c domain.Customer) (domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.State = strings.TrimSpace(c.State)
	c.Pincode = strings.TrimSpace(c.Pincode)

	switch {
	case c.Name == "":
		return c, domain.NewValidationError("name", "cannot be empty")
	case !isValidEmail(c.Email):
		return c, domain.NewValidationError("email", "invalid email format")
	case !isValidPhone(c.Phone):
		return c, domain.NewValidationError("phone", "must be a 10 digit mobile number starting with 6-9")
	case c.Address == "":
		return c, domain.NewValidationError("address", "cannot be empty")
	case c.City == "":
		return c, domain.NewValidationError("city", "cannot be empty")
	case !isValidPincode(c.Pincode):
		return c, domain.NewValidationError("pincode", "must be 6 digits")
	}
	return c, nil
}

// paginate applies limit/offset to items after clamping: limit defaults to
// 10 and is capped at 100.
func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
