// Package validator turns untyped request input into typed model values
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/htol/libapi/model"
)

var (
	// ErrEmptyString is returned when a string parameter is empty
	ErrEmptyString = errors.New("string cannot be empty")

	memberName = regexp.MustCompile(`^[a-zA-Z\s-]{2,50}$`)
	checker    = playground.New()
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

// ValidationError describes input that was rejected; Error() is the message shown to clients
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err carries a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Payload is a decoded JSON object
type Payload map[string]any

// requiredString returns the trimmed string under field or explains why it is unusable
func (p Payload) requiredString(field string) (string, error) {
	raw, ok := p[field]
	if !ok {
		return "", invalid("Missing required field: %s", field)
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid("%s must be a string", field)
	}
	s = strings.TrimSpace(s)
	if ValidateNonEmpty(s) != nil {
		return "", invalid("%s cannot be empty", field)
	}
	return s, nil
}

func (p Payload) optionalBool(field string) (*bool, error) {
	raw, ok := p[field]
	if !ok {
		return nil, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return nil, invalid("%s must be a boolean", field)
	}
	return &b, nil
}

// ValidateBookData checks a create-book payload
func ValidateBookData(data Payload) (model.BookInput, error) {
	if len(data) == 0 {
		return model.BookInput{}, invalid("No data provided")
	}

	title, err := data.requiredString("title")
	if err != nil {
		return model.BookInput{}, err
	}
	author, err := data.requiredString("author")
	if err != nil {
		return model.BookInput{}, err
	}
	available, err := data.optionalBool("available")
	if err != nil {
		return model.BookInput{}, err
	}

	in := model.BookInput{Title: title, Author: author, Available: true}
	if available != nil {
		in.Available = *available
	}
	return in, nil
}

// ValidateBookPatch checks an update-book payload. Sending title or author
// means the payload must pass ValidateBookData as a whole; a payload with
// neither only has available checked.
func ValidateBookPatch(data Payload) (model.BookPatch, error) {
	var patch model.BookPatch

	_, hasTitle := data["title"]
	_, hasAuthor := data["author"]
	if hasTitle || hasAuthor {
		in, err := ValidateBookData(data)
		if err != nil {
			return model.BookPatch{}, err
		}
		patch.Title = &in.Title
		patch.Author = &in.Author
	}

	available, err := data.optionalBool("available")
	if err != nil {
		return model.BookPatch{}, err
	}
	patch.Available = available
	return patch, nil
}

// ValidateMemberData applies the full member rules: both fields present and
// non-empty, a 2-50 character name of letters, spaces and hyphens, and a
// syntactically valid email
func ValidateMemberData(data Payload) (model.MemberInput, error) {
	if len(data) == 0 {
		return model.MemberInput{}, invalid("No data provided")
	}

	name, err := data.requiredString("name")
	if err != nil {
		return model.MemberInput{}, err
	}
	email, err := data.requiredString("email")
	if err != nil {
		return model.MemberInput{}, err
	}

	// the pattern applies to the name as sent
	if !memberName.MatchString(data["name"].(string)) {
		return model.MemberInput{}, invalid("Name must be 2-50 characters and contain only letters, spaces, and hyphens")
	}
	if err := ValidateEmail(email); err != nil {
		return model.MemberInput{}, err
	}

	return model.MemberInput{Name: name, Email: email}, nil
}

// RequireMemberFields is the lenient member check: the name and email keys
// must be present and hold strings, their content is not inspected
func RequireMemberFields(data Payload) (model.MemberInput, error) {
	if len(data) == 0 {
		return model.MemberInput{}, invalid("Name and Email are required")
	}
	rawName, hasName := data["name"]
	rawEmail, hasEmail := data["email"]
	if !hasName || !hasEmail {
		return model.MemberInput{}, invalid("Name and Email are required")
	}

	name, ok := rawName.(string)
	if !ok {
		return model.MemberInput{}, invalid("name must be a string")
	}
	email, ok := rawEmail.(string)
	if !ok {
		return model.MemberInput{}, invalid("email must be a string")
	}
	return model.MemberInput{Name: name, Email: email}, nil
}

// ValidateEmail checks email address syntax
func ValidateEmail(email string) error {
	if err := checker.Var(email, "required,email"); err != nil {
		return invalid("Invalid email address")
	}
	return nil
}

// ValidatePaginationParams parses the optional page and per_page query values
func ValidatePaginationParams(page, perPage string) (model.Pagination, error) {
	p := model.Pagination{Page: defaultPage, PerPage: defaultPerPage}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return model.Pagination{}, invalid("Invalid pagination parameters")
		}
		p.Page = n
	}
	if perPage != "" {
		n, err := strconv.Atoi(perPage)
		if err != nil {
			return model.Pagination{}, invalid("Invalid pagination parameters")
		}
		p.PerPage = n
	}

	if p.Page < 1 {
		return model.Pagination{}, invalid("Page number must be positive")
	}
	if p.PerPage < 1 || p.PerPage > maxPerPage {
		return model.Pagination{}, invalid("Items per page must be between 1 and %d", maxPerPage)
	}
	return p, nil
}

// ValidateSearchParams requires at least one of title and author after trimming
func ValidateSearchParams(title, author string) (model.BookQuery, error) {
	q := model.BookQuery{
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
	}
	if q.Title == "" && q.Author == "" {
		return model.BookQuery{}, invalid("At least one search parameter (title or author) is required")
	}
	return q, nil
}

// ValidateNonEmpty validates that a string is not empty
func ValidateNonEmpty(s string) error {
	if s == "" {
		return ErrEmptyString
	}
	return nil
}

// ValidateID validates that an ID is positive
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid id: %d (must be positive)", id)
	}
	return nil
}
