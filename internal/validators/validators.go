package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

// Issue is one failed field rule.
type Issue struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError carries every failed rule of a request.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewIssue builds a single issue validation error.
func NewIssue(field, tag, message string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Field: field, Tag: tag, Message: message}}}
}

// CustomValidator adapts validator/v10 to echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// NewValidator returns the validator installed on the echo instance.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return &CustomValidator{validate: v}
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Issues: make([]Issue, 0, len(verrs))}
	for _, fe := range verrs {
		out.Issues = append(out.Issues, Issue{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()),
		})
	}
	return out
}

// NormalizeHandle prefixes a non empty handle with '@' when it lacks one.
func NormalizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// SearchHandle normalizes a handle search term; an empty term becomes "@",
// which every handle starts with.
func SearchHandle(handle string) string {
	if h := NormalizeHandle(handle); h != "" {
		return h
	}
	return "@"
}

// ParseCategories parses a comma separated category list. Empty input
// yields no categories.
func ParseCategories(raw string) (models.Categories, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make(models.Categories, 0, len(parts))
	for _, p := range parts {
		c := models.Category(strings.ToUpper(strings.TrimSpace(p)))
		if !c.Valid() {
			return nil, NewIssue("categories", "category", fmt.Sprintf("unknown category %q", p))
		}
		out = append(out, c)
	}
	return out, nil
}
