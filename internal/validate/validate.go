package validate

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// decimals are checked as their string form
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	return v
}

// Errors maps a JSON field name to the rule it broke.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for f, rule := range e {
		parts = append(parts, f+": "+rule)
	}
	sort.Strings(parts)
	return "invalid " + strings.Join(parts, ", ")
}

// Struct checks s against its validate tags. It returns nil when s is valid.
func Struct(s any) Errors {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	out := Errors{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range ves {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a record identifier taken from a path parameter.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Slug accepts what Slugify can produce.
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 200 && reSlug.MatchString(s)
}

var reSlug = regexp.MustCompile(`^[a-z0-9_]+(-[a-z0-9_]+)*$`)

// Qty checks a requested cart quantity against available stock.
func Qty(n, inStock int) bool {
	return n >= 1 && n <= inStock
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
