package feeds

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
)

// Document is the price-list a shop publishes at its feed url.
type Document struct {
	Shop       string     `yaml:"shop" validate:"required"`
	Categories []Category `yaml:"categories" validate:"dive"`
	Goods      []Good     `yaml:"goods" validate:"dive"`
}

type Category struct {
	Name string `yaml:"name" validate:"required"`
}

// Good is one offer line. Category optionally names one of the document's categories.
type Good struct {
	Name       string                `yaml:"name" validate:"required"`
	Category   string                `yaml:"category"`
	Price      *int64                `yaml:"price" validate:"required,min=0"`
	Quantity   *int                  `yaml:"quantity" validate:"required,min=0"`
	Parameters map[string]ParamValue `yaml:"parameters"`
}

// ParamValue keeps the literal text of any YAML scalar.
type ParamValue string

func (v *ParamValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: parameter value must be a scalar", node.Line)
	}
	*v = ParamValue(node.Value)
	return nil
}

var documentValidator = newDocumentValidator()

func newDocumentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldError struct {
	field string
	msg   string
}

func (e fieldError) Error() string {
	return e.field + ": " + e.msg
}

// Decode parses and validates a feed. Every failure is a VALIDATION_ERROR keyed by document path.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkgerrors.Validation("feed is not a valid document", map[string]string{"body": err.Error()})
	}

	if err := documentValidator.Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate feed")
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe.Namespace())] = tagMessage(fe)
		}
		return nil, pkgerrors.Validation("feed is missing required fields", fields)
	}

	if err := doc.check(); err != nil {
		fields := map[string]string{}
		for _, e := range multierr.Errors(err) {
			if fe, ok := e.(fieldError); ok {
				fields[fe.field] = fe.msg
			}
		}
		return nil, pkgerrors.Validation("feed is inconsistent", fields)
	}
	return &doc, nil
}

// check collects semantic problems validator tags cannot express.
func (d Document) check() error {
	var errs error

	declared := make(map[string]struct{}, len(d.Categories))
	for i, c := range d.Categories {
		if _, dup := declared[c.Name]; dup {
			errs = multierr.Append(errs, fieldError{fmt.Sprintf("categories[%d].name", i), "is declared twice"})
		}
		declared[c.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(d.Goods))
	for i, g := range d.Goods {
		if _, dup := seen[g.Name]; dup {
			errs = multierr.Append(errs, fieldError{fmt.Sprintf("goods[%d].name", i), "is listed twice"})
		}
		seen[g.Name] = struct{}{}

		if g.Category != "" {
			if _, ok := declared[g.Category]; !ok {
				errs = multierr.Append(errs, fieldError{fmt.Sprintf("goods[%d].category", i), "is not a declared category"})
			}
		}
		for name := range g.Parameters {
			if strings.TrimSpace(name) == "" {
				errs = multierr.Append(errs, fieldError{fmt.Sprintf("goods[%d].parameters", i), "has an empty parameter name"})
			}
		}
	}
	return errs
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
