package services

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// AreaSection is one scope-of-work line within a job.
type AreaSection struct {
	Name                string          `json:"name"`
	AreaSqm             decimal.Decimal `json:"area_sqm"`
	DepthMm             decimal.Decimal `json:"depth_mm"`
	MixType             MixType         `json:"asphalt_mix_type"`
	Specification       Specification   `json:"specification"`
	CustomSpecification string          `json:"custom_specification"`
	UnitPricePerTonne   decimal.Decimal `json:"unit_price_per_tonne"`
	Notes               string          `json:"notes"`
}

var (
	minDepthMm = decimal.NewFromInt(1)
	// MaxWasteFactorForm is the default form-level ceiling for a job's waste factor.
	MaxWasteFactorForm = decimal.NewFromInt(20)
)

// Validate checks the section against its invariants. Errors are keyed by
// the json field name, matching the form field names.
func (s AreaSection) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.By(notBlank("Section name is required"))),
		validation.Field(&s.AreaSqm, validation.By(decimalAbove(decimal.Zero, "Area must be greater than 0"))),
		validation.Field(&s.DepthMm, validation.By(decimalAtLeast(minDepthMm, "Depth must be at least 1mm"))),
		validation.Field(&s.MixType,
			validation.Required.Error("Please select an asphalt mix type"),
			validation.In(anySlice(MixTypes)...).Error("Please select an asphalt mix type"),
		),
		validation.Field(&s.Specification,
			validation.Required.Error("Please select a specification"),
			validation.In(anySlice(Specifications)...).Error("Please select a specification"),
		),
		validation.Field(&s.CustomSpecification,
			validation.When(s.Specification == SpecCustom,
				validation.By(notBlank("Custom specification is required"))),
		),
		validation.Field(&s.UnitPricePerTonne, validation.By(decimalAtLeast(decimal.Zero, "Unit price cannot be negative"))),
	)
}

// ValidateWasteFactor checks a job-level waste factor against [0, max].
func ValidateWasteFactor(w, limit decimal.Decimal) error {
	if w.IsNegative() || w.GreaterThan(limit) {
		return validation.NewError("validation_waste_factor",
			"Waste factor must be between 0 and "+limit.String()+"%")
	}
	return nil
}

// ErrorMap flattens validation errors into field → message, the shape the
// templates render. Non-validation errors land under "_form".
func ErrorMap(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, fe := range verrs {
			if fe != nil {
				out[field] = fe.Error()
			}
		}
		return out
	}
	out["_form"] = err.Error()
	return out
}

func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func decimalAbove(min decimal.Decimal, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		d, _ := value.(decimal.Decimal)
		if !d.GreaterThan(min) {
			return errors.New(msg)
		}
		return nil
	}
}

func decimalAtLeast(min decimal.Decimal, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		d, _ := value.(decimal.Decimal)
		if d.LessThan(min) {
			return errors.New(msg)
		}
		return nil
	}
}

func anySlice[T any](values []T) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
