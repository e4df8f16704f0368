package services

// Option is a value/label pair for a form select.
type Option struct {
	Value string
	Label string
}

type labeled interface {
	~string
	Label() string
}

func options[T labeled](values []T) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: string(v), Label: v.Label()}
	}
	return out
}

// MixTypeOptions returns the asphalt mix select options.
func MixTypeOptions() []Option { return options(MixTypes) }

// SpecificationOptions returns the specification select options.
func SpecificationOptions() []Option { return options(Specifications) }

func JobTypeOptions() []Option   { return options(JobTypes) }
func JobStatusOptions() []Option { return options(JobStatuses) }
func TruckTypeOptions() []Option { return options(TruckTypes) }

// StateOptions returns the Australian states and territories, labelled by code.
func StateOptions() []Option {
	out := make([]Option, len(AustralianStates))
	for i, s := range AustralianStates {
		out[i] = Option{Value: s, Label: s}
	}
	return out
}
