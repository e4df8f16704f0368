package services

import "fmt"

// MixType is an asphalt mix designation.
type MixType string

const (
	MixAC10       MixType = "ac10"
	MixAC14       MixType = "ac14"
	MixAC20       MixType = "ac20"
	MixSMA        MixType = "sma"
	MixOpenGraded MixType = "open_graded"
	MixWarmMix    MixType = "warm_mix"
	MixColdMix    MixType = "cold_mix"
	MixRecycled   MixType = "recycled"
	MixCustom     MixType = "custom"
)

// MixTypes is the ordered list of mix types offered in forms.
var MixTypes = []MixType{
	MixAC10, MixAC14, MixAC20, MixSMA, MixOpenGraded,
	MixWarmMix, MixColdMix, MixRecycled, MixCustom,
}

var mixLabels = map[MixType]string{
	MixAC10:       "AC10 (10mm)",
	MixAC14:       "AC14 (14mm)",
	MixAC20:       "AC20 (20mm)",
	MixSMA:        "SMA",
	MixOpenGraded: "Open Graded",
	MixWarmMix:    "Warm Mix",
	MixColdMix:    "Cold Mix",
	MixRecycled:   "Recycled",
	MixCustom:     "Custom Mix",
}

// Label returns the display name used on screens and quotes.
func (m MixType) Label() string {
	if l, ok := mixLabels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMixType converts a stored or submitted value into a MixType.
func ParseMixType(s string) (MixType, error) {
	m := MixType(s)
	if _, ok := mixLabels[m]; !ok {
		return "", fmt.Errorf("unknown asphalt mix type %q", s)
	}
	return m, nil
}

// Specification is the road authority or council standard a section is laid to.
type Specification string

const (
	SpecRMSR116      Specification = "rms_r116"
	SpecRMSR117      Specification = "rms_r117"
	SpecRMSR118      Specification = "rms_r118"
	SpecVicRoads407  Specification = "vicroads_section_407"
	SpecVicRoads408  Specification = "vicroads_section_408"
	SpecMRWA504      Specification = "mrwa_specification_504"
	SpecTMRMRTS30    Specification = "tmr_mrts30"
	SpecDPTIPart228  Specification = "dpti_part_228"
	SpecLocalCouncil Specification = "local_council"
	SpecCustom       Specification = "custom"
)

// DefaultSpecification applies when a section does not name one.
const DefaultSpecification = SpecLocalCouncil

// Specifications is the ordered list of specification standards offered in forms.
var Specifications = []Specification{
	SpecRMSR116, SpecRMSR117, SpecRMSR118, SpecVicRoads407, SpecVicRoads408,
	SpecMRWA504, SpecTMRMRTS30, SpecDPTIPart228, SpecLocalCouncil, SpecCustom,
}

var specLabels = map[Specification]string{
	SpecRMSR116:      "RMS R116",
	SpecRMSR117:      "RMS R117",
	SpecRMSR118:      "RMS R118",
	SpecVicRoads407:  "VicRoads Section 407",
	SpecVicRoads408:  "VicRoads Section 408",
	SpecMRWA504:      "MRWA Specification 504",
	SpecTMRMRTS30:    "TMR MRTS30",
	SpecDPTIPart228:  "DPTI Part 228",
	SpecLocalCouncil: "Local Council",
	SpecCustom:       "Custom",
}

func (s Specification) Label() string {
	if l, ok := specLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseSpecification converts a submitted value into a Specification.
// An empty value yields DefaultSpecification.
func ParseSpecification(s string) (Specification, error) {
	if s == "" {
		return DefaultSpecification, nil
	}
	spec := Specification(s)
	if _, ok := specLabels[spec]; !ok {
		return "", fmt.Errorf("unknown specification %q", s)
	}
	return spec, nil
}

// JobType is the kind of asphalt work quoted.
type JobType string

const (
	JobMillAndFill        JobType = "mill_and_fill"
	JobResheet            JobType = "resheet"
	JobOverlay            JobType = "overlay"
	JobPatching           JobType = "patching"
	JobFullReconstruction JobType = "full_reconstruction"
)

var JobTypes = []JobType{JobMillAndFill, JobResheet, JobOverlay, JobPatching, JobFullReconstruction}

var jobTypeLabels = map[JobType]string{
	JobMillAndFill:        "Mill & Fill",
	JobResheet:            "Resheet",
	JobOverlay:            "Overlay",
	JobPatching:           "Patching",
	JobFullReconstruction: "Full Reconstruction",
}

func (j JobType) Label() string {
	if l, ok := jobTypeLabels[j]; ok {
		return l
	}
	return string(j)
}

func ParseJobType(s string) (JobType, error) {
	j := JobType(s)
	if _, ok := jobTypeLabels[j]; !ok {
		return "", fmt.Errorf("unknown job type %q", s)
	}
	return j, nil
}

// JobStatus tracks a job from first draft through to invoicing.
type JobStatus string

const (
	StatusDraft      JobStatus = "draft"
	StatusQuoted     JobStatus = "quoted"
	StatusApproved   JobStatus = "approved"
	StatusScheduled  JobStatus = "scheduled"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
	StatusInvoiced   JobStatus = "invoiced"
	StatusCancelled  JobStatus = "cancelled"
)

var JobStatuses = []JobStatus{
	StatusDraft, StatusQuoted, StatusApproved, StatusScheduled,
	StatusInProgress, StatusCompleted, StatusInvoiced, StatusCancelled,
}

var jobStatusLabels = map[JobStatus]string{
	StatusDraft:      "Draft",
	StatusQuoted:     "Quoted",
	StatusApproved:   "Approved",
	StatusScheduled:  "Scheduled",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusInvoiced:   "Invoiced",
	StatusCancelled:  "Cancelled",
}

func (s JobStatus) Label() string {
	if l, ok := jobStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func ParseJobStatus(s string) (JobStatus, error) {
	for _, st := range JobStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// TruckType is the largest vehicle that can access the site.
type TruckType string

const (
	TruckAndDog TruckType = "truck_and_dog"
	TruckSemi   TruckType = "semi_trailer"
	TruckRigid  TruckType = "rigid_truck"
	TruckBody   TruckType = "body_truck"
	TruckAny    TruckType = "any"
)

const DefaultTruck = TruckAny

var truckLabels = map[TruckType]string{
	TruckAndDog: "Truck & Dog",
	TruckSemi:   "Semi Trailer",
	TruckRigid:  "Rigid Truck",
	TruckBody:   "Body Truck",
	TruckAny:    "Any",
}

func (t TruckType) Label() string {
	if l, ok := truckLabels[t]; ok {
		return l
	}
	return string(t)
}

var TruckTypes = []TruckType{TruckAndDog, TruckSemi, TruckRigid, TruckBody, TruckAny}

func ParseTruckType(s string) (TruckType, error) {
	if s == "" {
		return DefaultTruck, nil
	}
	for _, tt := range TruckTypes {
		if string(tt) == s {
			return tt, nil
		}
	}
	return "", fmt.Errorf("unknown truck type %q", s)
}

// enumStrings converts a typed enum slice into plain strings for schema select fields.
func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// MixTypeValues, SpecificationValues etc. feed PocketBase select field definitions.
func MixTypeValues() []string       { return enumStrings(MixTypes) }
func SpecificationValues() []string { return enumStrings(Specifications) }
func JobTypeValues() []string       { return enumStrings(JobTypes) }
func JobStatusValues() []string     { return enumStrings(JobStatuses) }
func TruckTypeValues() []string     { return enumStrings(TruckTypes) }
