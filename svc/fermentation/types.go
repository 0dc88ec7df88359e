package fermentation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SampleType is the kind of measurement a sample carries.
type SampleType string

const (
	SampleTypeSugar       SampleType = "SUGAR"
	SampleTypeTemperature SampleType = "TEMPERATURE"
	SampleTypeDensity     SampleType = "DENSITY"
)

var sampleTypeUnits = map[SampleType]string{
	SampleTypeSugar:       "°Brix",
	SampleTypeTemperature: "°C",
	SampleTypeDensity:     "g/mL",
}

// SampleTypes returns every known sample type in a stable order.
func SampleTypes() []SampleType {
	return []SampleType{SampleTypeSugar, SampleTypeTemperature, SampleTypeDensity}
}

func (t SampleType) String() string {
	return string(t)
}

func (t SampleType) IsValid() bool {
	_, ok := sampleTypeUnits[t]
	return ok
}

// Units returns the measurement unit, or an empty string for unknown types.
func (t SampleType) Units() string {
	return sampleTypeUnits[t]
}

// ParseSampleType accepts the type name in any letter case.
func ParseSampleType(s string) (SampleType, error) {
	t := SampleType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSampleType, s)
	}
	return t, nil
}

// Sample is a single timestamped measurement that belongs to exactly one batch.
type Sample struct {
	ID             uuid.UUID
	FermentationID uuid.UUID
	Type           SampleType
	Value          float64
	RecordedAt     time.Time
	CreatedAt      time.Time
}

func (s Sample) Units() string {
	return s.Type.Units()
}

// Status is the lifecycle state of a fermentation batch.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusLag       Status = "LAG"
	StatusDecline   Status = "DECLINE"
	StatusSlow      Status = "SLOW"
	StatusStuck     Status = "STUCK"
	StatusCompleted Status = "COMPLETED"
)

// Statuses returns every lifecycle status in a stable order.
func Statuses() []Status {
	return []Status{StatusActive, StatusLag, StatusDecline, StatusSlow, StatusStuck, StatusCompleted}
}

func (s Status) String() string {
	return string(s)
}

// Name implements statemachine.State.
func (s Status) Name() string {
	return string(s)
}

func (s Status) IsValid() bool {
	for _, known := range Statuses() {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus accepts the status name in any letter case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// TemperatureRange is the acceptable band for a batch, bounds inclusive.
type TemperatureRange struct {
	Min float64
	Max float64
}

func (r TemperatureRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r TemperatureRange) String() string {
	return fmt.Sprintf("[%g, %g] %s", r.Min, r.Max, SampleTypeTemperature.Units())
}

// Fermentation is a batch lifecycle record.
type Fermentation struct {
	ID               uuid.UUID
	Status           Status
	StartDate        time.Time
	InputMassKg      float64
	InitialSugarBrix float64
	InitialDensity   float64
	VintageYear      int
	TemperatureRange *TemperatureRange // nil when no band is configured
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminal reports whether the batch can no longer change status.
func (f Fermentation) IsTerminal() bool {
	return f.Status == StatusCompleted || f.Status == StatusStuck
}

// CreationData holds the attributes of a batch about to be created.
type CreationData struct {
	InputMassKg      float64
	InitialSugarBrix float64
	InitialDensity   float64
	VintageYear      int
	StartDate        time.Time         // defaults to the creation time
	InitialStatus    Status            // ACTIVE or LAG, defaults to ACTIVE
	TemperatureRange *TemperatureRange // optional
}
