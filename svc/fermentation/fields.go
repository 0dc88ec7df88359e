package fermentation

// Field names used in validation diagnostics.
const (
	FieldValue        = "value"
	FieldSampleType   = "sample_type"
	FieldRecordedAt   = "recorded_at"
	FieldChronology   = "chronology"
	FieldTimeline     = "fermentation_timeline"
	FieldRepository   = "repository"
	FieldSugar        = "sugar"
	FieldSugarTrend   = "sugar_trend"
	FieldTemperature  = "temperature"
	FieldTempRange    = "temperature_range"
	FieldStatus       = "status"
	FieldInputMass    = "input_mass_kg"
	FieldInitialSugar = "initial_sugar_brix"
	FieldInitialDens  = "initial_density"
	FieldVintageYear  = "vintage_year"
	FieldStartDate    = "start_date"
	FieldDurationDays = "duration_days"
	FieldFinalSugar   = "final_sugar_brix"
)

const (
	// MinFermentationDays is the shortest duration after which completion is plausible.
	MinFermentationDays = 7
	// DryWineSugarThreshold is the residual sugar (°Brix) a completed batch must stay below.
	DryWineSugarThreshold = 5.0
	// MaxInitialSugarBrix is the upper bound for the must's sugar at creation.
	MaxInitialSugarBrix = 30.0
)
