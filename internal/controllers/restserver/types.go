package restserver

// MessageResponse is the body of the root endpoint.
type MessageResponse struct {
	Message string `json:"message"`
}

// LocationResponse echoes the requested coordinates.
type LocationResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BodyTimesResponse holds one body's rise and set for the day. Rise and Set
// are null when the body is circumpolar or the search failed.
type BodyTimesResponse struct {
	Rise         *string `json:"rise"`
	Set          *string `json:"set"`
	IsAlwaysUp   bool    `json:"is_always_up"`
	IsAlwaysDown bool    `json:"is_always_down"`
}

// MoonPhaseResponse describes the Moon's phase at the target instant.
type MoonPhaseResponse struct {
	PhaseName           string  `json:"phase_name"`
	IlluminationPercent float64 `json:"illumination_percent"`
	AgeDays             float64 `json:"age_days"`
}

// SolsticeResponse labels the year's solstices for the observer's hemisphere.
type SolsticeResponse struct {
	SummerSolstice string `json:"summer_solstice"`
	WinterSolstice string `json:"winter_solstice"`
	Hemisphere     string `json:"hemisphere"`
}

// AstroResponse is the body of /astro-data.
type AstroResponse struct {
	Location             LocationResponse  `json:"location"`
	CurrentDate          string            `json:"current_date"`
	SunTimes             BodyTimesResponse `json:"sun_times"`
	MoonTimes            BodyTimesResponse `json:"moon_times"`
	MoonPhase            MoonPhaseResponse `json:"moon_phase"`
	SolsticesCurrentYear SolsticeResponse  `json:"solstices_current_year"`
}

// LocationResult is one /search-location hit.
type LocationResult struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country *string `json:"country"`
}
