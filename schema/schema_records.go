package schema

// DemandRecord is a work item exactly as the data API returns it.
// Dates are ISO-8601 strings or null.
type DemandRecord struct {
	ID             string  `json:"id" yaml:"id"`
	CreatedDate    *string `json:"created_date" yaml:"created_date"`
	CommitmentDate *string `json:"commitment_date" yaml:"commitment_date"`
	EndDate        *string `json:"end_date" yaml:"end_date"`
	DiscardedAt    *string `json:"discarded_at" yaml:"discarded_at"`
}

// EffortRecord is one effort entry logged against a demand.
type EffortRecord struct {
	EffortValue            float64 `json:"effort_value" yaml:"effort_value"`
	StartTimeToComputation string  `json:"start_time_to_computation" yaml:"start_time_to_computation"`
}

// HoursRecord is a manual additional-hours entry.
type HoursRecord struct {
	Hours     float64 `json:"hours" yaml:"hours"`
	EventDate string  `json:"event_date" yaml:"event_date"`
}

// ContractRecord is the contract or scope reference for a customer.
// Either TotalHours or InitialScope may be absent. InitialScope is the backlog
// size reported upstream; the demand burnup counts demands instead.
type ContractRecord struct {
	StartDate    string   `json:"start_date" yaml:"start_date"`
	EndDate      string   `json:"end_date" yaml:"end_date"`
	TotalHours   *float64 `json:"total_hours" yaml:"total_hours"`
	InitialScope *float64 `json:"initial_scope" yaml:"initial_scope"`
}

// Dataset is everything fetched for one customer in a single round trip.
type Dataset struct {
	Customer        string          `json:"customer" yaml:"customer"`
	Contract        *ContractRecord `json:"contract" yaml:"contract"`
	Demands         []DemandRecord  `json:"demands" yaml:"demands"`
	DemandEfforts   []EffortRecord  `json:"demand_efforts" yaml:"demand_efforts"`
	AdditionalHours []HoursRecord   `json:"additional_hours" yaml:"additional_hours"`
}
