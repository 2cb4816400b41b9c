package crops

import (
	"time"
)

// Status is the lifecycle stage of a crop record
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusPlanted   Status = "planted"
	StatusGrowing   Status = "growing"
	StatusFlowering Status = "flowering"
	StatusHarvested Status = "harvested"
	StatusFailed    Status = "failed"
)

// Statuses lists every status in lifecycle order
var Statuses = []Status{StatusPlanned, StatusPlanted, StatusGrowing, StatusFlowering, StatusHarvested, StatusFailed}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// CropData is one row of the yield table
type CropData struct {
	ID           string   `json:"id"`
	CropName     string   `json:"crop_name"`
	Variety      string   `json:"variety"`
	PlantingDate string   `json:"planting_date"`
	Status       Status   `json:"status"`
	YieldAmount  *float64 `json:"yield_amount"`
	Country      string   `json:"country"`
	Region       string   `json:"region"`
}

// CropDetail is the full record returned by the detail endpoint. Numeric
// measurements arrive as decimal strings and are kept that way.
type CropDetail struct {
	CropData

	ScientificName      string    `json:"scientific_name,omitempty"`
	FieldID             string    `json:"field_id,omitempty"`
	PlotNumber          string    `json:"plot_number,omitempty"`
	Latitude            string    `json:"latitude,omitempty"`
	Longitude           string    `json:"longitude,omitempty"`
	SoilType            string    `json:"soil_type,omitempty"`
	IrrigationType      string    `json:"irrigation_type,omitempty"`
	GrowingSeason       string    `json:"growing_season,omitempty"`
	ExpectedHarvestDate string    `json:"expected_harvest_date,omitempty"`
	ActualHarvestDate   string    `json:"actual_harvest_date,omitempty"`
	YieldQualityGrade   string    `json:"yield_quality_grade,omitempty"`
	PlantHeightCM       string    `json:"plant_height_cm,omitempty"`
	FertilizerType      string    `json:"fertilizer_type,omitempty"`
	FertilizerAmountKG  string    `json:"fertilizer_amount_kg,omitempty"`
	PesticideApplied    *bool     `json:"pesticide_applied,omitempty"`
	PesticideType       string    `json:"pesticide_type,omitempty"`
	AvgTemperatureC     string    `json:"avg_temperature_c,omitempty"`
	TotalRainfallMM     string    `json:"total_rainfall_mm,omitempty"`
	ResearcherName      string    `json:"researcher_name,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// FetchParams selects one page of the table
type FetchParams struct {
	Page       int
	PageSize   int
	SearchTerm string
	SortField  string
	// SortOrder is "ascend", "descend" or empty
	SortOrder string
	Filters   map[string][]string
}

// Page is one page of results plus the total matching row count
type Page struct {
	Data  []CropData
	Total int
}

// FilterOptions are the distinct values offered in the column filters
type FilterOptions struct {
	Countries []string
	Crops     []string
	Statuses  []string
}
