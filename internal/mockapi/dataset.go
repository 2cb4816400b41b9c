package mockapi

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/jrsteele09/go-agri-dashboard/internal/utils"
)

const maxPageSize = 100

// datasetNamespace seeds the deterministic record IDs
var datasetNamespace = uuid.MustParse("6f1c2a7e-8d4b-4c3e-9a51-2b7f0d9e4c11")

type cropSpecies struct {
	name       string
	scientific string
	varieties  []string
}

var species = []cropSpecies{
	{"Wheat", "Triticum aestivum", []string{"Winter", "Spring", "Durum"}},
	{"Maize", "Zea mays", []string{"Dent", "Flint", "Sweet"}},
	{"Rice", "Oryza sativa", []string{"Basmati", "Jasmine", "Arborio"}},
	{"Soybean", "Glycine max", []string{"Williams 82", "Harosoy"}},
	{"Barley", "Hordeum vulgare", []string{"Two-row", "Six-row"}},
	{"Coffee", "Coffea arabica", []string{"Typica", "Bourbon"}},
}

var regions = []struct{ country, region string }{
	{"USA", "Iowa"},
	{"Canada", "Saskatchewan"},
	{"Brazil", "Mato Grosso"},
	{"India", "Punjab"},
	{"Kenya", "Rift Valley"},
	{"France", "Beauce"},
	{"Australia", "New South Wales"},
}

var soils = []string{"Loam", "Clay", "Silt", "Sandy loam"}
var irrigation = []string{"Drip", "Sprinkler", "Flood", "Rainfed"}
var grades = []string{"A", "B", "C"}

// GenerateCrops builds n deterministic crop records
func GenerateCrops(n int) []crops.CropDetail {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	records := make([]crops.CropDetail, 0, n)
	for i := 0; i < n; i++ {
		sp := species[i%len(species)]
		loc := regions[(i/2)%len(regions)]
		status := crops.Statuses[i%len(crops.Statuses)]
		planted := base.AddDate(0, 0, i*3)

		var yield *float64
		if status == crops.StatusHarvested {
			yield = utils.Ptr(float64(20+(i*37)%80) / 10)
		}

		record := crops.CropDetail{
			CropData: crops.CropData{
				ID:           uuid.NewSHA1(datasetNamespace, []byte(strconv.Itoa(i))).String(),
				CropName:     sp.name,
				Variety:      sp.varieties[i%len(sp.varieties)],
				PlantingDate: planted.Format(time.DateOnly),
				Status:       status,
				YieldAmount:  yield,
				Country:      loc.country,
				Region:       loc.region,
			},
			ScientificName:      sp.scientific,
			FieldID:             fmt.Sprintf("F-%03d", 100+i),
			PlotNumber:          strconv.Itoa(1 + i%12),
			SoilType:            soils[i%len(soils)],
			IrrigationType:      irrigation[i%len(irrigation)],
			GrowingSeason:       planted.Format("2006"),
			ExpectedHarvestDate: planted.AddDate(0, 4, 0).Format(time.DateOnly),
			PesticideApplied:    utils.Ptr(i%3 == 0),
			ResearcherName:      "Field Team " + strconv.Itoa(1+i%4),
			CreatedAt:           planted,
			UpdatedAt:           planted.AddDate(0, 0, 7),
		}
		if status == crops.StatusHarvested {
			record.ActualHarvestDate = planted.AddDate(0, 4, 3).Format(time.DateOnly)
			record.YieldQualityGrade = grades[i%len(grades)]
		}
		records = append(records, record)
	}
	return records
}

type tableQuery struct {
	page     int
	pageSize int
	search   string
	ordering string
	filters  map[string][]string
}

// dataset answers table queries over a fixed set of records
type dataset struct {
	lock    sync.RWMutex
	records []crops.CropDetail
	byID    map[string]int
}

func newDataset(records []crops.CropDetail) *dataset {
	d := &dataset{records: records, byID: make(map[string]int, len(records))}
	for i, r := range records {
		d.byID[r.ID] = i
	}
	return d
}

func (d *dataset) get(id string) (crops.CropDetail, bool) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	i, ok := d.byID[id]
	if !ok {
		return crops.CropDetail{}, false
	}
	return d.records[i], true
}

// query filters, searches, orders and pages. ok is false when the page is
// past the end of a non-empty result.
func (d *dataset) query(q tableQuery) (rows []crops.CropData, count int, ok bool) {
	d.lock.RLock()
	matched := make([]crops.CropData, 0, len(d.records))
	for _, r := range d.records {
		if matchesFilters(r.CropData, q.filters) && matchesSearch(r.CropData, q.search) {
			matched = append(matched, r.CropData)
		}
	}
	d.lock.RUnlock()

	orderRows(matched, q.ordering)

	count = len(matched)
	start := (q.page - 1) * q.pageSize
	if start >= count && !(count == 0 && q.page == 1) {
		return nil, count, false
	}
	end := start + q.pageSize
	if end > count {
		end = count
	}
	return matched[start:end], count, true
}

func matchesFilters(r crops.CropData, filters map[string][]string) bool {
	for key, allowed := range filters {
		var value string
		switch key {
		case "country":
			value = r.Country
		case "status":
			value = string(r.Status)
		case "crop_name":
			value = r.CropName
		default:
			continue
		}
		if !containsFold(allowed, value) {
			return false
		}
	}
	return true
}

func matchesSearch(r crops.CropData, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, field := range []string{r.CropName, r.Variety, r.Country, r.Region} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

// orderRows sorts in place by "field" or "-field". Unknown fields leave the
// order unchanged.
func orderRows(rows []crops.CropData, ordering string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	less := lessFunc(field)
	if less == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func lessFunc(field string) func(a, b crops.CropData) bool {
	switch field {
	case "crop_name":
		return func(a, b crops.CropData) bool { return a.CropName < b.CropName }
	case "variety":
		return func(a, b crops.CropData) bool { return a.Variety < b.Variety }
	case "planting_date":
		return func(a, b crops.CropData) bool { return a.PlantingDate < b.PlantingDate }
	case "status":
		return func(a, b crops.CropData) bool { return a.Status < b.Status }
	case "country":
		return func(a, b crops.CropData) bool { return a.Country < b.Country }
	case "region":
		return func(a, b crops.CropData) bool { return a.Region < b.Region }
	case "yield_amount":
		// Missing yields sort first
		return func(a, b crops.CropData) bool {
			if a.YieldAmount == nil || b.YieldAmount == nil {
				return a.YieldAmount == nil && b.YieldAmount != nil
			}
			return *a.YieldAmount < *b.YieldAmount
		}
	}
	return nil
}
