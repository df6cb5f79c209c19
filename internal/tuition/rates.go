package tuition

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed rates.yaml
var defaultRates []byte

// Residency decides the per credit hour rate
type Residency string

const (
	InState    Residency = "in-state"
	OutOfState Residency = "out-of-state"
)

// Item is a named semester charge
type Item struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Rates holds the semester rate tables
type Rates struct {
	MonthsPerSemester int
	MaxCreditHours    int
	CreditHour        map[Residency]decimal.Decimal
	Rooms             []Item
	MealPlans         []Item
	Fees              []Item
}

type rateFile struct {
	MonthsPerSemester int                   `yaml:"monthsPerSemester"`
	MaxCreditHours    int                   `yaml:"maxCreditHours"`
	CreditHour        map[Residency]float64 `yaml:"creditHour"`
	Rooms             []rateItem            `yaml:"rooms"`
	MealPlans         []rateItem            `yaml:"mealPlans"`
	Fees              []rateItem            `yaml:"fees"`
}

type rateItem struct {
	Name   string  `yaml:"name"`
	Amount float64 `yaml:"amount"`
}

func toItems(in []rateItem) []Item {
	return lo.Map(in, func(r rateItem, _ int) Item {
		return Item{Name: r.Name, Amount: decimal.NewFromFloat(r.Amount)}
	})
}

// ParseRates decodes a YAML rate table
func ParseRates(data []byte) (*Rates, error) {
	var f rateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing rates: %w", err)
	}
	if f.MonthsPerSemester <= 0 {
		return nil, fmt.Errorf("monthsPerSemester must be positive")
	}
	for _, r := range []Residency{InState, OutOfState} {
		if _, ok := f.CreditHour[r]; !ok {
			return nil, fmt.Errorf("missing credit hour rate for %s", r)
		}
	}
	return &Rates{
		MonthsPerSemester: f.MonthsPerSemester,
		MaxCreditHours:    f.MaxCreditHours,
		CreditHour: lo.MapValues(f.CreditHour, func(v float64, _ Residency) decimal.Decimal {
			return decimal.NewFromFloat(v)
		}),
		Rooms:     toItems(f.Rooms),
		MealPlans: toItems(f.MealPlans),
		Fees:      toItems(f.Fees),
	}, nil
}

// LoadRates reads the rate table at path, or the built-in table when path
// is empty
func LoadRates(path string) (*Rates, error) {
	if path == "" {
		return ParseRates(defaultRates)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rates file: %w", err)
	}
	return ParseRates(data)
}
