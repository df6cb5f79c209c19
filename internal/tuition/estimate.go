package tuition

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned for estimates that cannot be computed
var ErrInvalidInput = errors.New("invalid tuition input")

// Housing selects between a campus room and monthly rent
type Housing string

const (
	OnCampus  Housing = "on-campus"
	OffCampus Housing = "off-campus"
)

// Input is one semester's choices. Empty fields contribute nothing.
type Input struct {
	Residency    Residency       `json:"residency"`
	CreditHours  decimal.Decimal `json:"creditHours"`
	Housing      Housing         `json:"housing"`
	RoomType     string          `json:"roomType"`
	MonthlyRent  decimal.Decimal `json:"monthlyRent"`
	MealPlan     string          `json:"mealPlan"`
	MonthlyFood  decimal.Decimal `json:"monthlyFood"`
	Scholarships decimal.Decimal `json:"scholarships"`
}

// Estimate is the semester cost breakdown
type Estimate struct {
	Tuition      decimal.Decimal `json:"tuition"`
	Housing      decimal.Decimal `json:"housing"`
	MealPlan     decimal.Decimal `json:"mealPlan"`
	Food         decimal.Decimal `json:"food"`
	Scholarships decimal.Decimal `json:"scholarships"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Fees         []Item          `json:"fees"`
	FeesTotal    decimal.Decimal `json:"feesTotal"`
	Total        decimal.Decimal `json:"total"`
}

// Estimator prices semesters against a rate table
type Estimator struct {
	rates *Rates
}

// NewEstimator creates an estimator over rates
func NewEstimator(rates *Rates) *Estimator {
	return &Estimator{rates: rates}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func lookup(items []Item, name, what string) (decimal.Decimal, error) {
	item, ok := lo.Find(items, func(i Item) bool { return i.Name == name })
	if !ok {
		return decimal.Zero, invalid("unknown %s %q", what, name)
	}
	return item.Amount, nil
}

// Estimate computes the semester total. Monthly amounts are multiplied by
// the months in a semester, scholarships are subtracted and fees are added
// on top of the subtotal.
func (e *Estimator) Estimate(in Input) (Estimate, error) {
	var (
		est Estimate
		err error
	)
	months := decimal.NewFromInt(int64(e.rates.MonthsPerSemester))

	for name, v := range map[string]decimal.Decimal{
		"creditHours":  in.CreditHours,
		"monthlyRent":  in.MonthlyRent,
		"monthlyFood":  in.MonthlyFood,
		"scholarships": in.Scholarships,
	} {
		if v.IsNegative() {
			return Estimate{}, invalid("%s cannot be negative", name)
		}
	}

	if in.Residency != "" {
		rate, ok := e.rates.CreditHour[in.Residency]
		if !ok {
			return Estimate{}, invalid("unknown residency %q", in.Residency)
		}
		if limit := e.rates.MaxCreditHours; limit > 0 && in.CreditHours.GreaterThan(decimal.NewFromInt(int64(limit))) {
			return Estimate{}, invalid("creditHours cannot exceed %d", limit)
		}
		est.Tuition = in.CreditHours.Mul(rate)
	}

	switch in.Housing {
	case OnCampus:
		if in.RoomType != "" {
			if est.Housing, err = lookup(e.rates.Rooms, in.RoomType, "room type"); err != nil {
				return Estimate{}, err
			}
		}
	case OffCampus:
		est.Housing = in.MonthlyRent.Mul(months)
	case "":
	default:
		return Estimate{}, invalid("housing must be on-campus or off-campus, got %q", in.Housing)
	}

	if in.MealPlan != "" {
		if est.MealPlan, err = lookup(e.rates.MealPlans, in.MealPlan, "meal plan"); err != nil {
			return Estimate{}, err
		}
	}
	est.Food = in.MonthlyFood.Mul(months)
	est.Scholarships = in.Scholarships

	est.Subtotal = decimal.Sum(est.Tuition, est.Housing, est.MealPlan, est.Food).Sub(est.Scholarships)
	est.Fees = e.rates.Fees
	est.FeesTotal = lo.Reduce(est.Fees, func(sum decimal.Decimal, f Item, _ int) decimal.Decimal {
		return sum.Add(f.Amount)
	}, decimal.Zero)
	est.Total = est.Subtotal.Add(est.FeesTotal)
	return est, nil
}
