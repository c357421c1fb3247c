package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GSaiKiran15/Case-Wage-Pro/model"
)

// Conversions from hourly, weekly and monthly pay to annual pay.
const (
	HoursPerYear  = 2080
	WeeksPerYear  = 52
	MonthsPerYear = 12
)

// Values below this are read as hourly when no unit is given.
var hourlyCeiling = decimal.NewFromInt(1000)

var (
	payNumber   = regexp.MustCompile(`\d[\d,]*(\.\d+)?\s*[kK]?`)
	hourlyUnit  = regexp.MustCompile(`(?i)(/\s*(hr|hour|h)\b|per\s+(hour|hr)\b|hourly|an\s+hour)`)
	annualUnit  = regexp.MustCompile(`(?i)(/\s*(yr|year|y|annum)\b|per\s+(year|yr|annum)\b|annual|yearly|a\s+year)`)
	monthlyUnit = regexp.MustCompile(`(?i)(/\s*(mo|mon|month)\b|per\s+(month|mo)\b|monthly|a\s+month)`)
	weeklyUnit  = regexp.MustCompile(`(?i)(/\s*(wk|week)\b|per\s+(week|wk)\b|weekly|a\s+week)`)
	anyUnit     = regexp.MustCompile(`(?i)(/\s*[a-z]+|\bper\s+[a-z]+)`)
	seniorRoles = []string{"lead", "architect", "manager", "principal", "director"}
)

// Pay is an offered wage normalised to an annual amount.
type Pay struct {
	Annual decimal.Decimal
	Hourly bool // the offer was stated per hour
}

// ParsePay reads offers like "$40/hour", "$9,500/month", "$120,000/year",
// "150k" or "95000". ok is false when no amount can be found or the pay
// period is one it does not know, such as "/day".
func ParsePay(s string) (Pay, bool) {
	match := payNumber.FindString(s)
	if match == "" {
		return Pay{}, false
	}
	text := strings.TrimSpace(match)
	thousands := strings.HasSuffix(strings.ToLower(text), "k")
	text = strings.TrimSpace(strings.TrimRight(text, "kK"))
	amount, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
	if err != nil || !amount.IsPositive() {
		return Pay{}, false
	}
	if thousands {
		amount = amount.Mul(decimal.NewFromInt(1000))
	}

	switch {
	case hourlyUnit.MatchString(s):
		return Pay{Annual: amount.Mul(decimal.NewFromInt(HoursPerYear)), Hourly: true}, true
	case weeklyUnit.MatchString(s):
		return Pay{Annual: amount.Mul(decimal.NewFromInt(WeeksPerYear))}, true
	case monthlyUnit.MatchString(s):
		return Pay{Annual: amount.Mul(decimal.NewFromInt(MonthsPerYear))}, true
	case annualUnit.MatchString(s), thousands:
		return Pay{Annual: amount}, true
	case anyUnit.MatchString(s):
		return Pay{}, false
	case amount.LessThan(hourlyCeiling):
		return Pay{Annual: amount.Mul(decimal.NewFromInt(HoursPerYear)), Hourly: true}, true
	default:
		return Pay{Annual: amount}, true
	}
}

// AnnualWage converts a dataset wage to an annual amount. Survey values
// below 1000 are hourly rates.
func AnnualWage(w model.Wage) (decimal.Decimal, bool) {
	d, ok := w.Decimal()
	if !ok {
		return decimal.Decimal{}, false
	}
	if d.LessThan(hourlyCeiling) {
		return d.Mul(decimal.NewFromInt(HoursPerYear)), true
	}
	return d, true
}

// Advise annotates a final classification with notes derived from the
// caller's hints. The level is an input here and is never changed.
func Advise(level model.WageLevel, advisory *model.AdvisoryContext) []model.AdvisoryNote {
	notes := []model.AdvisoryNote{}
	if advisory == nil {
		return notes
	}

	pay := strings.TrimSpace(advisory.Pay)
	switch {
	case pay == "" || strings.EqualFold(pay, "unknown"):
		notes = append(notes, model.AdvisoryNote{
			Code:    model.AdvisoryPayNotProvided,
			Message: "No pay rate was given, so compensation against the prevailing wage was not checked.",
		})
	default:
		if _, ok := ParsePay(pay); !ok {
			notes = append(notes, model.AdvisoryNote{
				Code:    model.AdvisoryPayUnparseable,
				Message: fmt.Sprintf("Pay rate '%s' could not be read as an amount.", pay),
			})
		}
	}

	if advisory.Location() == "" {
		notes = append(notes, model.AdvisoryNote{
			Code:    model.AdvisoryLocationNotGiven,
			Message: "No work location was given, so the prevailing wage for the area was not checked.",
		})
	}

	role := strings.ToLower(strings.TrimSpace(advisory.RoleType))
	if role != "" && (level == model.WageLevel1 || level == model.WageLevel2) && containsAny(role, seniorRoles) {
		notes = append(notes, model.AdvisoryNote{
			Code: model.AdvisoryRoleTypeMismatch,
			Message: fmt.Sprintf("Role type '%s' suggests duties above Level %s, but the job description does not support a higher level. "+
				"Describe the leadership, autonomy and decision scope in the job description if they apply.", advisory.RoleType, level),
		})
	}
	return notes
}

// CompensationRisk compares the offered pay with the prevailing wage of
// the area record at the classified level. It returns nil when pay is
// missing or unreadable; Advise reports those cases.
func CompensationRisk(level model.WageLevel, pay string, record *model.AreaWageRecord) []model.AdvisoryNote {
	offer, ok := ParsePay(pay)
	if !ok {
		return nil
	}
	if record == nil {
		return []model.AdvisoryNote{{
			Code:    model.AdvisoryPrevailingMissing,
			Message: "The occupation is not surveyed in this area, so the offered pay could not be compared with a prevailing wage.",
		}}
	}

	wage, _ := record.WageAt(level)
	prevailing, ok := AnnualWage(wage)
	if !ok {
		return []model.AdvisoryNote{{
			Code:    model.AdvisoryPrevailingMissing,
			Message: fmt.Sprintf("No Level %s prevailing wage is published for %s.", level, record.AreaName),
		}}
	}

	if offer.Annual.LessThan(prevailing) {
		return []model.AdvisoryNote{{
			Code: model.AdvisoryCompensationRisk,
			Message: fmt.Sprintf("Offered pay of %s per year is below the Level %s prevailing wage of %s per year in %s.",
				offer.Annual.StringFixed(0), level, prevailing.StringFixed(0), record.AreaName),
		}}
	}

	if next, ok := nextLevel(level); ok {
		if w, _ := record.WageAt(next); w.Valid() {
			if nextWage, _ := AnnualWage(w); !offer.Annual.LessThan(nextWage) {
				return []model.AdvisoryNote{{
					Code: model.AdvisoryPayAboveLevel,
					Message: fmt.Sprintf("Offered pay also meets the Level %s prevailing wage of %s per year. The level is set by the job duties and was not raised.",
						next, nextWage.StringFixed(0)),
				}}
			}
		}
	}
	return nil
}

func nextLevel(level model.WageLevel) (model.WageLevel, bool) {
	for i, l := range model.WageLevels {
		if l == level && i+1 < len(model.WageLevels) {
			return model.WageLevels[i+1], true
		}
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
