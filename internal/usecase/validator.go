package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"flightsearch-service/internal/domain/entity"
)

// Check names one authenticity rule. The validator reports the first
// failing check as the rejection reason.
type Check string

const (
	CheckCompleteness Check = "completeness"
	CheckCarrierCode  Check = "carrier_code"
	CheckAirportCode  Check = "airport_code"
	CheckFlightNumber Check = "flight_number"
	CheckPrice        Check = "price"
	CheckTemporal     Check = "temporal"
	CheckFabrication  Check = "fabrication_marker"
)

// Rejection is the typed error for an offer that failed an authenticity
// check. Rejections are counted, never escalated to fatal errors.
type Rejection struct {
	Check  Check
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("rejected by %s check: %s", r.Check, r.Detail)
}

// Ruleset is the data behind the authenticity checks. It is loaded once at
// startup (carrier and airport sets come from the reference database) and
// never mutated afterwards, so a validator can be shared across goroutines.
type Ruleset struct {
	CarrierCodes      map[string]struct{}
	AirportCodes      map[string]struct{}
	MinPrice          float64
	MaxPrice          float64
	BlockedPrices     []float64
	FabricationTokens []string
	TimeLayouts       []string
	HorizonDays       int
}

// DefaultRuleset returns the baseline rule data. Carrier and airport sets
// start empty and must be filled in by the caller.
func DefaultRuleset() Ruleset {
	return Ruleset{
		CarrierCodes: make(map[string]struct{}),
		AirportCodes: make(map[string]struct{}),
		MinPrice:     50,
		MaxPrice:     10000,
		BlockedPrices: []float64{
			999.99, 1000.00, 123.45, 100.00,
		},
		FabricationTokens: []string{
			"test", "fake", "dummy", "example", "sample", "mock",
			"generated", "placeholder", "demo", "xxx", "yyy",
		},
		TimeLayouts: []string{
			"2006-01-02 15:04:05",
			"2006-01-02T15:04:05",
			time.RFC3339,
			"2006-01-02 15:04",
		},
		HorizonDays: 365,
	}
}

// WithCarriers sets the known-carrier codes, uppercased.
func (rs Ruleset) WithCarriers(codes []string) Ruleset {
	rs.CarrierCodes = make(map[string]struct{}, len(codes))
	for _, c := range codes {
		rs.CarrierCodes[strings.ToUpper(c)] = struct{}{}
	}
	return rs
}

// WithAirports sets the known-airport codes, uppercased.
func (rs Ruleset) WithAirports(codes []string) Ruleset {
	rs.AirportCodes = make(map[string]struct{}, len(codes))
	for _, c := range codes {
		rs.AirportCodes[strings.ToUpper(c)] = struct{}{}
	}
	return rs
}

var (
	carrierCodeRe  = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)
	flightDigitsRe = regexp.MustCompile(`^\d{1,4}$`)
)

// AuthenticityValidator decides, per offer, whether it is plausible
// real-world data. It is pure: no mutable state, safe for concurrent use.
type AuthenticityValidator struct {
	rules Ruleset
	now   func() time.Time
}

// NewAuthenticityValidator creates a validator over the given rule data
func NewAuthenticityValidator(rules Ruleset) *AuthenticityValidator {
	return &AuthenticityValidator{
		rules: rules,
		now:   time.Now,
	}
}

// Validate applies every authenticity check in order, short-circuiting on
// the first failure. On success it returns the canonical offer with parsed
// timestamps; on failure the error is a *Rejection naming the failed check.
func (v *AuthenticityValidator) Validate(raw entity.RawOffer) (entity.FlightOffer, error) {
	carrier := strings.ToUpper(strings.TrimSpace(raw.CarrierCode))
	flightNo := strings.ToUpper(strings.TrimSpace(raw.FlightNumber))
	origin := strings.ToUpper(strings.TrimSpace(raw.Origin))
	destination := strings.ToUpper(strings.TrimSpace(raw.Destination))

	if err := v.checkCompleteness(raw, carrier, flightNo, origin, destination); err != nil {
		return entity.FlightOffer{}, err
	}
	if err := v.checkCarrier(carrier); err != nil {
		return entity.FlightOffer{}, err
	}
	if err := v.checkAirports(origin, destination); err != nil {
		return entity.FlightOffer{}, err
	}
	if err := v.checkFlightNumber(carrier, flightNo); err != nil {
		return entity.FlightOffer{}, err
	}
	if err := v.checkPrice(raw.Price); err != nil {
		return entity.FlightOffer{}, err
	}
	departure, arrival, err := v.checkTemporal(raw.DepartureTime, raw.ArrivalTime)
	if err != nil {
		return entity.FlightOffer{}, err
	}
	if err := v.checkFabricationMarkers(raw); err != nil {
		return entity.FlightOffer{}, err
	}

	duration := raw.DurationSeconds
	if !arrival.IsZero() {
		duration = int64(arrival.Sub(departure).Seconds())
	}

	return entity.FlightOffer{
		CarrierCode:     carrier,
		FlightNumber:    flightNo,
		Origin:          origin,
		Destination:     destination,
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		Price:           raw.Price,
		Currency:        strings.ToUpper(raw.Currency),
		DurationSeconds: duration,
		SourceID:        raw.SourceID,
		AircraftType:    raw.AircraftType,
		CabinClass:      raw.CabinClass,
		StopCount:       raw.StopCount,
	}, nil
}

func (v *AuthenticityValidator) checkCompleteness(raw entity.RawOffer, carrier, flightNo, origin, destination string) error {
	switch {
	case carrier == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing carrierCode"}
	case flightNo == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing flightNumber"}
	case origin == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing origin"}
	case destination == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing destination"}
	case raw.DepartureTime == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing departureTime"}
	case raw.Price == 0:
		return &Rejection{Check: CheckCompleteness, Detail: "missing price"}
	case raw.Currency == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing currency"}
	case raw.SourceID == "":
		return &Rejection{Check: CheckCompleteness, Detail: "missing sourceId"}
	}
	return nil
}

func (v *AuthenticityValidator) checkCarrier(carrier string) error {
	if !carrierCodeRe.MatchString(carrier) {
		return &Rejection{Check: CheckCarrierCode, Detail: fmt.Sprintf("malformed carrier code %q", carrier)}
	}
	if _, ok := v.rules.CarrierCodes[carrier]; !ok {
		return &Rejection{Check: CheckCarrierCode, Detail: fmt.Sprintf("unknown carrier %q", carrier)}
	}
	return nil
}

func (v *AuthenticityValidator) checkAirports(origin, destination string) error {
	for _, code := range []string{origin, destination} {
		if len(code) != 3 {
			return &Rejection{Check: CheckAirportCode, Detail: fmt.Sprintf("malformed airport code %q", code)}
		}
		if _, ok := v.rules.AirportCodes[code]; !ok {
			return &Rejection{Check: CheckAirportCode, Detail: fmt.Sprintf("unknown airport %q", code)}
		}
	}
	if origin == destination {
		return &Rejection{Check: CheckAirportCode, Detail: "origin equals destination"}
	}
	return nil
}

func (v *AuthenticityValidator) checkFlightNumber(carrier, flightNo string) error {
	suffix, ok := strings.CutPrefix(flightNo, carrier)
	if !ok || !flightDigitsRe.MatchString(suffix) {
		return &Rejection{Check: CheckFlightNumber, Detail: fmt.Sprintf("flight number %q does not match carrier %s", flightNo, carrier)}
	}
	return nil
}

func (v *AuthenticityValidator) checkPrice(price float64) error {
	if price < v.rules.MinPrice || price > v.rules.MaxPrice {
		return &Rejection{Check: CheckPrice, Detail: fmt.Sprintf("price %.2f outside [%.2f, %.2f]", price, v.rules.MinPrice, v.rules.MaxPrice)}
	}
	formatted := fmt.Sprintf("%.2f", price)
	for _, blocked := range v.rules.BlockedPrices {
		if formatted == fmt.Sprintf("%.2f", blocked) {
			return &Rejection{Check: CheckPrice, Detail: fmt.Sprintf("price %s is a known placeholder value", formatted)}
		}
	}
	if isRepeatedDigitPrice(formatted) {
		return &Rejection{Check: CheckPrice, Detail: fmt.Sprintf("price %s is a repeated-digit pattern", formatted)}
	}
	return nil
}

// isRepeatedDigitPrice reports whether a formatted price looks like 111.11,
// 222.22 and so on: three integer digits and two decimals, all equal.
func isRepeatedDigitPrice(formatted string) bool {
	if len(formatted) != 6 || formatted[3] != '.' {
		return false
	}
	d := formatted[0]
	return formatted[1] == d && formatted[2] == d && formatted[4] == d && formatted[5] == d
}

func (v *AuthenticityValidator) checkTemporal(departureStr, arrivalStr string) (time.Time, time.Time, error) {
	departure, ok := v.parseTime(departureStr)
	if !ok {
		return time.Time{}, time.Time{}, &Rejection{Check: CheckTemporal, Detail: fmt.Sprintf("unparseable departure time %q", departureStr)}
	}

	now := v.now()
	if !departure.After(now) {
		return time.Time{}, time.Time{}, &Rejection{Check: CheckTemporal, Detail: "departure is not in the future"}
	}
	if departure.After(now.AddDate(0, 0, v.rules.HorizonDays)) {
		return time.Time{}, time.Time{}, &Rejection{Check: CheckTemporal, Detail: fmt.Sprintf("departure is more than %d days ahead", v.rules.HorizonDays)}
	}

	var arrival time.Time
	if arrivalStr != "" {
		arrival, ok = v.parseTime(arrivalStr)
		if !ok {
			return time.Time{}, time.Time{}, &Rejection{Check: CheckTemporal, Detail: fmt.Sprintf("unparseable arrival time %q", arrivalStr)}
		}
		if arrival.Before(departure) {
			return time.Time{}, time.Time{}, &Rejection{Check: CheckTemporal, Detail: "arrival precedes departure"}
		}
	}

	return departure, arrival, nil
}

func (v *AuthenticityValidator) parseTime(value string) (time.Time, bool) {
	for _, layout := range v.rules.TimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (v *AuthenticityValidator) checkFabricationMarkers(raw entity.RawOffer) error {
	fields := strings.ToLower(strings.Join([]string{
		raw.CarrierCode, raw.FlightNumber, raw.Origin, raw.Destination,
		raw.DepartureTime, raw.ArrivalTime, raw.Currency, raw.SourceID,
		raw.AircraftType, raw.CabinClass,
	}, "\x00"))

	for _, token := range v.rules.FabricationTokens {
		if strings.Contains(fields, token) {
			return &Rejection{Check: CheckFabrication, Detail: fmt.Sprintf("field value contains %q", token)}
		}
	}
	return nil
}
