// Package reference holds the static airline, aircraft and airport tables used
// when the vendor does not supply dictionaries or is unavailable.
package reference

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dharmasatrya/skyfinder/internal/models"
	"github.com/dharmasatrya/skyfinder/internal/reference/data"
)

var (
	airlineNames  map[string]string
	aircraftNames map[string]string
	airports      []models.Airport
)

func init() {
	var airlineData struct {
		Airlines []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"airlines"`
	}
	mustDecode(data.Airlines, &airlineData)
	airlineNames = make(map[string]string, len(airlineData.Airlines))
	for _, a := range airlineData.Airlines {
		airlineNames[strings.ToUpper(a.Code)] = a.Name
	}

	var aircraftData struct {
		Aircraft []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"aircraft"`
	}
	mustDecode(data.Aircraft, &aircraftData)
	aircraftNames = make(map[string]string, len(aircraftData.Aircraft))
	for _, a := range aircraftData.Aircraft {
		aircraftNames[strings.ToUpper(a.Code)] = a.Name
	}

	var airportData struct {
		Airports []models.Airport `json:"airports"`
	}
	mustDecode(data.Airports, &airportData)
	airports = airportData.Airports
}

func mustDecode(raw []byte, v any) {
	if err := json.Unmarshal(raw, v); err != nil {
		panic("reference: invalid embedded table: " + err.Error())
	}
}

// Lookup resolves a code to a display name. The vendor dictionary wins, then
// the static table, and the code itself is returned when neither knows it.
// Lookup never fails.
func Lookup(code string, vendor, static map[string]string) string {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return code
	}
	if name, ok := vendor[key]; ok && strings.TrimSpace(name) != "" {
		return TitleCase(name)
	}
	if name, ok := static[key]; ok {
		return name
	}
	return code
}

func AirlineName(code string, vendor map[string]string) string {
	return Lookup(code, vendor, airlineNames)
}

func AircraftName(code string, vendor map[string]string) string {
	return Lookup(code, vendor, aircraftNames)
}

// TitleCase turns the vendor's upper-case names ("AIR INDIA") into display
// form ("Air India").
func TitleCase(s string) string {
	// Casers carry state, so one is built per call.
	return cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(s)))
}

// Airports returns a copy of the static airport table.
func Airports() []models.Airport {
	out := make([]models.Airport, len(airports))
	copy(out, airports)
	return out
}

// AirportByCode returns the static entry for an IATA code.
func AirportByCode(code string) (models.Airport, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, a := range airports {
		if a.IATACode == code {
			return a, true
		}
	}
	return models.Airport{}, false
}
