package airports

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Airport is a known airport and its reference position
type Airport struct {
	IATA      string  `json:"iata"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Catalog is an immutable IATA code -> airport lookup table.
// It is built once at startup and only read afterwards.
type Catalog struct {
	airports map[string]Airport
}

// NewCatalog returns a catalog holding the built-in airport set
func NewCatalog() *Catalog {
	c := &Catalog{airports: make(map[string]Airport, len(builtinAirports))}
	for _, a := range builtinAirports {
		c.airports[a.IATA] = a
	}
	return c
}

// LoadCatalog returns the built-in catalog extended with the airports found
// in an OurAirports-style CSV file. An empty path yields the built-in set.
// Built-in entries win over CSV rows with the same code.
func LoadCatalog(csvPath string) (*Catalog, error) {
	c := NewCatalog()
	if csvPath == "" {
		return c, nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open airports database: %w", err)
	}
	defer file.Close()

	if _, err := c.readCSV(file); err != nil {
		return nil, fmt.Errorf("failed to read airports database %s: %w", csvPath, err)
	}
	return c, nil
}

func (c *Catalog) readCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, err
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	iataIdx, ok1 := cols["iata_code"]
	latIdx, ok2 := cols["latitude_deg"]
	lonIdx, ok3 := cols["longitude_deg"]
	nameIdx, ok4 := cols["name"]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, fmt.Errorf("missing required columns (iata_code, name, latitude_deg, longitude_deg)")
	}

	added := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, err
		}
		if len(record) <= max(iataIdx, latIdx, lonIdx, nameIdx) {
			continue
		}

		code := strings.ToUpper(strings.TrimSpace(record[iataIdx]))
		if len(code) != 3 {
			continue
		}
		if _, exists := c.airports[code]; exists {
			continue
		}

		lat, err := strconv.ParseFloat(record[latIdx], 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(record[lonIdx], 64)
		if err != nil {
			continue
		}

		c.airports[code] = Airport{IATA: code, Name: record[nameIdx], Latitude: lat, Longitude: lon}
		added++
	}

	return added, nil
}

// Lookup finds an airport by IATA code, case-insensitively
func (c *Catalog) Lookup(code string) (Airport, bool) {
	a, ok := c.airports[strings.ToUpper(code)]
	return a, ok
}

// Has reports whether the code is known
func (c *Catalog) Has(code string) bool {
	_, ok := c.Lookup(code)
	return ok
}

// Missing returns the codes that have no catalog entry
func (c *Catalog) Missing(codes []string) []string {
	var missing []string
	for _, code := range codes {
		if !c.Has(code) {
			missing = append(missing, code)
		}
	}
	return missing
}

// Len returns the number of airports in the catalog
func (c *Catalog) Len() int {
	return len(c.airports)
}

// All returns every airport sorted by IATA code
func (c *Catalog) All() []Airport {
	out := make([]Airport, 0, len(c.airports))
	for _, a := range c.airports {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IATA < out[j].IATA })
	return out
}
