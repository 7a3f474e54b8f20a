package boating

import (
	"path/filepath"
	"strings"

	"github.com/bbrewington/data-liberation-project-datasets/internal/database"
)

// The boating accident records were released as three extracts whose schemas
// drifted over time: the oldest era uses terse all-caps labels, the middle
// era spelled-out labels, and the 2023 release added a Release Year column.
// One alias map covers every era's labels; the union happens by canonical
// column name, so a column an era never had is simply absent for its rows.
var ColumnAliases = map[string]string{
	// 2000-2009 release
	"BARD ID":       "accident_id",
	"ACC DATE":      "accident_date",
	"ACC TIME":      "accident_time",
	"DAY OF WEEK":   "day_of_week",
	"STATE":         "state",
	"BODY OF WATER": "body_of_water",
	"LATITUDE":      "latitude",
	"LONGITUDE":     "longitude",
	"WX CLEAR":      "weather_clear",
	"WX CLOUDY":     "weather_cloudy",
	"WX FOG":        "weather_fog",
	"WX HAZY":       "weather_hazy",
	"WX RAIN":       "weather_rain",
	"WX SNOW":       "weather_snow",
	"DEATHS":        "number_deaths",
	"INJURIES":      "number_injuries",
	"VESSELS":       "vessels_involved",

	// 2010-2022 release
	"Accident ID":      "accident_id",
	"Accident Date":    "accident_date",
	"Accident Time":    "accident_time",
	"Day of Week":      "day_of_week",
	"State":            "state",
	"Body of Water":    "body_of_water",
	"Latitude":         "latitude",
	"Longitude":        "longitude",
	"Weather Clear":    "weather_clear",
	"Weather Cloudy":   "weather_cloudy",
	"Weather Fog":      "weather_fog",
	"Weather Hazy":     "weather_hazy",
	"Weather Rain":     "weather_rain",
	"Weather Snow":     "weather_snow",
	"Number Deaths":    "number_deaths",
	"Number Injuries":  "number_injuries",
	"Vessels Involved": "vessels_involved",

	// added in the 2023 release only
	"Release Year": "release_year",
}

// EraForFile labels which release an extract belongs to, from its file name.
func EraForFile(filePath string) string {
	base := strings.ToLower(filepath.Base(filePath))
	switch {
	case strings.Contains(base, "2023"):
		return "2023"
	case strings.Contains(base, "2010"):
		return "2010-2022"
	case strings.Contains(base, "2000"):
		return "2000-2009"
	default:
		return "unknown"
	}
}

var Table = database.TableSpec{
	Name: "int_recreational_boating_accidents",
	DDL: `
	CREATE TABLE IF NOT EXISTS int_recreational_boating_accidents (
		accident_id VARCHAR NOT NULL,
		release_era VARCHAR,
		accident_date DATE,
		accident_time VARCHAR,
		day_of_week VARCHAR,
		state VARCHAR,
		body_of_water VARCHAR,
		latitude DOUBLE,
		longitude DOUBLE,
		weather_clear BOOLEAN,
		weather_cloudy BOOLEAN,
		weather_fog BOOLEAN,
		weather_hazy BOOLEAN,
		weather_rain BOOLEAN,
		weather_snow BOOLEAN,
		number_deaths INTEGER,
		number_injuries INTEGER,
		vessels_involved INTEGER,
		release_year INTEGER,
		accident_datetime_completeness VARCHAR NOT NULL,
		coordinates_availability VARCHAR NOT NULL,
		file_id VARCHAR
	);`,
	PostgresDDL: `
	CREATE TABLE IF NOT EXISTS int_recreational_boating_accidents (
		accident_id VARCHAR(255) NOT NULL,
		release_era VARCHAR(20),
		accident_date DATE,
		accident_time VARCHAR(20),
		day_of_week VARCHAR(20),
		state VARCHAR(10),
		body_of_water VARCHAR(255),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		weather_clear BOOLEAN,
		weather_cloudy BOOLEAN,
		weather_fog BOOLEAN,
		weather_hazy BOOLEAN,
		weather_rain BOOLEAN,
		weather_snow BOOLEAN,
		number_deaths INTEGER,
		number_injuries INTEGER,
		vessels_involved INTEGER,
		release_year INTEGER,
		accident_datetime_completeness VARCHAR(20) NOT NULL,
		coordinates_availability VARCHAR(20) NOT NULL,
		file_id VARCHAR(64)
	);`,
	Columns: []string{
		"accident_id",
		"release_era",
		"accident_date",
		"accident_time",
		"day_of_week",
		"state",
		"body_of_water",
		"latitude",
		"longitude",
		"weather_clear",
		"weather_cloudy",
		"weather_fog",
		"weather_hazy",
		"weather_rain",
		"weather_snow",
		"number_deaths",
		"number_injuries",
		"vessels_involved",
		"release_year",
		"accident_datetime_completeness",
		"coordinates_availability",
		"file_id",
	},
	OrderBy: "release_era, accident_id",
}
