package boating

import (
	"strings"

	"github.com/bbrewington/data-liberation-project-datasets/internal/models"
	"github.com/bbrewington/data-liberation-project-datasets/internal/transform"
)

// Clean is the staging transform for a unified boating accident row. The
// weather columns arrive as -1/0 integer flags and normalize through the
// same tri-state rule as the Y/N fields; day-of-week and body-of-water are
// the designated title-cased display fields.
func Clean(raw models.RawRecord, era string) *models.BoatingAccident {
	rec := &models.BoatingAccident{
		AccidentID:   strings.TrimSpace(raw.Get("accident_id")),
		ReleaseEra:   era,
		AccidentDate: transform.ParseDate(raw.Get("accident_date")),
		AccidentTime: transform.CleanText(raw.Get("accident_time")),
		DayOfWeek:    transform.TitleCased(raw.Get("day_of_week")),
		State:        strings.TrimSpace(raw.Get("state")),
		BodyOfWater:  transform.TitleCased(raw.Get("body_of_water")),
		Latitude:     transform.ParseFloat(raw.Get("latitude")),
		Longitude:    transform.ParseFloat(raw.Get("longitude")),

		WeatherClear:  transform.ParseFlag(raw.Get("weather_clear")),
		WeatherCloudy: transform.ParseFlag(raw.Get("weather_cloudy")),
		WeatherFog:    transform.ParseFlag(raw.Get("weather_fog")),
		WeatherHazy:   transform.ParseFlag(raw.Get("weather_hazy")),
		WeatherRain:   transform.ParseFlag(raw.Get("weather_rain")),
		WeatherSnow:   transform.ParseFlag(raw.Get("weather_snow")),

		NumberDeaths:    transform.ParseInt(raw.Get("number_deaths")),
		NumberInjuries:  transform.ParseInt(raw.Get("number_injuries")),
		VesselsInvolved: transform.ParseInt(raw.Get("vessels_involved")),
		ReleaseYear:     transform.ParseInt(raw.Get("release_year")),
	}

	rec.DatetimeCompleteness = datetimeCompleteness(rec.AccidentDate, rec.AccidentTime)
	rec.CoordinatesAvailability = coordinatesAvailability(rec.Latitude, rec.Longitude)

	return rec
}
