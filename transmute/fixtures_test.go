package transmute_test

import (
	"errors"

	"transmuter/transmute"
)

type WeatherRecord struct {
	ID                 int
	TemperatureCelsius float64
	HumidityPercentage float64
}

type Weather struct {
	ID                    int     `validate:"required"`
	TemperatureFahrenheit float64 `json:"temperature_fahrenheit"`
	HumidityProportion    float64 `validate:"gte=0,lte=1"`
}

type WeatherMapper struct {
	transmute.Base
}

func (m *WeatherMapper) Humidity(r WeatherRecord) float64 {
	return r.HumidityPercentage / 100
}

// Offset adds the context (a float64) to a temperature.
func (m *WeatherMapper) Offset(c float64) float64 {
	off, _ := m.Context().(float64)

	return c + off
}

type Other struct{}

func (Other) Humidity(r WeatherRecord) float64 {
	return r.HumidityPercentage
}

type Child struct {
	Parent string
	First  string
	Last   string
	Age    int
}

type Family struct {
	transmute.Base
}

func (f *Family) Greeting(c Child) string {
	prefix, _ := f.Context().(string)

	return prefix + c.First
}

func (f *Family) Size(members []Child) int {
	return len(members)
}

func celsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func percentToProportion(h float64) float64 {
	return h / 100
}

func fullName(c Child) string {
	return c.First + " " + c.Last
}

func firstString(names []string) string {
	return names[0]
}

func first(values []any) any {
	return values[0]
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

var errBoom = errors.New("boom")

func failing(float64) (float64, error) {
	return 0, errBoom
}

func children() []any {
	return transmute.Records([]Child{
		{Parent: "Tom Smith", First: "Paul", Last: "Smith", Age: 12},
		{Parent: "Anna Lopez", First: "Tupac", Last: "Towers", Age: 7},
		{Parent: "Tom Smith", First: "Laura", Last: "Smith", Age: 3},
	})
}
