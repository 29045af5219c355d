package transmute_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transmuter/accessor"
	"transmuter/construct"
	"transmuter/transmute"
)

func TestMapDictionaryRecords(t *testing.T) {
	plan, err := transmute.CompileMapping[any](transmute.Spec(
		"id", "id",
		"temperature_fahrenheit", transmute.Transform("temperature_celsius", celsiusToFahrenheit),
		"humidity_proportion", transmute.Transform("humidity_percentage", percentToProportion),
	), transmute.DictionaryVariant())
	require.NoError(t, err)

	m, err := transmute.NewMapper[any](plan, nil)
	require.NoError(t, err)

	out, err := m.Map(map[string]any{"id": 1, "temperature_celsius": 25, "humidity_percentage": 50})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{
		"id":                     1,
		"temperature_fahrenheit": 77.0,
		"humidity_proportion":    0.5,
	}, out)
}

func TestMapStructRecords(t *testing.T) {
	plan, err := transmute.CompileMapping[*WeatherMapper](transmute.Spec(
		"id", transmute.Field("id"),
		"temperature_fahrenheit", transmute.Transform("temperature_celsius", celsiusToFahrenheit),
		"humidity_proportion", transmute.Method((*WeatherMapper).Humidity),
	), transmute.WithConstructor(construct.Struct[Weather]()))
	require.NoError(t, err)

	m, err := transmute.NewMapper(plan, &WeatherMapper{})
	require.NoError(t, err)

	got, err := transmute.MapAs[Weather](m, WeatherRecord{ID: 1, TemperatureCelsius: 25, HumidityPercentage: 50})
	require.NoError(t, err)
	assert.Equal(t, Weather{ID: 1, TemperatureFahrenheit: 77, HumidityProportion: 0.5}, got)
}

func TestMapListPreservesOrder(t *testing.T) {
	plan := transmute.MustCompileMapping[any](transmute.Spec(
		"f", transmute.Transform("TemperatureCelsius", celsiusToFahrenheit),
	))

	m, err := transmute.NewMapper[any](plan, nil)
	require.NoError(t, err)

	records := transmute.Records([]WeatherRecord{
		{TemperatureCelsius: 0},
		{TemperatureCelsius: 100},
		{TemperatureCelsius: 0},
	})

	out, err := m.MapList(records)
	require.NoError(t, err)
	require.Len(t, out, len(records))

	for i, rec := range records {
		single, err := m.Map(rec)
		require.NoError(t, err)
		assert.Equal(t, single, out[i])
	}

	assert.Equal(t, map[any]any{"f": 212.0}, out[1])

	empty, err := m.MapList(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMapBoundMethods(t *testing.T) {
	tests := []struct {
		name  string
		entry any
	}{
		{"method expression", transmute.Method((*WeatherMapper).Humidity)},
		{"method name", transmute.MethodNamed("Humidity")},
		{"bare method expression", (*WeatherMapper).Humidity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := transmute.CompileMapping[*WeatherMapper](transmute.Spec("h", tt.entry))
			require.NoError(t, err)

			m, err := transmute.NewMapper(plan, &WeatherMapper{})
			require.NoError(t, err)

			out, err := m.Map(WeatherRecord{HumidityPercentage: 40})
			require.NoError(t, err)
			assert.Equal(t, map[any]any{"h": 0.4}, out)
		})
	}
}

func TestMapContextIsReadAtCallTime(t *testing.T) {
	plan := transmute.MustCompileMapping[*WeatherMapper](transmute.Spec(
		"t", transmute.Transform("TemperatureCelsius", transmute.Method((*WeatherMapper).Offset)),
		"c", transmute.Contextual(func(ctx any, _ any) (any, error) { return ctx, nil }),
	))

	self := &WeatherMapper{}

	m, err := transmute.NewMapper(plan, self, transmute.WithContext(1.5))
	require.NoError(t, err)
	assert.Equal(t, 1.5, m.Context())

	rec := WeatherRecord{TemperatureCelsius: 10}

	out, err := m.Map(rec)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"t": 11.5, "c": 1.5}, out)

	require.NoError(t, m.SetContext(-10.0))

	out, err = m.Map(rec)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"t": 0.0, "c": -10.0}, out)

	// the instance itself is the holder
	self.SetContext(0.0)

	out, err = m.Map(rec)
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"t": 10.0, "c": 0.0}, out)
	assert.Same(t, self, m.Self())
}

func TestMapMissingField(t *testing.T) {
	plan := transmute.MustCompileMapping[any](transmute.Spec(
		"id", "ID",
		"pressure", "Pressure",
	))

	m, err := transmute.NewMapper[any](plan, nil)
	require.NoError(t, err)

	out, err := m.Map(WeatherRecord{ID: 1})
	require.ErrorIs(t, err, accessor.ErrMissingField)
	assert.Nil(t, out)

	var missing *accessor.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Pressure", missing.Key)

	list, err := m.MapList([]any{WeatherRecord{ID: 1}})
	require.ErrorIs(t, err, accessor.ErrMissingField)
	assert.Nil(t, list)
}

func TestMapPropagatesUserErrors(t *testing.T) {
	plan := transmute.MustCompileMapping[any](transmute.Spec(
		"t", transmute.Transform("TemperatureCelsius", failing),
	))

	m, err := transmute.NewMapper[any](plan, nil)
	require.NoError(t, err)

	_, err = m.Map(WeatherRecord{})
	assert.Same(t, errBoom, err)
}

func TestMapArbitraryKeys(t *testing.T) {
	type point struct{ x, y int }

	plan := transmute.MustCompileMapping[any](transmute.Spec(
		point{0, 0}, 1,
		"pair", [2]string{"a", "b"},
		3.5, transmute.Transform(point{1, 2}, func(v int) int { return v * 2 }),
	), transmute.DictionaryVariant())

	m, err := transmute.NewMapper[any](plan, nil)
	require.NoError(t, err)

	out, err := m.Map(map[any]any{1: "one", [2]string{"a", "b"}: true, point{1, 2}: 21})
	require.NoError(t, err)
	assert.Equal(t, map[any]any{point{0, 0}: "one", "pair": true, 3.5: 42}, out)
}

func TestNewMapperErrors(t *testing.T) {
	bound := transmute.MustCompileMapping[*WeatherMapper](transmute.Spec("h", transmute.MethodNamed("Humidity")))

	_, err := transmute.NewMapper(bound, nil)
	require.ErrorIs(t, err, transmute.ErrNilInstance)

	free := transmute.MustCompileMapping[*Other](transmute.Spec("id", "ID"))

	_, err = transmute.NewMapper(free, &Other{}, transmute.WithContext(1))
	require.ErrorIs(t, err, transmute.ErrNoContextHolder)

	m, err := transmute.NewMapper(free, &Other{})
	require.NoError(t, err)
	require.ErrorIs(t, m.SetContext(1), transmute.ErrNoContextHolder)
	assert.Nil(t, m.Context())
}

func TestMapAsWrongType(t *testing.T) {
	plan := transmute.MustCompileMapping[any](transmute.Spec("id", "ID"))

	m, err := transmute.NewMapper[any](plan, nil)
	require.NoError(t, err)

	_, err = transmute.MapAs[Weather](m, WeatherRecord{ID: 1})
	require.ErrorIs(t, err, transmute.ErrResultType)

	_, err = transmute.MapListAs[Weather](m, []any{WeatherRecord{ID: 1}})
	require.ErrorIs(t, err, transmute.ErrResultType)
	assert.Contains(t, err.Error(), "result 0")
}

func TestMapLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	plan := transmute.MustCompileMapping[any](transmute.Spec("id", "ID"), transmute.WithPlanLogger(logger))
	assert.Contains(t, buf.String(), "mapping compiled")

	m, err := transmute.NewMapper[any](plan, nil, transmute.WithLogger(logger))
	require.NoError(t, err)

	_, err = m.MapList([]any{WeatherRecord{ID: 1}, WeatherRecord{ID: 2}})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"records":2`)
	assert.Contains(t, buf.String(), "records mapped")
}
