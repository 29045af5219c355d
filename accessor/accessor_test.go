package accessor_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transmuter/accessor"
)

type Reading struct {
	ID                 int
	TemperatureCelsius float64 `json:"temp_c"`
	Humidity           float64 `transmute:"humidity_percentage"`
	Station            *Station
	note               string //nolint:unused // unexported fields are invisible
}

type Station struct {
	Name string
}

func (r Reading) Label() string { return "reading" }

func (r *Reading) Checked() (bool, error) {
	if r.ID < 0 {
		return false, errors.New("negative id")
	}

	return true, nil
}

func TestAttributeGet(t *testing.T) {
	r := &Reading{ID: 1, TemperatureCelsius: 25, Humidity: 50, Station: &Station{Name: "north"}}

	tests := []struct {
		key  string
		want any
	}{
		{"ID", 1},
		{"temp_c", 25.0},
		{"humidity_percentage", 50.0},
		{"temperature_celsius", 25.0},
		{"id", 1},
		{"Label", "reading"},
		{"Checked", true},
		{"Station", &Station{Name: "north"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := accessor.Attribute{}.Get(r, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributeGetByValue(t *testing.T) {
	got, err := accessor.Attribute{}.Get(Reading{ID: 7}, "ID")
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestAttributeGetterError(t *testing.T) {
	_, err := accessor.Attribute{}.Get(&Reading{ID: -1}, "Checked")
	require.EqualError(t, err, "negative id")
}

func TestAttributeMissing(t *testing.T) {
	tests := []struct {
		name   string
		record any
		key    any
		msg    string
	}{
		{
			name:   "unknown field",
			record: Reading{},
			key:    "Humidty",
			msg:    `missing field "Humidty" in accessor_test.Reading (did you mean "Humidity"?)`,
		},
		{
			name:   "unexported",
			record: Reading{},
			key:    "note",
			msg:    `missing field "note" in accessor_test.Reading`,
		},
		{
			name:   "nil pointer",
			record: (*Reading)(nil),
			key:    "ID",
			msg:    `missing field "ID" in *accessor_test.Reading: nil pointer`,
		},
		{
			name:   "non string key",
			record: Reading{},
			key:    3,
			msg:    `missing field 3 in accessor_test.Reading: attribute names must be strings`,
		},
		{
			name:   "map record",
			record: map[string]any{"ID": 1},
			key:    "ID",
			msg:    `missing field "ID" in map[string]interface {}: record is not a struct`,
		},
		{
			name:   "nil record",
			record: nil,
			key:    "ID",
			msg:    `missing field "ID" in nil record`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accessor.Attribute{}.Get(tt.record, tt.key)
			require.ErrorIs(t, err, accessor.ErrMissingField)

			var missing *accessor.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.key, missing.Key)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestLookupFieldCached(t *testing.T) {
	index, ok := accessor.LookupField(reflectType[Reading](), "humidity_percentage")
	require.True(t, ok)

	again, ok := accessor.LookupField(reflectType[Reading](), "humidity_percentage")
	require.True(t, ok)
	assert.Equal(t, index, again)

	_, ok = accessor.LookupField(reflectType[Reading](), "nothing")
	assert.False(t, ok)
}

type pi struct {
	Month string
	Day   int
}

func TestKeyGet(t *testing.T) {
	day := time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)
	record := map[any]any{
		1:                     "an_id",
		pi{"march", 14}:       "tomorrow is pi day",
		day:                   "a date",
		[2]any{"march", 14}:   "tuple",
		"temperature_celsius": 25.0,
	}

	tests := []struct {
		name string
		key  any
		want any
	}{
		{"int", 1, "an_id"},
		{"struct", pi{"march", 14}, "tomorrow is pi day"},
		{"time", day, "a date"},
		{"array tuple", [2]any{"march", 14}, "tuple"},
		{"string", "temperature_celsius", 25.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accessor.Key{}.Get(record, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyGetTypedMaps(t *testing.T) {
	type code string

	got, err := accessor.Key{}.Get(map[string]int{"a": 1}, code("a"))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = accessor.Key{}.Get(&map[int]string{2: "two"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestKeyMissing(t *testing.T) {
	record := map[string]any{"temperature_celsius": 25, "humidity": 50}

	_, err := accessor.Key{}.Get(record, "temperature_celcius")
	require.ErrorIs(t, err, accessor.ErrMissingField)
	assert.EqualError(t, err,
		`missing field "temperature_celcius" in map[string]interface {} (did you mean "temperature_celsius"?)`)

	_, err = accessor.Key{}.Get(record, 12)
	require.ErrorIs(t, err, accessor.ErrMissingField)
	assert.Contains(t, err.Error(), "key type does not match string")

	_, err = accessor.Key{}.Get(map[any]any{}, []int{1})
	require.ErrorIs(t, err, accessor.ErrMissingField)

	_, err = accessor.Key{}.Get(Reading{}, "ID")
	require.ErrorIs(t, err, accessor.ErrMissingField)
	assert.Contains(t, err.Error(), "record is not a map")
}

func TestFuncAccessor(t *testing.T) {
	var acc accessor.Accessor = accessor.Func(func(record any, key any) (any, error) {
		return record.([]any)[key.(int)], nil
	})

	got, err := acc.Get([]any{"a", "b"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}
