// Package transmute compiles declarative field-specification tables into
// reusable plans that transform source records into target records.
//
// A mapping plan produces one target record per source record:
//
//	plan, err := transmute.CompileMapping[*WeatherMapper](transmute.Spec(
//		"id", "ID",
//		"temperature_fahrenheit", transmute.Transform("TemperatureCelsius", celsiusToFahrenheit),
//		"humidity_proportion", transmute.Method((*WeatherMapper).Humidity),
//	), transmute.WithConstructor(construct.Struct[Weather]()))
//
//	m, err := transmute.NewMapper(plan, &WeatherMapper{})
//	out, err := m.MapList(records)
//
// An aggregation plan partitions the source records by a composite key,
// collects per-record mappings into lists and reduces whole groups, producing
// one target record per group in first-seen group order.
//
// Entries name source fields (Field), transform a field (Transform), call a
// free function on the record (Func), call a method of the transformer with
// the live instance (Method, MethodNamed) or reduce a group (Reduce). A bare
// value in a table is shorthand for Field; a bare function is classified as a
// method of the transformer type when its runtime name and first parameter
// say so, and as a free function otherwise.
//
// Transformer types usually embed Base to carry a mutable Context that
// bound methods can read at call time.
package transmute
