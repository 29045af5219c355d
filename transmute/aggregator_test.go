package transmute_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transmuter/construct"
	"transmuter/transmute"
)

func TestAggregateChildrenByParent(t *testing.T) {
	plan, err := transmute.CompileAggregation[any](transmute.Aggregation{
		GroupBy:      []any{"parent"},
		Mappings:     transmute.Spec("children", transmute.Func(fullName)),
		Aggregations: transmute.Spec("name", transmute.Reduce("parent", firstString)),
	}, transmute.WithConstructor(construct.StringDict()))
	require.NoError(t, err)

	a, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	out, err := transmute.AggregateAs[map[string]any](a, children())
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"name": "Tom Smith", "children": []any{"Paul Smith", "Laura Smith"}},
		{"name": "Anna Lopez", "children": []any{"Tupac Towers"}},
	}, out, spew.Sdump(out))
}

func TestAggregateMeanPerSensor(t *testing.T) {
	plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
		GroupBy: []any{"sensor"},
		Aggregations: transmute.Spec(
			"sensor", transmute.Reduce("sensor", first),
			"average", transmute.Reduce("value", mean),
		),
	}, transmute.DictionaryVariant())

	a, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	out, err := a.Aggregate([]any{
		map[string]any{"sensor": 1, "value": 10},
		map[string]any{"sensor": 1, "value": 20},
		map[string]any{"sensor": 2, "value": 30},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[any]any{"sensor": 1, "average": 15.0},
		map[any]any{"sensor": 2, "average": 30.0},
	}, out)
}

func TestAggregatePartitionsExactly(t *testing.T) {
	plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
		GroupBy:  []any{transmute.Func(func(r map[string]any) int { return r["n"].(int) % 3 })},
		Mappings: transmute.Spec("members", transmute.Func(func(r map[string]any) any { return r["n"] })),
	}, transmute.DictionaryVariant())

	a, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	records := make([]any, 10)
	for i := range records {
		records[i] = map[string]any{"n": i}
	}

	out, err := a.Aggregate(records)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, []any{0, 3, 6, 9}, out[0].(map[any]any)["members"])
	assert.Equal(t, []any{1, 4, 7}, out[1].(map[any]any)["members"])
	assert.Equal(t, []any{2, 5, 8}, out[2].(map[any]any)["members"])
}

func TestAggregateCompositeKeys(t *testing.T) {
	plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
		GroupBy: []any{"Last", transmute.Func(func(c Child) bool { return c.Age >= 5 })},
		Aggregations: transmute.Spec(
			"last", transmute.Reduce("Last", first),
			"count", transmute.Func(func(group []any) int { return len(group) }),
		),
	})

	a, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	out, err := a.Aggregate(children())
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[any]any{"last": "Smith", "count": 1},
		map[any]any{"last": "Towers", "count": 1},
		map[any]any{"last": "Smith", "count": 1},
	}, out)
}

func TestAggregateWithoutGroupBy(t *testing.T) {
	plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
		Aggregations: transmute.Spec("ages", transmute.Reduce("Age", func(ages []int) []int { return ages })),
	})

	a, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	out, err := a.Aggregate(children())
	require.NoError(t, err)
	assert.Equal(t, []any{map[any]any{"ages": []int{12, 7, 3}}}, out)

	out, err = a.Aggregate(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAggregateSortBy(t *testing.T) {
	plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
		GroupBy:      []any{"Parent"},
		SortBy:       []any{"Age"},
		Mappings:     transmute.Spec("children", "First"),
		Aggregations: transmute.Spec("parent", transmute.Reduce("Parent", first)),
	})

	a, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	out, err := a.Aggregate(children())
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[any]any{"parent": "Tom Smith", "children": []any{"Laura", "Paul"}},
		map[any]any{"parent": "Anna Lopez", "children": []any{"Tupac"}},
	}, out)
}

func TestAggregateBoundMethods(t *testing.T) {
	plan := transmute.MustCompileAggregation[*Family](transmute.Aggregation{
		GroupBy:  []any{"Parent"},
		Mappings: transmute.Spec("greetings", transmute.Method((*Family).Greeting)),
		Aggregations: transmute.Spec(
			"size", transmute.MethodNamed("Size"),
		),
	})

	a, err := transmute.NewAggregator(plan, &Family{}, transmute.WithContext("Hi "))
	require.NoError(t, err)

	out, err := a.Aggregate(children())
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"greetings": []any{"Hi Paul", "Hi Laura"}, "size": 2}, out[0])

	require.NoError(t, a.SetContext("Bye "))
	assert.Equal(t, "Bye ", a.Context())

	out, err = a.Aggregate(children())
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"greetings": []any{"Bye Tupac"}, "size": 1}, out[1])
}

func TestAggregateErrors(t *testing.T) {
	t.Run("user error aborts", func(t *testing.T) {
		calls := 0
		plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
			GroupBy: []any{"Parent"},
			Aggregations: transmute.Spec("n", transmute.Func(func(group []any) (int, error) {
				calls++
				if calls == 2 {
					return 0, errBoom
				}

				return len(group), nil
			})),
		})

		a, err := transmute.NewAggregator[any](plan, nil)
		require.NoError(t, err)

		out, err := a.Aggregate(children())
		assert.Same(t, errBoom, err)
		assert.Nil(t, out)
	})

	t.Run("unhashable key", func(t *testing.T) {
		plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
			GroupBy:      []any{transmute.Func(func(c Child) []string { return []string{c.Parent} })},
			Aggregations: transmute.Spec("n", transmute.Func(func(group []any) int { return len(group) })),
		})

		a, err := transmute.NewAggregator[any](plan, nil)
		require.NoError(t, err)

		_, err = a.Aggregate(children())
		require.ErrorIs(t, err, transmute.ErrUnhashableKey)
	})

	t.Run("unorderable sort key", func(t *testing.T) {
		plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
			SortBy:   []any{"v"},
			Mappings: transmute.Spec("v", "v"),
		}, transmute.DictionaryVariant())

		a, err := transmute.NewAggregator[any](plan, nil)
		require.NoError(t, err)

		_, err = a.Aggregate([]any{map[string]any{"v": 1}, map[string]any{"v": "x"}})
		require.ErrorIs(t, err, transmute.ErrUnorderable)
	})

	t.Run("missing field", func(t *testing.T) {
		plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
			GroupBy:  []any{"Parent"},
			Mappings: transmute.Spec("x", "Nickname"),
		})

		a, err := transmute.NewAggregator[any](plan, nil)
		require.NoError(t, err)

		out, err := a.Aggregate(children())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing field "Nickname"`)
		assert.Nil(t, out)
	})

	t.Run("constructor error", func(t *testing.T) {
		refuse := errors.New("refused")
		plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
			Mappings: transmute.Spec("x", "First"),
		}, transmute.WithConstructor(construct.Func(func(*construct.Fields) (any, error) { return nil, refuse })))

		a, err := transmute.NewAggregator[any](plan, nil)
		require.NoError(t, err)

		_, err = a.Aggregate(children())
		assert.Same(t, refuse, err)
	})
}

func TestAggregateParallelMatchesSequential(t *testing.T) {
	plan := transmute.MustCompileAggregation[any](transmute.Aggregation{
		GroupBy: []any{"g"},
		Mappings: transmute.Spec("ids", "id"),
		Aggregations: transmute.Spec(
			"g", transmute.Reduce("g", first),
			"mean", transmute.Reduce("id", mean),
		),
	}, transmute.DictionaryVariant())

	records := make([]any, 200)
	for i := range records {
		records[i] = map[string]any{"g": fmt.Sprintf("group-%d", (i*7)%13), "id": i}
	}

	seq, err := transmute.NewAggregator[any](plan, nil)
	require.NoError(t, err)

	par, err := transmute.NewAggregator[any](plan, nil, transmute.WithParallelism(4))
	require.NoError(t, err)

	want, err := seq.Aggregate(records)
	require.NoError(t, err)
	require.Len(t, want, 13)

	for range 5 {
		got, err := par.Aggregate(records)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
