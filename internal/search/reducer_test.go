package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
)

func testSchema() *models.Schema {
	return &models.Schema{
		Organism:                   "ebola",
		PrimaryKey:                 "accession",
		DefaultOrderBy:             "date",
		DefaultOrder:               models.Descending,
		TableColumns:               []string{"date", "country"},
		SuborganismIdentifierField: "genotype",
		Fields: []models.FieldDescriptor{
			{Name: "accession", Kind: models.KindScalar, InitiallyVisible: true},
			{Name: "country", Kind: models.KindMultiSelect, InitiallyVisible: true},
			{Name: "host", Kind: models.KindScalar},
			{Name: "date", Kind: models.KindRange, InitiallyVisible: true},
			{Name: "groupId", Kind: models.KindScalar},
			{Name: "isRevocation", Kind: models.KindBoolean},
			{Name: "lineageA", Kind: models.KindScalar, InitiallyVisible: true, OnlyForSuborganism: "A"},
			{Name: "lineageB", Kind: models.KindScalar, InitiallyVisible: true, OnlyForSuborganism: "B"},
		},
	}
}

func newTestReducer() *Reducer {
	return NewReducer(testSchema(), HiddenValues{"groupId": Scalar("42")})
}

func TestOrderByField_FallsBackWhenColumnHidden(t *testing.T) {
	r := newTestReducer()
	state := querystate.Empty()

	assert.Equal(t, "date", r.OrderByField(state))

	state = r.SetAColumnVisibility(state, "date", false)
	assert.Equal(t, "column_date=false", state.Encode())
	assert.Equal(t, "accession", r.OrderByField(state))

	state = r.SetAColumnVisibility(state, "date", true)
	assert.Equal(t, "date", r.OrderByField(state))
}

func TestOrderByField_ExplicitHiddenColumn(t *testing.T) {
	r := newTestReducer()
	state := r.SetOrderByField(querystate.Empty(), "host")

	assert.Equal(t, "accession", r.OrderByField(state), "host is not a default column")

	state = r.SetAColumnVisibility(state, "host", true)
	assert.Equal(t, "host", r.OrderByField(state))
}

func TestOrderDirection(t *testing.T) {
	r := newTestReducer()

	assert.Equal(t, models.Descending, r.OrderDirection(querystate.Empty()))
	assert.Equal(t, models.Ascending, r.OrderDirection(querystate.MustParse("order=ascending")))
	assert.Equal(t, models.Descending, r.OrderDirection(querystate.MustParse("order=sideways")))

	state := r.SetOrderDirection(querystate.Empty(), models.Ascending)
	assert.Equal(t, "order=ascending", state.Encode())
	state = r.SetOrderDirection(state, models.Descending)
	assert.Equal(t, "", state.Encode())
}

func TestHiddenField_TriState(t *testing.T) {
	r := newTestReducer()
	state := querystate.Empty()

	assert.Equal(t, FieldValues{"groupId": Scalar("42")}, r.FieldValues(state))

	state = r.SetSomeFieldValues(state, Clear("groupId"))
	v, ok := state.Get("groupId")
	require.True(t, ok, "clearing a hidden field keeps the key")
	assert.Equal(t, "", v.String())
	assert.Equal(t, FieldValues{"groupId": Scalar("")}, r.FieldValues(state))

	state = r.RemoveFilter(state, "groupId")
	assert.Equal(t, FieldValues{"groupId": Scalar("42")}, r.FieldValues(state))
	assert.False(t, state.Has("groupId"))
}

func TestHiddenField_SurvivesReload(t *testing.T) {
	r := newTestReducer()
	state := r.SetSomeFieldValues(querystate.Empty(), Clear("groupId"))

	reloaded := querystate.MustParse(state.Encode())
	assert.Equal(t, FieldValues{"groupId": Scalar("")}, r.FieldValues(reloaded))
}

func TestPage(t *testing.T) {
	r := newTestReducer()

	state := r.SetPage(querystate.MustParse("page=3"), 1)
	assert.False(t, state.Has("page"))
	assert.Equal(t, 1, r.Page(querystate.Empty()))

	tests := []struct {
		raw  string
		want int
	}{
		{raw: "page=7", want: 7},
		{raw: "page=0", want: 1},
		{raw: "page=-4", want: 1},
		{raw: "page=abc", want: 1},
		{raw: "page=", want: 1},
		{raw: "page=2&page=3", want: 1},
		{raw: "page=%zz", want: 1},
		{raw: "page=3%", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			state, _ := querystate.Parse(tt.raw)
			assert.Equal(t, tt.want, r.Page(state))
		})
	}

	assert.Equal(t, "page=4", r.SetPage(querystate.Empty(), 4).Encode())
	assert.Equal(t, "", r.SetPage(querystate.MustParse("page=4"), -2).Encode())
}

func TestMultiselect_NullSentinel(t *testing.T) {
	r := newTestReducer()
	want := List(Of("France"), Null(), Of("Peru"))

	state := r.SetSomeFieldValues(querystate.Empty(), Set("country", want))

	raw, ok := state.Get("country")
	require.True(t, ok)
	assert.Equal(t, []string{"France", models.NullSentinel, "Peru"}, raw.Items())

	reloaded := querystate.MustParse(state.Encode())
	got := r.FieldValues(reloaded)["country"]
	assert.True(t, got.Equal(want), "got %v", got)
	assert.True(t, got.HasNull())
	assert.Equal(t, []string{"France", "Peru"}, got.Values())
}

func TestMultiselect_SingleItemReadsAsList(t *testing.T) {
	r := newTestReducer()
	state := r.SetSomeFieldValues(querystate.Empty(), Set("country", Strings("France")))

	got := r.FieldValues(querystate.MustParse(state.Encode()))["country"]
	assert.True(t, got.IsList)
	assert.Equal(t, []string{"France"}, got.Values())
}

func TestSetSomeFieldValues_Rules(t *testing.T) {
	r := newTestReducer()
	base := querystate.MustParse("host=Homo+sapiens&country=France&country=Peru&page=2")

	tests := []struct {
		name   string
		update Update
		want   string
	}{
		{name: "scalar stored", update: Set("host", Scalar("Bat")), want: "country=France&country=Peru&host=Bat"},
		{name: "clear deletes", update: Clear("host"), want: "country=France&country=Peru"},
		{name: "empty list deletes", update: Set("country", List()), want: "host=Homo+sapiens"},
		{name: "clear hidden stores empty", update: Clear("groupId"), want: "country=France&country=Peru&groupId=&host=Homo+sapiens"},
		{name: "hidden default deletes", update: Set("groupId", Scalar("42")), want: "country=France&country=Peru&host=Homo+sapiens"},
		{name: "hidden override", update: Set("groupId", Scalar("7")), want: "country=France&country=Peru&groupId=7&host=Homo+sapiens"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.SetSomeFieldValues(base, tt.update).Encode())
		})
	}
}

func TestSetSomeFieldValues_Batch(t *testing.T) {
	r := newTestReducer()
	state := r.SetSomeFieldValues(querystate.Empty(),
		Set("dateFrom", Scalar("2020-01-01")),
		Set("dateTo", Scalar("2020-12-31")),
		Set("host", Scalar("Bat")),
	)
	assert.Equal(t, "dateFrom=2020-01-01&dateTo=2020-12-31&host=Bat", state.Encode())
}

func TestSetSomeFieldValues_Idempotent(t *testing.T) {
	r := newTestReducer()
	batch := []Update{
		Set("country", List(Of("France"), Null())),
		Clear("groupId"),
		Set("host", Scalar("Bat")),
		Clear("accession"),
	}
	start := querystate.MustParse("accession=X1&page=9&utm_source=mail")

	once := r.SetSomeFieldValues(start, batch...)
	twice := r.SetSomeFieldValues(once, batch...)
	assert.True(t, once.Equal(twice), "once=%q twice=%q", once.Encode(), twice.Encode())
}

func TestResolveOnClear(t *testing.T) {
	hidden := HiddenValues{"groupId": Scalar("42"), "country": Strings("France")}

	tests := []struct {
		name string
		want ClearAction
	}{
		{name: "groupId", want: StoreEmpty},
		{name: "country", want: StoreEmpty},
		{name: "host", want: DeleteKey},
		{name: "", want: DeleteKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOnClear(tt.name, hidden))
		})
	}
	assert.Equal(t, DeleteKey, ResolveOnClear("groupId", nil))
}

func TestRemoveFilter_HiddenList(t *testing.T) {
	def := List(Of("France"), Null())
	r := NewReducer(testSchema(), HiddenValues{"country": def})

	state := r.SetSomeFieldValues(querystate.Empty(), Set("country", Strings("Peru")))
	assert.Equal(t, []string{"Peru"}, r.FieldValues(state)["country"].Values())

	state = r.RemoveFilter(state, "country")
	assert.True(t, r.FieldValues(state)["country"].Equal(def))
}

func TestSearchVisibility_StateMachine(t *testing.T) {
	r := newTestReducer()
	state := querystate.Empty()
	assert.False(t, r.SearchVisibility(state, "host"))

	state = r.SetASearchVisibility(state, "host", true)
	assert.Equal(t, "visibility_host=true", state.Encode())
	assert.True(t, r.SearchVisibility(state, "host"))

	again := r.SetASearchVisibility(state, "host", true)
	assert.True(t, state.Equal(again))

	state = r.SetASearchVisibility(state, "host", false)
	assert.Equal(t, "", state.Encode())
	assert.False(t, r.SearchVisibility(state, "host"))

	state = r.SetASearchVisibility(state, "country", false)
	assert.Equal(t, "visibility_country=false", state.Encode())
}

func TestSearchVisibility_HidingClearsValue(t *testing.T) {
	r := newTestReducer()
	start := querystate.MustParse("visibility_host=true&host=Bat&dateFrom=2020&dateTo=2021&page=3")

	tests := []struct {
		name  string
		field string
		keys  []string
	}{
		{name: "scalar", field: "host", keys: []string{"host"}},
		{name: "range clears both bounds", field: "date", keys: []string{"dateFrom", "dateTo"}},
		{name: "hidden field", field: "groupId", keys: []string{"groupId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := r.SetASearchVisibility(start, tt.field, false)
			values := r.FieldValues(state)
			for _, key := range tt.keys {
				v, ok := values[key]
				assert.True(t, !ok || v.IsEmpty(), "%s = %v", key, v)
			}
			assert.False(t, state.Has("page"))
		})
	}
}

func TestColumnVisibility_LeavesValuesAndPage(t *testing.T) {
	r := newTestReducer()
	start := querystate.MustParse("country=France&page=4")

	state := r.SetAColumnVisibility(start, "country", false)
	assert.Equal(t, "column_country=false&country=France&page=4", state.Encode())
	assert.False(t, r.ColumnVisibility(state, "country"))
	assert.True(t, r.ColumnVisibilities(state)["date"])

	state = r.SetAColumnVisibility(state, "country", true)
	assert.True(t, start.Equal(state))
}

func TestPaginationResetScope(t *testing.T) {
	r := newTestReducer()
	start := querystate.MustParse("page=5&country=France")

	resets := map[string]func(querystate.State) querystate.State{
		"set field":       func(s querystate.State) querystate.State { return r.SetSomeFieldValues(s, Set("host", Scalar("Bat"))) },
		"remove filter":   func(s querystate.State) querystate.State { return r.RemoveFilter(s, "country") },
		"order by":        func(s querystate.State) querystate.State { return r.SetOrderByField(s, "country") },
		"order direction": func(s querystate.State) querystate.State { return r.SetOrderDirection(s, models.Ascending) },
		"hide search":     func(s querystate.State) querystate.State { return r.SetASearchVisibility(s, "country", false) },
		"mutations":       func(s querystate.State) querystate.State { return r.SetMutations(s, MutationFilter{NucleotideMutations: []string{"A23T"}}) },
		"suborganism":     func(s querystate.State) querystate.State { return r.SetSuborganism(s, "A") },
	}
	for name, op := range resets {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 1, r.Page(op(start)))
		})
	}

	keeps := map[string]func(querystate.State) querystate.State{
		"hide column": func(s querystate.State) querystate.State { return r.SetAColumnVisibility(s, "country", false) },
		"show column": func(s querystate.State) querystate.State { return r.SetAColumnVisibility(s, "host", true) },
		"show search": func(s querystate.State) querystate.State { return r.SetASearchVisibility(s, "host", true) },
	}
	for name, op := range keeps {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 5, r.Page(op(start)))
		})
	}
}

func TestMinimality(t *testing.T) {
	r := newTestReducer()
	state := querystate.Empty()

	state = r.SetASearchVisibility(state, "host", true)
	state = r.SetAColumnVisibility(state, "date", false)
	state = r.SetOrderDirection(state, models.Ascending)
	state = r.SetOrderByField(state, "country")
	state = r.SetSomeFieldValues(state, Set("groupId", Scalar("7")))
	state = r.SetPage(state, 4)
	require.NotEqual(t, "", state.Encode())

	state = r.SetASearchVisibility(state, "host", false)
	state = r.SetAColumnVisibility(state, "date", true)
	state = r.SetOrderDirection(state, models.Descending)
	state = r.SetOrderByField(state, "date")
	state = r.SetSomeFieldValues(state, Set("groupId", Scalar("42")))
	state = r.SetPage(state, 1)
	assert.Equal(t, "", state.Encode())
}

func TestRoundTrip(t *testing.T) {
	r := newTestReducer()
	steps := []func(querystate.State) querystate.State{
		func(s querystate.State) querystate.State {
			return r.SetSomeFieldValues(s, Set("country", List(Of("France"), Null(), Of("Peru"))))
		},
		func(s querystate.State) querystate.State { return r.SetSomeFieldValues(s, Clear("groupId")) },
		func(s querystate.State) querystate.State { return r.SetASearchVisibility(s, "host", true) },
		func(s querystate.State) querystate.State { return r.SetSomeFieldValues(s, Set("host", Scalar("a&b=c"))) },
		func(s querystate.State) querystate.State { return r.SetAColumnVisibility(s, "date", false) },
		func(s querystate.State) querystate.State {
			return r.SetMutations(s, r.Mutations(s).With(AminoAcidMutations, []string{"GP:A82V", "NP:D5N"}))
		},
		func(s querystate.State) querystate.State { return r.SetPage(s, 3) },
		func(s querystate.State) querystate.State { return r.SetSuborganism(s, "A") },
		func(s querystate.State) querystate.State { return s.Set("selectedSeq", querystate.Scalar("EB_1.1")) },
	}

	state := querystate.MustParse("utm_source=newsletter")
	for i, step := range steps {
		state = step(state)
		back, err := querystate.Parse(state.Encode())
		require.NoError(t, err)
		assert.True(t, state.Equal(back), "step %d: %q", i, state.Encode())
		assert.Equal(t, r.FieldValues(state), r.FieldValues(back), "step %d", i)
		assert.Equal(t, r.Mutations(state), r.Mutations(back), "step %d", i)
	}
	assert.True(t, state.Has("utm_source"), "unknown keys are preserved")
}

func TestSuborganism(t *testing.T) {
	r := newTestReducer()
	state := querystate.MustParse("genotype=A&lineageA=a1&lineageB=b1")

	values := r.FieldValues(state)
	assert.Contains(t, values, "lineageA")
	assert.NotContains(t, values, "lineageB")
	assert.Equal(t, Scalar("A"), values["genotype"])
	assert.True(t, r.SearchVisibility(state, "lineageA"))
	assert.False(t, r.SearchVisibility(state, "lineageB"))
	assert.False(t, r.IsActive(state, "lineageB"))

	state = r.SetSuborganism(state, "B")
	assert.Equal(t, "genotype=B&lineageB=b1", state.Encode())

	state = r.SetSuborganism(state, "")
	assert.Equal(t, "", state.Encode())
	assert.Equal(t, "", r.Suborganism(state))
}

func TestRemoveField_Range(t *testing.T) {
	r := newTestReducer()
	state := r.RemoveField(querystate.MustParse("dateFrom=2020&dateTo=2021&host=Bat"), "date")
	assert.Equal(t, "host=Bat", state.Encode())
}

func TestReset(t *testing.T) {
	r := newTestReducer()
	state := querystate.MustParse("country=France&visibility_host=true&column_date=false&page=3" +
		"&orderBy=country&order=ascending&nucleotideMutations=A23T&selectedSeq=ABC&halfScreen=true" +
		"&utm_source=x&groupId=&genotype=A")

	got := r.Reset(state)
	assert.Equal(t, "halfScreen=true&selectedSeq=ABC&utm_source=x", got.Encode())
	assert.Equal(t, FieldValues{"groupId": Scalar("42")}, r.FieldValues(got))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Strings("a").Equal(Scalar("a")))
	assert.False(t, List(Null()).Equal(Scalar("")))
	assert.False(t, Strings("a", "b").Equal(Strings("b", "a")))
	assert.True(t, Value{}.Equal(Scalar("")))
	assert.Equal(t, "France, null", List(Of("France"), Null()).String())
}
