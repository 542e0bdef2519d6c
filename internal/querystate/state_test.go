package querystate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ScalarsAndLists(t *testing.T) {
	s, err := Parse("?country=France&country=_null_&country=Peru&host=Homo+sapiens&groupId=")
	require.NoError(t, err)

	country, ok := s.Get("country")
	require.True(t, ok)
	assert.True(t, country.IsList())
	assert.Equal(t, []string{"France", "_null_", "Peru"}, country.Items())

	host, ok := s.Get("host")
	require.True(t, ok)
	assert.False(t, host.IsList())
	assert.Equal(t, "Homo sapiens", host.String())

	groupID, ok := s.Get("groupId")
	require.True(t, ok, "explicit empty value must survive parsing")
	assert.Equal(t, "", groupID.String())
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    State
		wantErr bool
	}{
		{
			name:    "bad escape in one value",
			raw:     "host=Bat&page=%zz",
			want:    Empty().Set("host", Scalar("Bat")).Set("page", Scalar("%zz")),
			wantErr: true,
		},
		{
			name:    "bad escape in a key",
			raw:     "%zz=1&country=Peru&country=Chad",
			want:    Empty().Set("%zz", Scalar("1")).Set("country", List("Peru", "Chad")),
			wantErr: true,
		},
		{
			name:    "trailing percent",
			raw:     "host=100%",
			want:    Empty().Set("host", Scalar("100%")),
			wantErr: true,
		},
		{
			name: "semicolon is an ordinary character",
			raw:  "host=Bat;utm=x&page=2",
			want: Empty().Set("host", Scalar("Bat;utm=x")).Set("page", Scalar("2")),
		},
		{
			name: "empty pairs are skipped",
			raw:  "&&host=Bat&",
			want: Empty().Set("host", Scalar("Bat")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedQuery)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, tt.want.Equal(got), "got %q, want %q", got.Encode(), tt.want.Encode())
		})
	}
}

func TestParse_KeptTextRoundTrips(t *testing.T) {
	state, err := Parse("page=%zz")
	require.Error(t, err)

	back, err := Parse(state.Encode())
	require.NoError(t, err)
	assert.True(t, state.Equal(back))
	assert.Equal(t, "page=%25zz", back.Encode())
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{name: "empty", state: Empty()},
		{name: "scalar", state: Empty().Set("orderBy", Scalar("date"))},
		{name: "explicit empty", state: Empty().Set("groupId", Scalar(""))},
		{name: "list", state: Empty().Set("country", List("France", "_null_", "Peru"))},
		{
			name: "mixed with unknown keys",
			state: Empty().
				Set("utm_source", Scalar("mail")).
				Set("visibility_host", Scalar("true")).
				Set("page", Scalar("3")),
		},
		{name: "special characters", state: Empty().Set("q", Scalar("a&b=c d/é"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, err := Parse(tt.state.Encode())
			require.NoError(t, err)
			assert.True(t, tt.state.Equal(back), "got %q", back.Encode())
		})
	}
}

func TestList_SingleElementCollapsesToScalar(t *testing.T) {
	v := List("France")
	assert.False(t, v.IsList())
	assert.True(t, v.Equal(Scalar("France")))
}

func TestEdit_DoesNotMutateSource(t *testing.T) {
	base := Empty().Set("a", Scalar("1"))
	next := base.Edit(func(d *Draft) {
		d.Delete("a")
		d.SetString("b", "2")
	})

	assert.True(t, base.Has("a"))
	assert.False(t, base.Has("b"))
	assert.False(t, next.Has("a"))
	assert.Equal(t, "b=2", next.Encode())
}

func TestEncode_SortedKeys(t *testing.T) {
	s := MustParse("z=1&a=2&m=3")
	assert.Equal(t, "a=2&m=3&z=1", s.Encode())
	assert.Equal(t, []string{"a", "m", "z"}, s.Keys())
}

func TestQueryPart(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a=1&b=2", "a=1&b=2"},
		{"?a=1", "a=1"},
		{"https://example.org/cchf/search?a=1&b=2", "a=1&b=2"},
		{"https://example.org/cchf/search?a=1#results", "a=1"},
		{"  a=1 ", "a=1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QueryPart(tt.input), "input %q", tt.input)
	}
}
