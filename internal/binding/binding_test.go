package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loculus-project/seqsearch/internal/models"
	"github.com/loculus-project/seqsearch/internal/querystate"
	"github.com/loculus-project/seqsearch/internal/search"
)

func testReducer() *search.Reducer {
	schema := &models.Schema{
		PrimaryKey: "accession",
		Fields: []models.FieldDescriptor{
			{Name: "host", Kind: models.KindScalar},
			{Name: "groupId", Kind: models.KindScalar},
		},
	}
	return search.NewReducer(schema, search.HiddenValues{"groupId": search.Scalar("42")})
}

func TestString_ReadAndWrite(t *testing.T) {
	r := testReducer()
	b := String("host", "", ModeResetPagination, nil)

	v, err := b.Read(querystate.Empty())
	require.NoError(t, err)
	assert.Equal(t, "", v)

	state := b.Write(querystate.MustParse("page=3"), "Bat", r)
	assert.Equal(t, "host=Bat", state.Encode())
	assert.Equal(t, "Bat", b.MustRead(state))

	state = b.Write(state, "", r)
	assert.Equal(t, "", state.Encode())
}

func TestString_HiddenFieldClearKeepsKey(t *testing.T) {
	r := testReducer()
	b := String("groupId", "", ModeResetPagination, nil)

	state := b.Write(querystate.Empty(), "", r)
	assert.Equal(t, "groupId=", state.Encode())
}

func TestString_TypeMismatch(t *testing.T) {
	b := String("host", "", ModeDirect, nil)
	state := querystate.MustParse("host=a&host=b")

	_, err := b.Read(state)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), `"host"`)
	assert.Panics(t, func() { b.MustRead(state) })
}

func TestBool(t *testing.T) {
	b := HalfScreen()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "", want: false},
		{raw: "halfScreen=true", want: true},
		{raw: "halfScreen=false", want: false},
		{raw: "halfScreen=1", want: false},
		{raw: "halfScreen=TRUE", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, b.MustRead(querystate.MustParse(tt.raw)))
		})
	}
}

func TestDirectMode_KeepsPage(t *testing.T) {
	start := querystate.MustParse("page=4&host=Bat")

	state := HalfScreen().Write(start, true, nil)
	assert.Equal(t, "halfScreen=true&host=Bat&page=4", state.Encode())

	state = HalfScreen().Write(state, false, nil)
	assert.True(t, start.Equal(state))

	id := "EB_1.1"
	state = SelectedSeq().Write(start, &id, nil)
	assert.Equal(t, "host=Bat&page=4&selectedSeq=EB_1.1", state.Encode())

	got := SelectedSeq().MustRead(state)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	state = SelectedSeq().Write(state, nil, nil)
	assert.True(t, start.Equal(state))
	assert.Nil(t, SelectedSeq().MustRead(state))
}

func TestResetMode_ResetsPage(t *testing.T) {
	r := testReducer()
	b := Bool("isRevocation", false, ModeResetPagination, nil)

	state := b.Write(querystate.MustParse("page=4"), true, r)
	assert.Equal(t, "isRevocation=true", state.Encode())
}

func TestCustomShouldOmit(t *testing.T) {
	b := String("host", "", ModeDirect, func(v string) bool { return v == "any" })

	assert.Equal(t, "", b.Write(querystate.MustParse("host=Bat"), "any", nil).Encode())
	assert.Equal(t, "host=", b.Write(querystate.Empty(), "", nil).Encode())
}
