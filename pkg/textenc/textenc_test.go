package textenc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextIsIdempotent(t *testing.T) {
	in := "déjà vu — 既視感"

	out, err := Decode(Text(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// decoding decoded output again is still a no-op
	out, err = Decode(Text(out))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeEmptyBytes(t *testing.T) {
	out, err := Decode(Bytes(nil))
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = Decode(Bytes([]byte{}))
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestDecodeDetectsUTF8(t *testing.T) {
	in := "今日は天気が良いので、散歩に出かけることにしました。公園には人がたくさんいました。"

	out, err := Decode(Bytes([]byte(in)))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRoundTripUTF8(t *testing.T) {
	in := "The quick brown fox jumps over the lazy dog. 敏捷的棕色狐狸跳过了懒惰的狗。"

	encoded, err := Encode(in, "utf-8")
	require.NoError(t, err)

	out, err := Decode(Bytes(encoded))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRoundTripLatin1(t *testing.T) {
	// long enough that detection is unambiguous for a western charset
	in := "Les élèves étaient déjà réunis près de la fenêtre, où le professeur " +
		"répétait à voix basse les règles générales de la journée. La leçon " +
		"commença très tôt, avant même que la lumière n'éclairât la cité."

	encoded, err := Encode(in, "iso-8859-1")
	require.NoError(t, err)
	// every character above is in latin-1, so nothing was dropped
	assert.Len(t, encoded, len([]rune(in)))

	out, err := Decode(Bytes(encoded))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeDropsUnencodable(t *testing.T) {
	out, err := Encode("héllo \U0001F600 wörld", "iso-8859-1")
	require.NoError(t, err)

	// the emoji is outside latin-1 and silently dropped; the rest survives
	assert.Equal(t, []byte("h\xe9llo  w\xf6rld"), out)
}

func TestEncodeUnsupportedEncoding(t *testing.T) {
	_, err := Encode("hello", "no-such-encoding")
	require.Error(t, err)

	var unsupported *UnsupportedEncodingError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "no-such-encoding", unsupported.Name)
}

func TestLookupAliases(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF-8", "utf8", "latin1", "Latin-1", "ISO-8859-1", "gb-18030", "GB18030"} {
		enc, err := Lookup(name)
		require.NoError(t, err, "name %q", name)
		assert.NotNil(t, enc, "name %q", name)
	}
}

func TestNamesResolvable(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "utf-8")

	for _, name := range names {
		_, err := Lookup(name)
		assert.NoError(t, err, "name %q", name)
	}
}
