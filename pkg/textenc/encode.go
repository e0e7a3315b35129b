package textenc

import (
	"bytes"
)

// Encode converts text into the named target encoding. Code points the
// target cannot represent are dropped rather than replaced or reported:
// downstream consumers want clean output in the requested character set
// over completeness of exotic glyphs. An unrecognized encoding name returns
// *UnsupportedEncodingError.
func Encode(text string, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err == nil {
		return out, nil
	}

	// Slow path: at least one rune is outside the target's repertoire.
	// Re-encode rune by rune and drop the offenders. A fresh encoder per
	// rune avoids carrying transformer state across failed conversions.
	var buf bytes.Buffer
	for _, r := range text {
		b, err := enc.NewEncoder().Bytes([]byte(string(r)))
		if err != nil {
			continue
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}
