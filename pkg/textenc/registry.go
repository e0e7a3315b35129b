package textenc

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// UnsupportedEncodingError reports an encoding name the registry does not
// recognize.
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q", e.Name)
}

// aliases maps spellings the IANA and WHATWG indexes reject to names they
// accept. Detector output uses some of the hyphenated forms.
var aliases = map[string]string{
	"gb-18030": "gb18030",
	"utf8":     "utf-8",
	"utf16":    "utf-16le",
	"latin1":   "iso-8859-1",
	"latin-1":  "iso-8859-1",
	"ascii":    "windows-1252",
	"us-ascii": "windows-1252",
}

// Lookup resolves an encoding name or alias to a codec. The underlying
// tables are process-wide and read-only; Lookup is safe for concurrent use.
func Lookup(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[n]; ok {
		n = canonical
	}
	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(n); err == nil && enc != nil {
		return enc, nil
	}
	return nil, &UnsupportedEncodingError{Name: name}
}

var (
	namesOnce sync.Once
	names     []string
)

// candidateNames is the set offered for CLI completion. Only names Lookup
// actually resolves are exposed.
var candidateNames = []string{
	"utf-8", "utf-16le", "utf-16be",
	"iso-8859-1", "iso-8859-2", "iso-8859-5", "iso-8859-7", "iso-8859-15",
	"windows-1250", "windows-1251", "windows-1252", "windows-1256",
	"koi8-r", "koi8-u",
	"shift_jis", "euc-jp", "iso-2022-jp",
	"gbk", "gb18030", "big5", "euc-kr",
	"macintosh",
}

// Names returns the sorted list of target encoding names the registry
// supports, for tab completion at the CLI boundary.
func Names() []string {
	namesOnce.Do(func() {
		for _, n := range candidateNames {
			if _, err := Lookup(n); err == nil {
				names = append(names, n)
			}
		}
		sort.Strings(names)
	})
	out := make([]string, len(names))
	copy(out, names)
	return out
}
