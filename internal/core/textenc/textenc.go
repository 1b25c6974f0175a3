// Package textenc decodes legacy-encoded blob bytes into UTF-8 text
// Decoding is accept-or-reject: any lossy substitution fails the whole
// decode, there is no best-effort output
package textenc

import (
	"bytes"
	"strings"

	perr "corpuspack/internal/platform/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// utf16be matches the corpus convention: bare "UTF-16" means big endian, no BOM handling
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// table maps canonical uppercase encoding names (and their common aliases as
// they appear in scraped metadata) to transcoding profiles.
// ISO-8859-1 deliberately maps to the Windows-1252 superset: corpora routinely
// mislabel Windows-1252 text as Latin-1, and the strict profile would reject
// bytes in the 0x80..0x9F range that are printable under 1252.
var table = map[string]encoding.Encoding{
	"BIG5":    traditionalchinese.Big5,
	"EUC-JP":  japanese.EUCJP,
	"GB18030": simplifiedchinese.GB18030,

	"ISO-8859-1": charmap.Windows1252,
	"ISO-8859-2": charmap.ISO8859_2, "ISO8859-2": charmap.ISO8859_2,
	"ISO-8859-3": charmap.ISO8859_3, "ISO8859-3": charmap.ISO8859_3,
	"ISO-8859-4": charmap.ISO8859_4, "ISO8859-4": charmap.ISO8859_4,
	"ISO-8859-5": charmap.ISO8859_5, "ISO8859-5": charmap.ISO8859_5,
	"ISO-8859-6": charmap.ISO8859_6, "ISO8859-6": charmap.ISO8859_6,
	"ISO-8859-7": charmap.ISO8859_7, "ISO8859-7": charmap.ISO8859_7,
	"ISO-8859-8": charmap.ISO8859_8, "ISO8859-8": charmap.ISO8859_8,
	"ISO-8859-9": charmap.ISO8859_9, "ISO8859-9": charmap.ISO8859_9,
	"ISO-8859-10": charmap.ISO8859_10, "ISO8859-10": charmap.ISO8859_10,
	// ISO-8859-11 is Thai; Windows-874 is its in-the-wild superset
	"ISO-8859-11": charmap.Windows874, "ISO8859-11": charmap.Windows874,
	"ISO-8859-13": charmap.ISO8859_13, "ISO8859-13": charmap.ISO8859_13,
	"ISO-8859-14": charmap.ISO8859_14, "ISO8859-14": charmap.ISO8859_14,
	"ISO-8859-15": charmap.ISO8859_15, "ISO8859-15": charmap.ISO8859_15,
	"ISO-8859-16": charmap.ISO8859_16, "ISO8859-16": charmap.ISO8859_16,

	"KOI8-R": charmap.KOI8R, "KOI8R": charmap.KOI8R,
	"KOI8-U": charmap.KOI8U, "KOI8U": charmap.KOI8U,

	"MACINTOSH": charmap.Macintosh, "MAC": charmap.Macintosh,
	"MACCENTRALEUROPE": charmap.Windows1250,
	"MACCYRILLIC":      charmap.MacintoshCyrillic,

	"SHIFT_JIS": japanese.ShiftJIS,
	"TIS-620":   charmap.Windows874,
	"UHC":       korean.EUCKR,
	"UTF-16":    utf16be,

	"WINDOWS-874": charmap.Windows874, "CP874": charmap.Windows874,
	"WINDOWS-1250": charmap.Windows1250, "CP1250": charmap.Windows1250,
	"WINDOWS-1251": charmap.Windows1251, "CP1251": charmap.Windows1251,
	"WINDOWS-1252": charmap.Windows1252, "CP1252": charmap.Windows1252,
	"WINDOWS-1253": charmap.Windows1253, "CP1253": charmap.Windows1253,
	"WINDOWS-1254": charmap.Windows1254, "CP1254": charmap.Windows1254,
	"WINDOWS-1255": charmap.Windows1255, "CP1255": charmap.Windows1255,
	"WINDOWS-1256": charmap.Windows1256, "CP1256": charmap.Windows1256,
	"WINDOWS-1257": charmap.Windows1257, "CP1257": charmap.Windows1257,
	"WINDOWS-1258": charmap.Windows1258, "CP1258": charmap.Windows1258,

	"UTF-8": unicode.UTF8, "UTF8": unicode.UTF8,

	// DOS code pages; complete 256-entry tables, every byte decodes
	"IBM852": charmap.CodePage852,
	"IBM855": charmap.CodePage855,
	"IBM866": charmap.CodePage866,
}

// replacement is the UTF-8 form of U+FFFD that x/text decoders emit for
// undecodable input
var replacement = []byte("�")

// Lookup resolves an encoding name case-insensitively against the fixed table
func Lookup(name string) (encoding.Encoding, bool) {
	enc, ok := table[strings.ToUpper(strings.TrimSpace(name))]
	return enc, ok
}

// Decode converts b from the named legacy encoding into a UTF-8 string.
// Unknown names fail with UnsupportedEncoding; any decode that would lose
// information fails with MalformedDecode.
func Decode(b []byte, name string) (string, error) {
	enc, ok := Lookup(name)
	if !ok {
		return "", perr.UnsupportedEncodingf("unsupported encoding %q", name)
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeMalformedDecode, "decode failed for encoding %q", name)
	}

	// x/text decoders substitute U+FFFD instead of erroring; a replacement
	// char is only acceptable when the input genuinely encoded one, which we
	// verify by re-encoding and comparing byte-for-byte
	if bytes.Contains(out, replacement) {
		re, eerr := enc.NewEncoder().Bytes(out)
		if eerr != nil || !bytes.Equal(re, b) {
			return "", perr.MalformedDecodef("lossy decode for encoding %q", name)
		}
	}

	return string(out), nil
}
