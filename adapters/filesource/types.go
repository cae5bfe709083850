package filesource

// Encoding names a text encoding a CSV source may be written in.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin-1"
)

// DefaultEncodings is the fallback order used when none is given.
var DefaultEncodings = []Encoding{EncodingUTF8, EncodingLatin1}

// RawData is a decoded source before it becomes a response table.
type RawData struct {
	Headers  []string
	Rows     [][]string
	Encoding Encoding // encoding that decoded the file; empty for xlsx
}
