package extract

// Fields is the decoding strategy used by the poller. Both implementations
// share the never-fail contract: missing data yields a zero value.
type Fields interface {
	Hex(buf, key string) uint64
	ArrayLen(buf, key string) uint32
	Quoted(buf, key string) string
}

// Scan is the substring-scan decoder. It matches the first occurrence of
// a key anywhere in the buffer, nested or not.
type Scan struct{}

func (Scan) Hex(buf, key string) uint64      { return HexField(buf, key) }
func (Scan) ArrayLen(buf, key string) uint32 { return ArrayLength(buf, key) }
func (Scan) Quoted(buf, key string) string   { return QuotedString(buf, key) }

// EpochFrom decodes the packed epoch field through any Fields strategy.
func EpochFrom(f Fields, buf string) EpochFields {
	return UnpackEpoch(f.Hex(buf, "epoch"))
}

// New returns the strict decoder when strict is set, else the scanner.
func New(strict bool) Fields {
	if strict {
		return Strict{}
	}
	return Scan{}
}
