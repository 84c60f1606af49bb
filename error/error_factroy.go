package error

import "errors"

var (
	NullPointer    = errors.New("null pointer read")
	ShortRead      = errors.New("short read")
	ShortWrite     = errors.New("short write")
	EmptyWrite     = errors.New("empty write staged")
	ZeroAddress    = errors.New("zero target address")
	RegionNotFound = errors.New("region not found")
	ModuleNotFound = errors.New("module not found")
)
