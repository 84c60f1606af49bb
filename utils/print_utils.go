package utils

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gather/pkg/scatter"
)

func PrintStringLine(s ...string) {
	for _, str := range s {
		fmt.Println(str)
	}
}

// FormatEntry renders an executed entry's result for the terminal.
func FormatEntry(e *scatter.Entry) string {
	v, ok := e.Result()
	if !ok {
		return "<failed>"
	}

	switch e.Kind() {
	case scatter.KindPointer:
		u, _ := e.Uint64()
		return fmt.Sprintf("%#x", u)
	case scatter.KindBuffer:
		b, _ := e.Bytes()
		return "\n" + hex.Dump(b)
	case scatter.KindString:
		s, _ := e.Text()
		return strconv.Quote(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func PrintHexDump(bs []byte) {
	fmt.Print(hex.Dump(bs))
}

// EncodeValue converts a command-line literal into the little-endian bytes
// a poke of the given kind writes. buf values are hex strings, str values
// are written with a trailing NUL.
func EncodeValue(kind scatter.Kind, s string) ([]byte, error) {
	switch kind {
	case scatter.KindPointer, scatter.KindUint64:
		v, err := ParseAddr(s)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(nil, v), nil
	case scatter.KindInt64:
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(nil, uint64(v)), nil
	case scatter.KindUint32:
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(nil, uint32(v)), nil
	case scatter.KindInt32:
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(nil, uint32(v)), nil
	case scatter.KindFloat32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(nil, math.Float32bits(float32(v))), nil
	case scatter.KindFloat64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)), nil
	case scatter.KindBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		if v {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case scatter.KindString:
		return append([]byte(s), 0), nil
	case scatter.KindBuffer:
		return hex.DecodeString(strings.TrimPrefix(s, "0x"))
	default:
		return nil, fmt.Errorf("cannot encode kind %s", kind)
	}
}
