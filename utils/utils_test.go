package utils_test

import (
	"testing"

	"gather/utils"
)

func TestParseAddr(t *testing.T) {
	addr, err := utils.ParseAddr("0x7f2c64b9d000")
	if err != nil {
		t.Fatalf("parse hex address: %v", err)
	}
	if addr != 0x7f2c64b9d000 {
		t.Fatalf("address was not parsed correctly %#x", addr)
	}

	addr, err = utils.ParseAddr("4096")
	if err != nil {
		t.Fatalf("parse decimal address: %v", err)
	}
	if addr != 4096 {
		t.Fatalf("address was not parsed correctly %d", addr)
	}

	if _, err = utils.ParseAddr("base+0x10"); err == nil {
		t.Fatal("expected error for malformed address")
	}
}

func TestParseOffsets(t *testing.T) {
	offsets, err := utils.ParseOffsets("0x10, 0x20,8")
	if err != nil {
		t.Fatalf("parse offsets: %v", err)
	}
	if len(offsets) != 3 || offsets[0] != 0x10 || offsets[1] != 0x20 || offsets[2] != 8 {
		t.Fatalf("offsets were not parsed correctly %#v", offsets)
	}

	if _, err = utils.ParseOffsets("0x10,,0x20"); err == nil {
		t.Fatal("expected error for empty offset")
	}
}
