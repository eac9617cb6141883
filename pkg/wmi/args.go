package wmi

import (
	"encoding/binary"
	"fmt"
)

// ArgsSize is the size of the argument record the firmware method
// expects and returns. The record is always this size regardless of
// mode.
const ArgsSize = 24

// Args is the argument record for the firmware brightness method.
//
// Mode selects between getting and setting. Val is the in parameter
// used with ModeSet. Ret is the out parameter carrying the retrieved
// value for ModeGet and ModeGetMaxLevel. The remaining 12 bytes of the
// record are reserved padding and always encode as zero.
//
// The value carried in Val/Ret is a brightness level for MethodLevel
// and a Source value for MethodSource.
type Args struct {
	Mode uint32
	Val  uint32
	Ret  uint32
}

// Encode serializes the record into the fixed 24-byte little-endian
// layout of the firmware ABI.
func (a Args) Encode() []byte {
	buf := make([]byte, ArgsSize)
	binary.LittleEndian.PutUint32(buf[0:], a.Mode)
	binary.LittleEndian.PutUint32(buf[4:], a.Val)
	binary.LittleEndian.PutUint32(buf[8:], a.Ret)
	// buf[12:24] reserved, already zero
	return buf
}

// DecodeArgs parses a 24-byte firmware response record. Reserved bytes
// are ignored.
func DecodeArgs(buf []byte) (Args, error) {
	if len(buf) != ArgsSize {
		return Args{}, fmt.Errorf("argument record is %d bytes, want %d", len(buf), ArgsSize)
	}
	return Args{
		Mode: binary.LittleEndian.Uint32(buf[0:]),
		Val:  binary.LittleEndian.Uint32(buf[4:]),
		Ret:  binary.LittleEndian.Uint32(buf[8:]),
	}, nil
}
