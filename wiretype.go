// Copyright 2026 The Fudge-Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fudge

import (
	"fmt"
	"reflect"
)

// WireTypeID is the one-byte numeric identifier of a wire type on the wire.
type WireTypeID uint8

// Standard wire type ids, preserved bit-exact per spec.md §3.
const (
	TypeIndicator  WireTypeID = 0
	TypeBool       WireTypeID = 1
	TypeByte       WireTypeID = 2
	TypeShort      WireTypeID = 3
	TypeInt        WireTypeID = 4
	TypeLong       WireTypeID = 5
	TypeByteArray  WireTypeID = 6
	TypeShortArray WireTypeID = 7
	TypeIntArray   WireTypeID = 8
	TypeLongArray  WireTypeID = 9
	TypeFloat      WireTypeID = 10
	TypeDouble     WireTypeID = 11
	TypeFloatArray WireTypeID = 12
	TypeDoubleArray WireTypeID = 13
	TypeString     WireTypeID = 14
	TypeSubMessage WireTypeID = 15

	TypeByteArray4   WireTypeID = 17
	TypeByteArray8   WireTypeID = 18
	TypeByteArray16  WireTypeID = 19
	TypeByteArray20  WireTypeID = 20
	TypeByteArray32  WireTypeID = 21
	TypeByteArray64  WireTypeID = 22
	TypeByteArray128 WireTypeID = 23
	TypeByteArray256 WireTypeID = 24
	TypeByteArray512 WireTypeID = 25

	TypeDate     WireTypeID = 26
	TypeTime     WireTypeID = 27
	TypeDateTime WireTypeID = 28
)

// FixedByteArrayWidths are the fixed widths, in ascending order, that the
// best-match byte array selection (spec.md §4.3) chooses between.
var FixedByteArrayWidths = [...]int{4, 8, 16, 20, 32, 64, 128, 256, 512}

// fixedByteArrayType maps an exact fixed width to its wire type id.
var fixedByteArrayType = map[int]WireTypeID{
	4: TypeByteArray4, 8: TypeByteArray8, 16: TypeByteArray16, 20: TypeByteArray20,
	32: TypeByteArray32, 64: TypeByteArray64, 128: TypeByteArray128, 256: TypeByteArray256,
	512: TypeByteArray512,
}

// WireType describes one entry of the type dictionary: a numeric id, its
// fixed-width-ness and byte width, and the host type new raw values of this
// wire type are represented as.
type WireType struct {
	ID         WireTypeID
	Name       string
	Fixed      bool
	Width      int // meaningful only when Fixed; 0 for variable-width types.
	HostType   reflect.Type
	Unknown    bool // synthesized for an unregistered id; payload is raw bytes.
}

// IsFixedWidth reports whether values of this type have a length implied by
// the type itself, rather than an explicit on-wire length.
func (w WireType) IsFixedWidth() bool { return w.Fixed }

// String implements fmt.Stringer.
func (w WireType) String() string {
	if w.Unknown {
		return fmt.Sprintf("unknown(%d)", w.ID)
	}
	return w.Name
}

var (
	typeOfBool        = reflect.TypeOf(false)
	typeOfByte        = reflect.TypeOf(int8(0))
	typeOfShort       = reflect.TypeOf(int16(0))
	typeOfInt         = reflect.TypeOf(int32(0))
	typeOfLong        = reflect.TypeOf(int64(0))
	typeOfByteSlice   = reflect.TypeOf([]byte(nil))
	typeOfShortSlice  = reflect.TypeOf([]int16(nil))
	typeOfIntSlice    = reflect.TypeOf([]int32(nil))
	typeOfLongSlice   = reflect.TypeOf([]int64(nil))
	typeOfFloat       = reflect.TypeOf(float32(0))
	typeOfDouble      = reflect.TypeOf(float64(0))
	typeOfFloatSlice  = reflect.TypeOf([]float32(nil))
	typeOfDoubleSlice = reflect.TypeOf([]float64(nil))
	typeOfString      = reflect.TypeOf("")
	typeOfMessage     = reflect.TypeOf((*MutableMessage)(nil))
	typeOfDate        = reflect.TypeOf(Date{})
	typeOfTime        = reflect.TypeOf(Time{})
	typeOfDateTime    = reflect.TypeOf(DateTime{})
)

// standardWireTypes is installed into every new Dictionary at construction
// time (spec.md §4.2 "Initial type registration").
func standardWireTypes() []WireType {
	types := []WireType{
		{ID: TypeIndicator, Name: "indicator", Fixed: true, Width: 0, HostType: nil},
		{ID: TypeBool, Name: "boolean", Fixed: true, Width: 1, HostType: typeOfBool},
		{ID: TypeByte, Name: "byte", Fixed: true, Width: 1, HostType: typeOfByte},
		{ID: TypeShort, Name: "short", Fixed: true, Width: 2, HostType: typeOfShort},
		{ID: TypeInt, Name: "int", Fixed: true, Width: 4, HostType: typeOfInt},
		{ID: TypeLong, Name: "long", Fixed: true, Width: 8, HostType: typeOfLong},
		{ID: TypeByteArray, Name: "byte[]", Fixed: false, HostType: typeOfByteSlice},
		{ID: TypeShortArray, Name: "short[]", Fixed: false, HostType: typeOfShortSlice},
		{ID: TypeIntArray, Name: "int[]", Fixed: false, HostType: typeOfIntSlice},
		{ID: TypeLongArray, Name: "long[]", Fixed: false, HostType: typeOfLongSlice},
		{ID: TypeFloat, Name: "float", Fixed: true, Width: 4, HostType: typeOfFloat},
		{ID: TypeDouble, Name: "double", Fixed: true, Width: 8, HostType: typeOfDouble},
		{ID: TypeFloatArray, Name: "float[]", Fixed: false, HostType: typeOfFloatSlice},
		{ID: TypeDoubleArray, Name: "double[]", Fixed: false, HostType: typeOfDoubleSlice},
		{ID: TypeString, Name: "string", Fixed: false, HostType: typeOfString},
		{ID: TypeSubMessage, Name: "message", Fixed: false, HostType: typeOfMessage},
		{ID: TypeDate, Name: "date", Fixed: true, Width: 4, HostType: typeOfDate},
		{ID: TypeTime, Name: "time", Fixed: true, Width: 8, HostType: typeOfTime},
		{ID: TypeDateTime, Name: "datetime", Fixed: true, Width: 12, HostType: typeOfDateTime},
	}
	for _, width := range FixedByteArrayWidths {
		id := fixedByteArrayType[width]
		types = append(types, WireType{
			ID: id, Name: fmt.Sprintf("byte[%d]", width),
			Fixed: true, Width: width, HostType: typeOfByteSlice,
		})
	}
	return types
}

// unknownWireType synthesizes the "unknown" wire type for an unregistered
// id (spec.md §3: "A special 'unknown' wire type is auto-generated for any
// id not explicitly registered, carrying only raw bytes as payload.").
func unknownWireType(id WireTypeID) WireType {
	return WireType{ID: id, Name: fmt.Sprintf("unknown(%d)", id), Fixed: false, HostType: typeOfByteSlice, Unknown: true}
}
