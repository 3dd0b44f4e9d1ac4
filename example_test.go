package dts_test

import (
	"fmt"
	"unsafe"

	"github.com/eirsys/dts"
)

type vec2 struct {
	X, Y float64
}

func (v *vec2) CopyFrom(src any) error {
	*v = *src.(*vec2)
	return nil
}

func Example() {
	sys := dts.New()

	vecType, err := dts.RegisterStructType[vec2](sys, "Vec2", nil)
	if err != nil {
		panic(err)
	}

	obj, err := sys.Construct(vecType, nil)
	if err != nil {
		panic(err)
	}
	defer sys.Destroy(obj)

	payload := dts.GetPayloadFromObject(vecType, obj)
	v := (*vec2)(unsafe.Pointer(&payload[0]))
	v.X, v.Y = 3, 4
	fmt.Println(v.X, v.Y)
	// Output: 3 4
}
