package objhdr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize+16)
	var typeMeta, system int
	WriteHeader(buf, unsafe.Pointer(&typeMeta), unsafe.Pointer(&system))

	h := ReadHeader(buf)
	assert.Equal(t, unsafe.Pointer(&typeMeta), h.TypeMeta)
	assert.Equal(t, unsafe.Pointer(&system), h.System)
}

func TestObjectFromPayloadRecoversHeader(t *testing.T) {
	total := HeaderSize + 16
	obj := make([]byte, total)
	var typeMeta int
	WriteHeader(obj, unsafe.Pointer(&typeMeta), nil)

	payload := PayloadFromObject(obj, 16)
	recovered := ObjectFromPayload(payload, total)

	assert.Equal(t, obj, recovered)
	assert.Equal(t, unsafe.Pointer(&typeMeta), ReadHeader(recovered).TypeMeta)
}

func TestTailFromObjectIsEverythingAfterHeader(t *testing.T) {
	obj := make([]byte, HeaderSize+5)
	for i := HeaderSize; i < len(obj); i++ {
		obj[i] = byte(i)
	}
	tail := TailFromObject(obj)
	assert.Len(t, tail, 5)
	assert.Equal(t, byte(HeaderSize), tail[0])
}
