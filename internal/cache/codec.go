package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/getcharzp/go-patchsim/similarity"
)

var magic = [4]byte{'P', 'S', 'G', '1'}

const headerLen = 4 + 3*4

// MarshalGrid 编码网格: magic | size | dim | patch | float64 小端数据
func MarshalGrid(g *similarity.PatchGrid) []byte {
	buf := make([]byte, headerLen+8*len(g.Data))
	copy(buf, magic[:])
	binary.LittleEndian.PutUint32(buf[4:], uint32(g.Size))
	binary.LittleEndian.PutUint32(buf[8:], uint32(g.Dim))
	binary.LittleEndian.PutUint32(buf[12:], uint32(g.PatchSize))
	for i, v := range g.Data {
		binary.LittleEndian.PutUint64(buf[headerLen+8*i:], math.Float64bits(v))
	}
	return buf
}

// UnmarshalGrid 解码 MarshalGrid 的输出
func UnmarshalGrid(buf []byte) (*similarity.PatchGrid, error) {
	if len(buf) < headerLen || [4]byte(buf[:4]) != magic {
		return nil, errors.New("cache: not a patch grid")
	}
	size := int(binary.LittleEndian.Uint32(buf[4:]))
	dim := int(binary.LittleEndian.Uint32(buf[8:]))
	patch := int(binary.LittleEndian.Uint32(buf[12:]))

	body := buf[headerLen:]
	if len(body)%8 != 0 {
		return nil, fmt.Errorf("cache: truncated grid payload (%d bytes)", len(body))
	}
	data := make([]float64, len(body)/8)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(body[8*i:]))
	}
	return similarity.NewPatchGrid(size, dim, patch, data)
}
