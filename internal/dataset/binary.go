package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

var littleEndianHost = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Mapped is a read-only memory mapping of a file of little-endian float64 values.
type Mapped struct {
	mm     mmap.MMap
	values []float64
}

// OpenBinary maps path read-only. The file may be closed right away; the
// mapping stays valid until Close.
func OpenBinary(path string) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Size()%8 != 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrMisalignedFile)
	}
	if stat.Size() == 0 {
		return &Mapped{}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	adviseSequential(mm)

	m := &Mapped{mm: mm}
	if littleEndianHost && uintptr(unsafe.Pointer(&mm[0]))%unsafe.Alignof(float64(0)) == 0 {
		m.values = unsafe.Slice((*float64)(unsafe.Pointer(&mm[0])), len(mm)/8)
	} else {
		m.values, _ = DecodeBinary(mm)
	}
	return m, nil
}

// Floats returns the mapped values. The slice aliases the mapping when
// possible and must be treated as read-only.
func (m *Mapped) Floats() []float64 {
	return m.values
}

// Close unmaps the file.
func (m *Mapped) Close() error {
	m.values = nil
	if m.mm == nil {
		return nil
	}
	err := m.mm.Unmap()
	m.mm = nil
	return err
}

// DecodeBinary copies raw little-endian float64 values into a new slice.
func DecodeBinary(raw []byte) ([]float64, error) {
	if len(raw)%8 != 0 {
		return nil, ErrMisalignedFile
	}
	values := make([]float64, len(raw)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return values, nil
}

// WriteBinary writes values as little-endian float64.
func WriteBinary(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
