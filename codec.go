package bloom

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Binary snapshot format, little-endian throughout:
//
//	offset  0  magic          4 bytes  "blmf"
//	offset  4  version        uint16
//	offset  6  m (bit length) uint64
//	offset 14  k (probes)     uint32
//	offset 18  seedA          uint64
//	offset 26  seedB          uint64
//	offset 34  inserted count uint64   advisory only
//	offset 42  payload        ceil(m/8) bytes, packed LSB0
//
// The seeds are persisted, not regenerated on load: a reloaded filter must
// probe exactly the bits the original set.
const (
	FormatVersion uint16 = 1

	headerSize = 42
)

var formatMagic = [4]byte{'b', 'l', 'm', 'f'}

// maxFilterBits bounds the declared bit length before any allocation, so a
// corrupt header cannot demand petabytes of payload.
const maxFilterBits = uint64(1) << 46

// MarshalBinary serializes the filter snapshot to a byte slice.
func (f *Filter) MarshalBinary() ([]byte, error) {
	payload := f.bits.Bytes()
	buf := make([]byte, headerSize+len(payload))

	copy(buf[0:4], formatMagic[:])
	binary.LittleEndian.PutUint16(buf[4:6], FormatVersion)
	binary.LittleEndian.PutUint64(buf[6:14], f.bits.Len())
	binary.LittleEndian.PutUint32(buf[14:18], f.k)
	binary.LittleEndian.PutUint64(buf[18:26], f.seedA)
	binary.LittleEndian.PutUint64(buf[26:34], f.seedB)
	binary.LittleEndian.PutUint64(buf[34:42], f.inserted)
	copy(buf[headerSize:], payload)

	return buf, nil
}

// UnmarshalBinary reconstructs a filter from a snapshot produced by
// MarshalBinary. The input must be exactly one snapshot: trailing garbage is
// rejected the same as a short payload, so a partially written file never
// deserializes into a plausible-looking filter.
func UnmarshalBinary(data []byte) (*Filter, error) {
	if len(data) < headerSize {
		return nil, errors.Wrapf(ErrTruncatedData, "header needs %d bytes, got %d", headerSize, len(data))
	}
	if !bytes.Equal(data[0:4], formatMagic[:]) {
		return nil, errors.Wrapf(ErrCorruptData, "magic %q", data[0:4])
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d, supported %d", version, FormatVersion)
	}

	m := binary.LittleEndian.Uint64(data[6:14])
	k := binary.LittleEndian.Uint32(data[14:18])
	seedA := binary.LittleEndian.Uint64(data[18:26])
	seedB := binary.LittleEndian.Uint64(data[26:34])
	inserted := binary.LittleEndian.Uint64(data[34:42])

	if m == 0 || m > maxFilterBits {
		return nil, errors.Wrapf(ErrCorruptData, "bit length %d out of range", m)
	}
	if k == 0 {
		return nil, errors.Wrap(ErrCorruptData, "zero probe count")
	}
	if uint64(len(data))-headerSize != bytesForBits(m) {
		return nil, errors.Wrapf(ErrTruncatedData, "payload is %d bytes, %d bits require %d", len(data)-headerSize, m, bytesForBits(m))
	}

	bits, err := BitVectorFromBytes(m, data[headerSize:])
	if err != nil {
		return nil, err
	}
	return &Filter{
		bits:     bits,
		k:        k,
		seedA:    seedA,
		seedB:    seedB,
		inserted: inserted,
	}, nil
}

// WriteTo streams the snapshot to w. The write is all-or-nothing from the
// filter's point of view: callers persisting to a file should write to a
// temporary path and rename, or treat any short write as total failure.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	data, err := f.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), errors.Wrap(err, "bloom filter snapshot write failed")
}

// ReadFrom reads exactly one snapshot from r and reconstructs the filter.
// A stream that ends inside the header or the payload yields
// ErrTruncatedData.
func ReadFrom(r io.Reader) (*Filter, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrap(ErrTruncatedData, "snapshot header")
		}
		return nil, errors.Wrap(err, "bloom filter snapshot header read failed")
	}
	if !bytes.Equal(header[0:4], formatMagic[:]) {
		return nil, errors.Wrapf(ErrCorruptData, "magic %q", header[0:4])
	}
	version := binary.LittleEndian.Uint16(header[4:6])
	if version != FormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d, supported %d", version, FormatVersion)
	}
	m := binary.LittleEndian.Uint64(header[6:14])
	if m == 0 || m > maxFilterBits {
		return nil, errors.Wrapf(ErrCorruptData, "bit length %d out of range", m)
	}

	payload := make([]byte, bytesForBits(m))
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrapf(ErrTruncatedData, "snapshot payload, %d bits require %d bytes", m, len(payload))
		}
		return nil, errors.Wrap(err, "bloom filter snapshot payload read failed")
	}

	return UnmarshalBinary(append(header, payload...))
}
