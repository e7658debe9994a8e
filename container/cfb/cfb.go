// Package cfb reads OLE Compound File Binary containers — the format
// underlying legacy .doc files and embedded OLE objects inside OOXML
// packages. It wraps github.com/richardlehane/mscfb for entry enumeration
// and stream reading, and adds its own sector-chain walking with cycle
// detection plus the MUST-level structural validation strict mode
// requires.
package cfb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"
)

// Sentinel errors for chain-walking failures.
var (
	// ErrCycle reports a sector revisited while following a chain.
	ErrCycle = errors.New("cfb: sector chain cycle")
	// ErrBadSector reports a reserved sector value (FREESECT, FATSECT,
	// DIFSECT) appearing as a chain successor.
	ErrBadSector = errors.New("cfb: reserved sector in chain")
	// ErrOutOfRange reports a sector index above MAXREGSECT.
	ErrOutOfRange = errors.New("cfb: sector index out of range")
	// ErrTruncated reports a byte range outside the container.
	ErrTruncated = errors.New("cfb: truncated container")
)

const (
	headerSignature = 0xE11AB1A1E011CFD0

	// Sector number sentinels.
	maxRegSector = 0xFFFFFFFA
	difatSect    = 0xFFFFFFFC
	fatSect      = 0xFFFFFFFD
	endOfChain   = 0xFFFFFFFE
	freeSect     = 0xFFFFFFFF
	noStream     = 0xFFFFFFFF

	miniStreamCutoff = 0x1000
	dirEntrySize     = 128
)

// header is the parsed fixed-size CFB header.
type header struct {
	majorVersion    uint16
	sectorShift     uint16
	miniSectorShift uint16
	numFATSectors   uint32
	firstDirSector  uint32
	miniCutoff      uint32
	firstDIFAT      uint32
	numDIFATSectors uint32
	difatHead       [109]uint32
}

// Entry is one stream or storage entry discovered while walking the
// container's directory chain.
type Entry struct {
	Name     string
	Path     []string
	Size     int64
	IsStream bool
}

// Reader reads entries out of a Compound File Binary container.
type Reader struct {
	raw    []byte
	hdr    header
	strict bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithStrict enables MUST-level structural validation: header signature,
// byte-order mark, sector shifts, mini-stream cutoff = 0x1000, declared
// FAT-sector count vs the DIFAT collection, stream size vs sector count,
// and zeroed unused directory entries with sibling/child = NOSTREAM.
func WithStrict() Option {
	return func(r *Reader) { r.strict = true }
}

// Open parses a CFB container from raw bytes. The directory chain is
// walked with a visited set; revisiting a sector fails with ErrCycle.
func Open(data []byte, opts ...Option) (*Reader, error) {
	r := &Reader{raw: data}
	for _, opt := range opts {
		opt(r)
	}

	hdr, err := parseHeader(data, r.strict)
	if err != nil {
		return nil, err
	}
	r.hdr = hdr

	// Walking the directory chain validates the FAT and DIFAT on the way
	// (both strict and non-strict: cycles and bad sectors are structural
	// failures, not schema violations).
	dirSectors, err := r.chain(hdr.firstDirSector)
	if err != nil {
		return nil, err
	}

	if r.strict {
		if err := r.validateStrict(dirSectors); err != nil {
			return nil, err
		}
	}

	// mscfb handles the entry tree and (mini-)stream assembly.
	if _, err := mscfb.New(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("cfb: %w", err)
	}

	return r, nil
}

// Entries returns every stream and storage entry in the container.
func (r *Reader) Entries() ([]Entry, error) {
	mr, err := mscfb.New(bytes.NewReader(r.raw))
	if err != nil {
		return nil, fmt.Errorf("cfb: %w", err)
	}

	var entries []Entry
	for entry, err := mr.Next(); err == nil; entry, err = mr.Next() {
		entries = append(entries, Entry{
			Name:     entry.Name,
			Path:     append([]string(nil), entry.Path...),
			Size:     entry.Size,
			IsStream: entry.Size > 0,
		})
	}
	return entries, nil
}

// ReadStream reads the full contents of the named stream entry.
func (r *Reader) ReadStream(name string) ([]byte, error) {
	mr, err := mscfb.New(bytes.NewReader(r.raw))
	if err != nil {
		return nil, fmt.Errorf("cfb: %w", err)
	}
	for entry, ferr := mr.Next(); ferr == nil; entry, ferr = mr.Next() {
		if entry.Name != name {
			continue
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(mr, buf); err != nil && err != io.EOF {
			return nil, fmt.Errorf("cfb: read stream %s: %w", name, err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("cfb: stream %q not found", name)
}

func parseHeader(data []byte, strict bool) (header, error) {
	if len(data) < 512 {
		return header{}, fmt.Errorf("%w: header needs 512 bytes, got %d", ErrTruncated, len(data))
	}

	var h header
	sig := binary.LittleEndian.Uint64(data[0:8])
	if sig != headerSignature {
		return header{}, fmt.Errorf("cfb: bad header signature %#x", sig)
	}
	h.majorVersion = binary.LittleEndian.Uint16(data[26:28])
	bom := binary.LittleEndian.Uint16(data[28:30])
	h.sectorShift = binary.LittleEndian.Uint16(data[30:32])
	h.miniSectorShift = binary.LittleEndian.Uint16(data[32:34])
	h.numFATSectors = binary.LittleEndian.Uint32(data[44:48])
	h.firstDirSector = binary.LittleEndian.Uint32(data[48:52])
	h.miniCutoff = binary.LittleEndian.Uint32(data[56:60])
	h.firstDIFAT = binary.LittleEndian.Uint32(data[68:72])
	h.numDIFATSectors = binary.LittleEndian.Uint32(data[72:76])
	for i := 0; i < 109; i++ {
		h.difatHead[i] = binary.LittleEndian.Uint32(data[76+i*4 : 80+i*4])
	}

	if strict {
		if bom != 0xFFFE {
			return header{}, fmt.Errorf("cfb: unexpected byte-order mark %#x", bom)
		}
		switch {
		case h.majorVersion == 3 && h.sectorShift == 9:
		case h.majorVersion == 4 && h.sectorShift == 12:
		default:
			return header{}, fmt.Errorf("cfb: version %d with sector shift %d", h.majorVersion, h.sectorShift)
		}
		if h.miniSectorShift != 6 {
			return header{}, fmt.Errorf("cfb: unexpected mini sector shift %d", h.miniSectorShift)
		}
		if h.miniCutoff != miniStreamCutoff {
			return header{}, fmt.Errorf("cfb: mini stream cutoff %#x, must be %#x", h.miniCutoff, miniStreamCutoff)
		}
	}

	return h, nil
}

func (r *Reader) sectorSize() int {
	return 1 << r.hdr.sectorShift
}

// sectorBytes returns a sector's byte range, range-checked before slicing.
func (r *Reader) sectorBytes(sector uint32) ([]byte, error) {
	size := r.sectorSize()
	start := (int64(sector) + 1) * int64(size)
	end := start + int64(size)
	if start < 0 || end > int64(len(r.raw)) {
		return nil, fmt.Errorf("%w: sector %d at bytes %d..%d", ErrTruncated, sector, start, end)
	}
	return r.raw[start:end], nil
}

// difat collects the FAT sector list: the 109 header entries plus the
// DIFAT sector chain, with a visited set across the chain.
func (r *Reader) difat() ([]uint32, error) {
	var fatSectors []uint32
	for _, s := range r.hdr.difatHead {
		if s == freeSect {
			continue
		}
		fatSectors = append(fatSectors, s)
	}

	visited := map[uint32]bool{}
	entriesPerSector := r.sectorSize()/4 - 1

	sector := r.hdr.firstDIFAT
	for sector != endOfChain && sector != freeSect {
		if sector > maxRegSector {
			return nil, fmt.Errorf("%w: DIFAT sector %#x", ErrBadSector, sector)
		}
		if visited[sector] {
			return nil, fmt.Errorf("%w: DIFAT sector %d", ErrCycle, sector)
		}
		visited[sector] = true

		data, err := r.sectorBytes(sector)
		if err != nil {
			return nil, err
		}
		for i := 0; i < entriesPerSector; i++ {
			entry := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
			if entry != freeSect {
				fatSectors = append(fatSectors, entry)
			}
		}
		// Last entry chains to the next DIFAT sector.
		sector = binary.LittleEndian.Uint32(data[len(data)-4:])
	}

	return fatSectors, nil
}

// fatEntry looks up a sector's successor in the FAT.
func (r *Reader) fatEntry(fatSectors []uint32, sector uint32) (uint32, error) {
	perSector := uint32(r.sectorSize() / 4)
	fatIndex := sector / perSector
	if int(fatIndex) >= len(fatSectors) {
		return 0, fmt.Errorf("%w: sector %d beyond FAT", ErrOutOfRange, sector)
	}
	data, err := r.sectorBytes(fatSectors[fatIndex])
	if err != nil {
		return 0, err
	}
	offset := (sector % perSector) * 4
	return binary.LittleEndian.Uint32(data[offset : offset+4]), nil
}

// chain follows a FAT chain from start, failing with ErrCycle on a
// revisited sector, ErrBadSector on a reserved value, and ErrOutOfRange
// above MAXREGSECT.
func (r *Reader) chain(start uint32) ([]uint32, error) {
	fatSectors, err := r.difat()
	if err != nil {
		return nil, err
	}

	visited := map[uint32]bool{}
	var out []uint32

	sector := start
	for sector != endOfChain {
		switch sector {
		case freeSect, fatSect, difatSect:
			return nil, fmt.Errorf("%w: %#x", ErrBadSector, sector)
		}
		if sector > maxRegSector {
			return nil, fmt.Errorf("%w: sector %#x", ErrOutOfRange, sector)
		}
		if visited[sector] {
			return nil, fmt.Errorf("%w: sector %d", ErrCycle, sector)
		}
		visited[sector] = true
		out = append(out, sector)

		sector, err = r.fatEntry(fatSectors, sector)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// validateStrict performs the MUST-level checks that need the walked
// directory chain: FAT-sector count vs DIFAT collection, stream size vs
// sector count, and zeroed unused directory entries.
func (r *Reader) validateStrict(dirSectors []uint32) error {
	fatSectors, err := r.difat()
	if err != nil {
		return err
	}
	if uint32(len(fatSectors)) != r.hdr.numFATSectors {
		return fmt.Errorf("cfb: header declares %d FAT sectors, DIFAT collects %d",
			r.hdr.numFATSectors, len(fatSectors))
	}

	sectorSize := int64(r.sectorSize())
	entriesPerSector := int(sectorSize) / dirEntrySize

	for _, dirSector := range dirSectors {
		data, err := r.sectorBytes(dirSector)
		if err != nil {
			return err
		}
		for i := 0; i < entriesPerSector; i++ {
			entry := data[i*dirEntrySize : (i+1)*dirEntrySize]
			objectType := entry[66]
			if objectType != 0 {
				// Stream entries: the declared size must fit within the
				// chain's sector count, checked for FAT-resident streams.
				if objectType == 2 {
					size := int64(binary.LittleEndian.Uint64(entry[120:128]))
					start := binary.LittleEndian.Uint32(entry[116:120])
					if size >= miniStreamCutoff && start <= maxRegSector {
						sectors, err := r.chain(start)
						if err != nil {
							return err
						}
						need := (size + sectorSize - 1) / sectorSize
						if int64(len(sectors)) < need {
							return fmt.Errorf("cfb: stream declares %d bytes but chain has %d sectors", size, len(sectors))
						}
					}
				}
				continue
			}
			// Unused entries must be zeroed with sibling/child NOSTREAM.
			nameLen := binary.LittleEndian.Uint16(entry[64:66])
			if nameLen != 0 {
				return fmt.Errorf("cfb: unused directory entry %d in sector %d has a name", i, dirSector)
			}
			for _, off := range []int{68, 72, 76} {
				if binary.LittleEndian.Uint32(entry[off:off+4]) != noStream {
					return fmt.Errorf("cfb: unused directory entry %d in sector %d has live links", i, dirSector)
				}
			}
		}
	}
	return nil
}
