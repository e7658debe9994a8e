package cfb

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildContainer assembles a minimal valid v3 container: one FAT sector
// (sector 0) and one directory sector (sector 1) holding only the root
// entry. mutate lets tests corrupt specific bytes before parsing.
func buildContainer(mutate func(data []byte)) []byte {
	data := make([]byte, 512*3)

	// Header.
	binary.LittleEndian.PutUint64(data[0:8], headerSignature)
	binary.LittleEndian.PutUint16(data[26:28], 3)      // major version
	binary.LittleEndian.PutUint16(data[28:30], 0xFFFE) // byte order
	binary.LittleEndian.PutUint16(data[30:32], 9)      // sector shift
	binary.LittleEndian.PutUint16(data[32:34], 6)      // mini sector shift
	binary.LittleEndian.PutUint32(data[44:48], 1)      // FAT sector count
	binary.LittleEndian.PutUint32(data[48:52], 1)      // first directory sector
	binary.LittleEndian.PutUint32(data[56:60], miniStreamCutoff)
	binary.LittleEndian.PutUint32(data[60:64], endOfChain) // first mini FAT sector
	binary.LittleEndian.PutUint32(data[68:72], endOfChain) // first DIFAT sector
	// DIFAT head: entry 0 names the FAT sector, rest free.
	binary.LittleEndian.PutUint32(data[76:80], 0)
	for i := 1; i < 109; i++ {
		binary.LittleEndian.PutUint32(data[76+i*4:80+i*4], freeSect)
	}

	// FAT (sector 0): itself, then the directory chain terminator.
	fat := data[512:1024]
	binary.LittleEndian.PutUint32(fat[0:4], fatSect)
	binary.LittleEndian.PutUint32(fat[4:8], endOfChain)
	for i := 2; i < 128; i++ {
		binary.LittleEndian.PutUint32(fat[i*4:i*4+4], freeSect)
	}

	// Directory (sector 1): root entry + three unused entries.
	dir := data[1024:1536]
	root := dir[0:dirEntrySize]
	name := "Root Entry"
	for i, c := range name {
		binary.LittleEndian.PutUint16(root[i*2:i*2+2], uint16(c))
	}
	binary.LittleEndian.PutUint16(root[64:66], uint16((len(name)+1)*2))
	root[66] = 5 // root storage
	root[67] = 1 // black
	binary.LittleEndian.PutUint32(root[68:72], noStream)
	binary.LittleEndian.PutUint32(root[72:76], noStream)
	binary.LittleEndian.PutUint32(root[76:80], noStream)
	binary.LittleEndian.PutUint32(root[116:120], endOfChain)

	for e := 1; e < 4; e++ {
		entry := dir[e*dirEntrySize : (e+1)*dirEntrySize]
		binary.LittleEndian.PutUint32(entry[68:72], noStream)
		binary.LittleEndian.PutUint32(entry[72:76], noStream)
		binary.LittleEndian.PutUint32(entry[76:80], noStream)
	}

	if mutate != nil {
		mutate(data)
	}
	return data
}

// TestOpenValid tests that a minimal container parses in both modes
func TestOpenValid(t *testing.T) {
	data := buildContainer(nil)

	_, err := Open(data)
	require.NoError(t, err)

	_, err = Open(data, WithStrict())
	require.NoError(t, err)
}

// TestOpenTruncated tests the truncation error
func TestOpenTruncated(t *testing.T) {
	_, err := Open([]byte{1, 2, 3})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTruncated))
}

// TestOpenBadSignature tests signature rejection
func TestOpenBadSignature(t *testing.T) {
	data := buildContainer(func(d []byte) {
		binary.LittleEndian.PutUint64(d[0:8], 0xDEADBEEF)
	})
	_, err := Open(data)
	require.Error(t, err)
}

// TestDirectoryChainCycle tests the visited-set cycle detection
func TestDirectoryChainCycle(t *testing.T) {
	data := buildContainer(func(d []byte) {
		// Directory sector 1 chains to itself.
		binary.LittleEndian.PutUint32(d[512+4:512+8], 1)
	})
	_, err := Open(data)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCycle), "got %v", err)
}

// TestReservedSectorInChain tests ErrBadSector on a reserved successor
func TestReservedSectorInChain(t *testing.T) {
	data := buildContainer(func(d []byte) {
		binary.LittleEndian.PutUint32(d[512+4:512+8], fatSect)
	})
	_, err := Open(data)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadSector), "got %v", err)
}

// TestSectorOutOfRange tests ErrOutOfRange above MAXREGSECT
func TestSectorOutOfRange(t *testing.T) {
	data := buildContainer(func(d []byte) {
		binary.LittleEndian.PutUint32(d[512+4:512+8], maxRegSector+1)
	})
	_, err := Open(data)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOutOfRange), "got %v", err)
}

// TestStrictRejectsBadMiniCutoff tests the mini-stream cutoff check
func TestStrictRejectsBadMiniCutoff(t *testing.T) {
	data := buildContainer(func(d []byte) {
		binary.LittleEndian.PutUint32(d[56:60], 0x2000)
	})

	// Non-strict mode tolerates it.
	_, err := Open(data)
	require.NoError(t, err)

	_, err = Open(data, WithStrict())
	require.Error(t, err)
}

// TestStrictRejectsFATCountMismatch tests declared-vs-collected FAT count
func TestStrictRejectsFATCountMismatch(t *testing.T) {
	data := buildContainer(func(d []byte) {
		binary.LittleEndian.PutUint32(d[44:48], 2)
	})
	_, err := Open(data, WithStrict())
	require.Error(t, err)
}

// TestStrictRejectsDirtyUnusedEntry tests the zeroed-unused-entries check
func TestStrictRejectsDirtyUnusedEntry(t *testing.T) {
	data := buildContainer(func(d []byte) {
		// Unused entry 1's left sibling points at a live entry.
		binary.LittleEndian.PutUint32(d[1024+dirEntrySize+68:1024+dirEntrySize+72], 0)
	})

	_, err := Open(data)
	require.NoError(t, err)

	_, err = Open(data, WithStrict())
	require.Error(t, err)
}
