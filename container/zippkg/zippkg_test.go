package zippkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReadRoundTrip(t *testing.T) {
	p := New()
	p.Write("ppt/presentation.xml", []byte("<presentation/>"))
	p.Write("[Content_Types].xml", []byte("<Types/>"))

	data, err := p.ToBytes()
	assert.NoError(t, err)

	reopened, err := Open(data)
	assert.NoError(t, err)

	got, ok := reopened.ReadText("ppt/presentation.xml")
	assert.True(t, ok)
	assert.Equal(t, "<presentation/>", got)
}

func TestToBytesIsDeterministic(t *testing.T) {
	p := New()
	p.Write("b.xml", []byte("b"))
	p.Write("a.xml", []byte("a"))

	first, err := p.ToBytes()
	assert.NoError(t, err)
	second, err := p.ToBytes()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	p := New()
	p.Write("z.xml", nil)
	p.Write("a.xml", nil)
	assert.Equal(t, []string{"z.xml", "a.xml"}, p.List())
}

func TestRemove(t *testing.T) {
	p := New()
	p.Write("a.xml", []byte("a"))
	p.Remove("a.xml")
	_, ok := p.Read("a.xml")
	assert.False(t, ok)
	assert.Empty(t, p.List())
}

func TestNormalizePathStripsLeadingSlashAndBackslash(t *testing.T) {
	p := New()
	p.Write("/ppt\\media\\image1.png", []byte{1})
	_, ok := p.Read("ppt/media/image1.png")
	assert.True(t, ok)
}
