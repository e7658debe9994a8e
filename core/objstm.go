package core

import (
	"bytes"
	"fmt"
)

// ObjectStream reads a /ObjStm (PDF 1.5 object stream): multiple
// non-stream objects packed into one compressed stream, addressed by a
// header of (object number, offset) pairs that precedes /First.
type ObjectStream struct {
	stream *Stream

	count int          // /N
	first int          // /First
	owner *IndirectRef // /Extends, when this stream continues another

	// Lazily populated on first access.
	payload []byte
	slots   []objStmSlot
	parsed  map[int]Object
}

// objStmSlot is one header pair: the stored object's number and its
// offset relative to /First.
type objStmSlot struct {
	number int
	offset int
}

// requiredInt reads a mandatory non-negative integer entry from the
// stream dictionary.
func requiredInt(dict Dict, key string) (int, error) {
	obj := dict.Get(key)
	if obj == nil {
		return 0, fmt.Errorf("object stream missing /%s", key)
	}
	v, ok := obj.(Int)
	if !ok {
		return 0, fmt.Errorf("invalid /%s type: %T", key, obj)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid /%s value: %d", key, int(v))
	}
	return int(v), nil
}

// NewObjectStream validates a stream's /ObjStm dictionary (/Type, /N,
// /First, optional /Extends) and wraps it for lazy extraction.
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}

	typeName, ok := stream.Dict.Get("Type").(Name)
	if !ok || string(typeName) != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type: %v", stream.Dict.Get("Type"))
	}

	count, err := requiredInt(stream.Dict, "N")
	if err != nil {
		return nil, err
	}
	first, err := requiredInt(stream.Dict, "First")
	if err != nil {
		return nil, err
	}

	var owner *IndirectRef
	if extendsObj := stream.Dict.Get("Extends"); extendsObj != nil {
		ref, ok := extendsObj.(*IndirectRef)
		if !ok {
			return nil, fmt.Errorf("invalid /Extends type: %T", extendsObj)
		}
		owner = ref
	}

	return &ObjectStream{
		stream: stream,
		count:  count,
		first:  first,
		owner:  owner,
		parsed: make(map[int]Object),
	}, nil
}

// N returns the declared number of stored objects.
func (os *ObjectStream) N() int {
	return os.count
}

// First returns the byte offset of the first object's data within the
// decoded payload.
func (os *ObjectStream) First() int {
	return os.first
}

// Extends returns the object stream this one continues, or nil.
func (os *ObjectStream) Extends() *IndirectRef {
	return os.owner
}

// load decodes the stream and reads the header pairs once.
func (os *ObjectStream) load() error {
	if os.payload != nil {
		return nil
	}

	payload, err := os.stream.Decode()
	if err != nil {
		return fmt.Errorf("failed to decode object stream: %w", err)
	}
	if os.first > len(payload) {
		return fmt.Errorf("failed to parse object stream header: First offset (%d) exceeds decoded data length (%d)", os.first, len(payload))
	}
	os.payload = payload

	// The header is /N whitespace-separated (number, offset) integer
	// pairs occupying the bytes before /First.
	parser := NewParser(bytes.NewReader(payload[:os.first]))
	os.slots = make([]objStmSlot, 0, os.count)
	for i := 0; i < os.count; i++ {
		number, err := os.headerInt(parser, "object number", i)
		if err != nil {
			return err
		}
		offset, err := os.headerInt(parser, "offset", i)
		if err != nil {
			return err
		}
		os.slots = append(os.slots, objStmSlot{number: number, offset: offset})
	}
	return nil
}

func (os *ObjectStream) headerInt(parser *Parser, what string, i int) (int, error) {
	obj, err := parser.ParseObject()
	if err != nil {
		return 0, fmt.Errorf("failed to parse object stream header: failed to parse %s %d: %w", what, i, err)
	}
	v, ok := obj.(Int)
	if !ok {
		return 0, fmt.Errorf("failed to parse object stream header: %s %d is not an integer: %T", what, i, obj)
	}
	return int(v), nil
}

// GetObjectByIndex extracts the object in header slot index (0-based),
// returning the object and its object number. Each slot's data runs to
// the next slot's offset (or the payload end) and parses independently.
func (os *ObjectStream) GetObjectByIndex(index int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(os.slots) {
		return nil, 0, fmt.Errorf("index %d out of range [0, %d)", index, len(os.slots))
	}

	if obj, ok := os.parsed[index]; ok {
		return obj, os.slots[index].number, nil
	}

	start := os.first + os.slots[index].offset
	if start >= len(os.payload) {
		return nil, 0, fmt.Errorf("object offset %d exceeds decoded data length %d", start, len(os.payload))
	}
	end := len(os.payload)
	if index+1 < len(os.slots) {
		if next := os.first + os.slots[index+1].offset; next < end {
			end = next
		}
	}

	obj, err := NewParser(bytes.NewReader(os.payload[start:end])).ParseObject()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse object at index %d: %w", index, err)
	}

	os.parsed[index] = obj
	return obj, os.slots[index].number, nil
}

// GetObjectByNumber extracts an object by its object number, returning
// the object and its slot index.
func (os *ObjectStream) GetObjectByNumber(objNum int) (Object, int, error) {
	if err := os.load(); err != nil {
		return nil, 0, err
	}
	for i, slot := range os.slots {
		if slot.number == objNum {
			obj, _, err := os.GetObjectByIndex(i)
			return obj, i, err
		}
	}
	return nil, 0, fmt.Errorf("object %d not found in object stream", objNum)
}

// ObjectNumbers lists the stored object numbers in slot order.
func (os *ObjectStream) ObjectNumbers() ([]int, error) {
	if err := os.load(); err != nil {
		return nil, err
	}
	nums := make([]int, len(os.slots))
	for i, slot := range os.slots {
		nums[i] = slot.number
	}
	return nums, nil
}

// ContainsObject reports whether an object number is stored here.
func (os *ObjectStream) ContainsObject(objNum int) (bool, error) {
	if err := os.load(); err != nil {
		return false, err
	}
	for _, slot := range os.slots {
		if slot.number == objNum {
			return true, nil
		}
	}
	return false, nil
}
