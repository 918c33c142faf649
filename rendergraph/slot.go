package rendergraph

import (
	"fmt"

	"github.com/gogpu/megaui/gpucore"
)

// SlotType is the kind of resource a slot carries.
type SlotType uint8

const (
	SlotTextureView SlotType = iota
	SlotBuffer
)

func (t SlotType) String() string {
	switch t {
	case SlotTextureView:
		return "TextureView"
	case SlotBuffer:
		return "Buffer"
	default:
		return fmt.Sprintf("SlotType(%d)", uint8(t))
	}
}

// SlotInfo declares one input or output of a node.
type SlotInfo struct {
	Name string
	Type SlotType
}

// SlotValue is the resource flowing through a slot.
type SlotValue struct {
	Type        SlotType
	TextureView gpucore.TextureViewID
	Buffer      gpucore.BufferID
}

// TextureViewValue wraps a texture view for a slot.
func TextureViewValue(id gpucore.TextureViewID) SlotValue {
	return SlotValue{Type: SlotTextureView, TextureView: id}
}

// BufferValue wraps a buffer for a slot.
func BufferValue(id gpucore.BufferID) SlotValue {
	return SlotValue{Type: SlotBuffer, Buffer: id}
}

// SlotValues holds the values of a node's declared slots for one run.
type SlotValues struct {
	infos  []SlotInfo
	values []SlotValue
	set    []bool
}

func newSlotValues(infos []SlotInfo) *SlotValues {
	return &SlotValues{
		infos:  infos,
		values: make([]SlotValue, len(infos)),
		set:    make([]bool, len(infos)),
	}
}

func (s *SlotValues) index(name string) int {
	for i, info := range s.infos {
		if info.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the named slot.
func (s *SlotValues) Get(name string) (SlotValue, error) {
	i := s.index(name)
	if i < 0 {
		return SlotValue{}, fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	if !s.set[i] {
		return SlotValue{}, fmt.Errorf("%w: %q", ErrSlotNotSet, name)
	}
	return s.values[i], nil
}

// TextureView returns the texture view in the named slot.
func (s *SlotValues) TextureView(name string) (gpucore.TextureViewID, error) {
	v, err := s.Get(name)
	if err != nil {
		return gpucore.InvalidID, err
	}
	if v.Type != SlotTextureView {
		return gpucore.InvalidID, fmt.Errorf("%w: %q holds %s", ErrSlotTypeMismatch, name, v.Type)
	}
	return v.TextureView, nil
}

// Buffer returns the buffer in the named slot.
func (s *SlotValues) Buffer(name string) (gpucore.BufferID, error) {
	v, err := s.Get(name)
	if err != nil {
		return gpucore.InvalidID, err
	}
	if v.Type != SlotBuffer {
		return gpucore.InvalidID, fmt.Errorf("%w: %q holds %s", ErrSlotTypeMismatch, name, v.Type)
	}
	return v.Buffer, nil
}

// Set stores v in the named slot.
func (s *SlotValues) Set(name string, v SlotValue) error {
	i := s.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	if v.Type != s.infos[i].Type {
		return fmt.Errorf("%w: %q wants %s, got %s", ErrSlotTypeMismatch, name, s.infos[i].Type, v.Type)
	}
	s.values[i] = v
	s.set[i] = true
	return nil
}

// Has reports whether the named slot is declared and set.
func (s *SlotValues) Has(name string) bool {
	i := s.index(name)
	return i >= 0 && s.set[i]
}

func (s *SlotValues) reset() {
	clear(s.values)
	clear(s.set)
}
