package asset

import "fmt"

// HandleID identifies an asset within its store. Zero is never issued.
type HandleID uint64

// Handle refers to an asset. A strong handle carries one reference count
// in the store and keeps the asset alive; a weak handle does not.
//
// Handles compare by identity with [Handle.Same]; the strength is ownership
// bookkeeping only, so weak and strong handles to one asset are the same
// asset for every lookup.
type Handle struct {
	id     HandleID
	strong bool
}

// WeakHandle returns a weak handle for id.
func WeakHandle(id HandleID) Handle {
	return Handle{id: id}
}

// ID returns the handle's asset id.
func (h Handle) ID() HandleID { return h.id }

// IsStrong reports whether h holds a reference.
func (h Handle) IsStrong() bool { return h.strong }

// IsValid reports whether h refers to an asset id at all.
func (h Handle) IsValid() bool { return h.id != 0 }

// Weak returns a non-owning copy of h.
func (h Handle) Weak() Handle { return Handle{id: h.id} }

// Same reports whether h and o refer to the same asset.
func (h Handle) Same(o Handle) bool { return h.id == o.id }

func (h Handle) String() string {
	if h.strong {
		return fmt.Sprintf("Handle(%d, strong)", h.id)
	}
	return fmt.Sprintf("Handle(%d, weak)", h.id)
}
