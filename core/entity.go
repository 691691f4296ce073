package core

import "strconv"

// Entity is a generation-tagged handle into the world
// ID slots are recycled after destruction with Gen incremented, so a stale handle never aliases a new entity
// The zero value is the null entity
type Entity struct {
	ID  uint32
	Gen uint32
}

// IsZero reports whether e is the null entity
func (e Entity) IsZero() bool {
	return e.ID == 0
}

func (e Entity) String() string {
	if e.ID == 0 {
		return "e-null"
	}
	return "e" + strconv.FormatUint(uint64(e.ID), 10) + "v" + strconv.FormatUint(uint64(e.Gen), 10)
}
