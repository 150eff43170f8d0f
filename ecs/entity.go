package ecs

import "fmt"

// Entity is a rig handle: the low half is a 1-based slot, the high half
// counts how many times that slot has been reused. The zero Entity is never
// returned by CreateEntity.
type Entity uint64

type slotIndex uint32
type generation uint32

func packEntity(slot slotIndex, gen generation) Entity {
	return Entity(gen)<<32 | Entity(slot)
}

func (e Entity) slot() slotIndex {
	return slotIndex(e & 0xffffffff)
}

func (e Entity) gen() generation {
	return generation(e >> 32)
}

func (e Entity) String() string {
	return fmt.Sprintf("#%d.%d", e.slot(), e.gen())
}

func (e Entity) Valid() bool {
	return e.slot() != 0
}
