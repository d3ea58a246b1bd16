package ecs

import (
	"github.com/phanxgames/bramble"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for bramble interaction
// events. Subscribe to it in your ECS systems to receive hover, press and
// click events.
var InteractionEventType = events.NewEventType[bramble.InteractionEvent]()

type donburiStore struct {
	world  donburi.World
	filter map[bramble.EventType]bool
}

// NewDonburiStore creates an EntityStore backed by a Donburi world. Events
// are queued on InteractionEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) bramble.EntityStore {
	return &donburiStore{world: world}
}

// NewFilteredDonburiStore is NewDonburiStore limited to the given event
// types; everything else is dropped before it reaches the world.
func NewFilteredDonburiStore(world donburi.World, types ...bramble.EventType) bramble.EntityStore {
	filter := make(map[bramble.EventType]bool, len(types))
	for _, t := range types {
		filter[t] = true
	}
	return &donburiStore{world: world, filter: filter}
}

func (s *donburiStore) EmitEvent(event bramble.InteractionEvent) {
	if s.filter != nil && !s.filter[event.Type] {
		return
	}
	InteractionEventType.Publish(s.world, event)
}
