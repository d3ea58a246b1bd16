// Package ecs forwards bramble's interaction events into an ECS world.
//
// [NewDonburiStore] publishes the hover, press and click events synthesized
// for nodes with a non-zero EntityID into a [Donburi] world as typed events.
// Subscribe to [InteractionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
