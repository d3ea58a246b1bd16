// Package bramble is a retained-mode 2D scene framework for [Ebitengine].
//
// Bramble provides a scene graph with cached transforms and cascading
// opacity, swappable scenes with timed transitions, a fixed-interval main
// loop, timers, and an action system for tweening node properties.
//
// # Quick start
//
// Create an [App], enter a scene and call [App.Run]:
//
//	app := bramble.NewApp(bramble.DefaultConfig())
//	scene := bramble.NewScene("title")
//	scene.AddChild(bramble.NewRect("box", 80, 40, bramble.Color{R: 1, A: 1}))
//	if err := app.EnterScene(scene, false); err != nil {
//		log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// [App.RunLoop] runs the same loop on any [Window] and [Clock], and
// [App.Tick] with [App.Render] can be called directly for headless use.
//
// # Scene graph
//
// Every element is a [Node]. Parents own their children; a node has at most
// one parent and can never become its own ancestor, and [Node.AddChild]
// returns an error instead of breaking either rule.
//
// Geometry setters only mark the node dirty. World transforms are composed
// lazily, as parent world times local, by [Node.RefreshTransform], which
// runs before every render and whenever a transform is read. Opacity
// cascades eagerly: [Node.SetOpacity] updates the displayed opacity of the
// whole subtree at once.
//
// Children render in ascending z-order. Children with a negative z-order
// draw before their parent's own content and the rest after it. Equal
// z-orders keep insertion order.
//
// # Lifecycle
//
// A node is displayed while it is attached, directly or through ancestors, to
// the root of the current scene. [Node.OnEnter] fires when it becomes
// displayed and [Node.OnExit] when it stops; both fire at most once per
// transition, so re-adding or re-removing never repeats them.
//
// # Scenes and transitions
//
// [App.EnterScene] schedules a scene for the next tick. With save set the
// outgoing scene is pushed onto a stack that [App.BackScene] pops; otherwise
// it is disposed. [App.EnterSceneWithTransition] plays a [Transition]
// (fade, crossfade or slide) while both scenes update and render. Starting
// a new switch while a transition runs finishes the running one first.
//
// # Actions
//
// Actions tween node properties over time:
//
//	hero.RunAction(bramble.Sequence(
//		bramble.MoveBy(0.5, 100, 0).SetEasing(ease.OutQuad),
//		bramble.FadeOut(0.25),
//	).SetDetachTarget(true))
//
// Each action moves through NotStarted, Delayed, Started, Done and
// Removeable. Loops restart from the node's state at the end of the
// previous loop.
//
// # Input
//
// Input events reach the current scene through [Scene.Dispatch], topmost
// node first. Nodes with Responsible set also receive synthesized hover,
// press and click events. Input is dropped while a scene change is pending.
//
// [Ebitengine]: https://ebitengine.org
package bramble
