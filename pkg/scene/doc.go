// Package scene defines the renderer-agnostic layout scene format.
//
// A [Scene] is an ordered list of typed drawable elements plus a fixed
// view window. It is the canonical interchange format between the layout
// engine and every renderer: element order is draw order (later elements
// paint on top), and the view window makes renderers free of layout
// logic.
//
// Scenes are pure derived data. The layout engine recomputes them in full
// on every call; nothing mutates a scene in place, and nothing in a scene
// points back at the index it was derived from.
package scene
