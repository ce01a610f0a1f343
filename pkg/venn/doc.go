// Package venn computes the overlap layout scene from a holdings index.
//
// # Overview
//
// The layout approximates a weighted multi-set Venn diagram. Entities are
// anchored on a fixed circle, ranked by total value; each asset is placed
// at the value-weighted centroid of its holders' anchors, so jointly-held
// assets drift between their holders in proportion to who holds more of
// them. Bubble size encodes value (square-root scaling for entity zones,
// log10 for assets) and bubble color encodes market-share tier.
//
// This is a deliberate approximation, not exact set geometry: true
// area-proportional Venn layouts are not generally solvable for more than
// three sets. The centroid placement communicates overlap visually without
// attempting circle-intersection math.
//
// # Determinism
//
// [Build] is a pure function. Given the same index, selection, and options
// it produces an identical scene: entities rank by total value descending
// with lexicographic tie order, assets draw in size-descending order with
// canonical index tie order, and no randomness enters anywhere.
package venn
