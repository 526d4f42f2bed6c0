// Package render turns a laid-out element tree into output artifacts.
//
// Three sinks are provided:
//   - JSON: the full identifier-to-rectangle mapping, for host integration
//     and round-tripping through the cache.
//   - SVG: one rectangle per element, for visual inspection of a layout.
//   - DOT: the element tree as a Graphviz digraph, rasterizable to SVG or
//     PNG, for inspecting tree structure rather than geometry.
//
// All sinks require that [flex.Engine.PerformLayout] has run; elements
// without a computed rectangle (unreachable from the root) are omitted.
package render
