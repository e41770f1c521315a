/*
Package domain contains the core data model of posematch.

It defines the entities exchanged between the codec, the matcher and the
visualizer. The package is kept pure and free of I/O so that every adapter
(file, redis, HTTP, MCP) can share the same types.

# Key Entities

  - Transform: a 4x4 pose matrix (rotation basis + translation).
  - MatrixSet: an ordered sequence of Transforms loaded from one document.
  - Category / Color: the three visualization views and their gizmo colors.
  - Report: the outcome of one matching run.
  - Hooks: observability callbacks fired by the engine.
*/
package domain
