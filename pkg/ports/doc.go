/*
Package ports defines the driven ports (interfaces) for the posematch engine.

These interfaces decouple the matching core from the host that stores the
matrix documents and draws the result, so the same engine runs against the
filesystem, Redis, or in-memory fixtures.

# Key Interfaces

  - ResourceLoader: resolves a resource path to the text of a matrix document.
  - ResultWriter: persists the serialized matched set.
  - GizmoRenderer: draws one pose with a color.
  - CategoryRenderer: optional extension notified when a new view starts.
*/
package ports
