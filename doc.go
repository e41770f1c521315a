/*
Package posematch finds the poses of a model that coincide with the poses of a space.

It loads two sets of 4x4 transform matrices (the "model" set and the "space"
set) from JSON documents, keeps the model matrices that are equal, within a
per-component epsilon, to some matrix of the space set, draws the three
resulting views as gizmos, and writes the matched subset back as JSON.

# Concept

The engine only depends on three narrow ports: a ResourceLoader that returns
document text, a ResultWriter that stores the output, and an optional
GizmoRenderer. Filesystem, Redis and in-memory adapters are provided, as
well as a glTF scene renderer and a colored text renderer for terminals.

# Usage

	eng, err := posematch.New("./Resources")
	if err != nil {
		log.Fatal(err)
	}

	report, err := eng.Run(ctx, posematch.Job{
		ModelPath:  "Matrices/model",
		SpacePath:  "Matrices/space",
		OutputPath: "Matrices/matching.json",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(len(report.Matched), "matching poses")

# Matching

Two transforms match when every one of their 16 components differs by at most
epsilon. The default epsilon is the smallest positive float32, so matching is
effectively exact; WithEpsilon sets an explicit tolerance.
*/
package posematch
