package posematch_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/pkg/adapters/memory"
	"github.com/aretw0/posematch/pkg/domain"
)

// ExampleNew_memory runs a job against an in-memory store.
func ExampleNew_memory() {
	identity := `{"m00":1,"m01":0,"m02":0,"m03":0,"m10":0,"m11":1,"m12":0,"m13":0,"m20":0,"m21":0,"m22":1,"m23":0,"m30":0,"m31":0,"m32":0,"m33":1}`
	store := memory.NewStore(map[string]string{
		"model": "[" + identity + "]",
		"space": "[" + identity + "]",
	})

	// Path is empty because both sides are provided.
	engine, err := posematch.New("", posematch.WithLoader(store), posematch.WithWriter(store))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	report, err := engine.Run(ctx, posematch.Job{ModelPath: "model", SpacePath: "space", OutputPath: "out"})
	if err != nil {
		log.Fatal(err)
	}

	out, _ := store.LoadText(ctx, "out")
	fmt.Println(len(report.Matched))
	fmt.Println(out)
	// Output:
	// 1
	// {"datas":[{"m00":1,"m01":0,"m02":0,"m03":0,"m10":0,"m11":1,"m12":0,"m13":0,"m20":0,"m21":0,"m22":1,"m23":0,"m30":0,"m31":0,"m32":0,"m33":1}]}
}

// ExampleEngine_Match compares two sets already in memory.
func ExampleEngine_Match() {
	engine, err := posematch.New("", posematch.WithLoader(memory.NewStore(nil)), posematch.WithWriter(memory.NewStore(nil)), posematch.WithEpsilon(0.01))
	if err != nil {
		log.Fatal(err)
	}

	model := domain.MatrixSet{domain.Translation(0, 0, 0), domain.Translation(1, 0, 0)}
	space := domain.MatrixSet{domain.Translation(1, 0, 0.005)}

	report := engine.Match(context.Background(), model, space)
	fmt.Println(len(report.Matched), len(report.Unmatched))
	// Output: 1 1
}
