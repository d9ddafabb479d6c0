package radardoc_test

import (
	"context"
	"fmt"
	"log"

	"github.com/tsawler/radardoc"
)

func ExampleOpen() {
	res, err := radardoc.Open("runs/2024-03").
		Templates("templates").
		Areas("Taipei", "New Taipei", "Keelung").
		ContinueOnError().
		Baseline(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("report:", res.Output)
	for _, p := range res.Skipped {
		fmt.Println("skipped:", p)
	}
}

func ExampleGenerator_Diagnose() {
	ds, err := radardoc.Open("runs/2024-03").Diagnose(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range ds {
		if !d.OK() {
			fmt.Printf("%d %s: %v\n", d.Index, d.Policy, d.Err)
		}
	}
}
