package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if hit, isHit := list.Hit(ray, forward); isHit || hit != nil {
		t.Errorf("Empty list should never be hit, got %v", hit)
	}
}

func TestHittableList_ClosestHitWinsRegardlessOfOrder(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewLambertian(core.NewVec3(1, 0, 0)))
	far := NewSphere(core.NewVec3(0, 0, -5), 0.5, material.NewLambertian(core.NewVec3(0, 0, 1)))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	orders := map[string]*HittableList{
		"near first": NewHittableList(near, far),
		"far first":  NewHittableList(far, near),
	}

	for name, list := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := list.Hit(ray, forward)
			if !isHit {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected t=1.5, got %f", hit.T)
			}
			if hit.Material != near.Material {
				t.Error("Expected the near sphere's material")
			}
		})
	}
}

func TestHittableList_AddAndClear(t *testing.T) {
	list := NewHittableList()
	list.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, testMaterial))
	list.Add(NewSphere(core.NewVec3(0, 0, -3), 0.5, testMaterial))
	if list.Len() != 2 {
		t.Fatalf("Expected 2 objects, got %d", list.Len())
	}

	list.Clear()
	if list.Len() != 0 {
		t.Errorf("Expected empty list after Clear, got %d", list.Len())
	}
}

func TestHittableList_NestedList(t *testing.T) {
	inner := NewHittableList(NewSphere(core.NewVec3(0, 0, -2), 0.5, testMaterial))
	outer := NewHittableList(inner, NewSphere(core.NewVec3(0, 0, -10), 0.5, testMaterial))

	hit, isHit := outer.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), forward)
	if !isHit || math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected nested hit at t=1.5, got hit=%t", isHit)
	}
}

func TestHittableList_MatchesIndependentMinimum(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		list := NewHittableList()
		for i := 0; i < 1+random.Intn(12); i++ {
			list.Add(NewSphere(randomVec3(random, 6), 0.2+random.Float64()*1.5, testMaterial))
		}

		ray := core.NewRay(randomVec3(random, 8), randomVec3(random, 1))
		interval := core.NewInterval(0.001, 5+random.Float64()*20)

		// Evaluate each object against the original interval and take the minimum
		var best *material.HitRecord
		for _, object := range list.Objects {
			if hit, isHit := object.Hit(ray, interval); isHit && (best == nil || hit.T < best.T) {
				best = hit
			}
		}

		got, isHit := list.Hit(ray, interval)
		if isHit != (best != nil) {
			t.Fatalf("Trial %d: list hit=%t, independent hit=%t", trial, isHit, best != nil)
		}
		if isHit && (got.T != best.T || !got.Point.Equals(best.Point)) {
			t.Fatalf("Trial %d: list t=%f, independent minimum t=%f", trial, got.T, best.T)
		}
	}
}
