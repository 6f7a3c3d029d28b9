package engine

import (
	"testing"

	"github.com/clinuxrulz/flying-shooter/core"
)

func TestStoreKeepsAscendingOrder(t *testing.T) {
	s := NewStore[int]()
	for _, e := range []core.Entity{5, 1, 9, 3} {
		s.SetComponent(e, int(e))
	}
	s.RemoveEntity(3)
	s.SetComponent(2, 2)

	want := []core.Entity{1, 2, 5, 9}
	got := s.GetAllEntities()
	if len(got) != len(want) {
		t.Fatalf("Expected %d entities, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected entity %d at %d, got %d", want[i], i, got[i])
		}
	}
}

func TestStoreRemoveBatch(t *testing.T) {
	s := NewStore[int]()
	for e := core.Entity(1); e <= 6; e++ {
		s.SetComponent(e, 0)
	}
	s.RemoveBatch([]core.Entity{2, 4, 42})

	if s.CountEntities() != 4 {
		t.Fatalf("Expected 4 entities, got %d", s.CountEntities())
	}
	if s.HasEntity(2) || s.HasEntity(4) {
		t.Errorf("Expected removed entities to be gone")
	}
	got := s.GetAllEntities()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("Expected ascending order after batch remove, got %v", got)
		}
	}
}

func TestStoreUpdateDoesNotDuplicate(t *testing.T) {
	s := NewStore[int]()
	s.SetComponent(1, 10)
	s.SetComponent(1, 20)
	if s.CountEntities() != 1 {
		t.Errorf("Expected 1 entity, got %d", s.CountEntities())
	}
	if v, _ := s.GetComponent(1); v != 20 {
		t.Errorf("Expected updated value 20, got %d", v)
	}
}

func TestWorldDestroyEntity(t *testing.T) {
	w := NewGameWorld(2)
	e := w.CreateEntity()
	w.Components.Player.SetComponent(e, testPlayer(0))
	w.Components.Weapon.SetComponent(e, testWeapon(true))

	if w.EntityCount() != 1 {
		t.Fatalf("Expected 1 entity, got %d", w.EntityCount())
	}
	w.DestroyEntity(e)
	if w.Components.Player.HasEntity(e) || w.Components.Weapon.HasEntity(e) {
		t.Errorf("Expected entity removed from all stores")
	}
	if next := w.CreateEntity(); next != e+1 {
		t.Errorf("Expected IDs never reused, got %d after %d", next, e)
	}
}
