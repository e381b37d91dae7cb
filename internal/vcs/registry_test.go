package vcs

import (
	"testing"
)

// fakeRegistryVCS satisfies the VCS interface for registry tests; only
// construction matters here.
type fakeRegistryVCS struct {
	VCS
	root string
}

// TestRegister verifies registration and lookup.
func TestRegister(t *testing.T) {
	typ := Type("fake-register")

	if IsRegistered(typ) {
		t.Fatalf("Type %s should not be registered yet", typ)
	}

	Register(typ, func(root string) (VCS, error) {
		return &fakeRegistryVCS{root: root}, nil
	})

	if !IsRegistered(typ) {
		t.Errorf("Type %s should be registered", typ)
	}

	constructor := getConstructor(typ)
	if constructor == nil {
		t.Fatal("getConstructor() returned nil for registered type")
	}

	v, err := constructor("/some/root")
	if err != nil {
		t.Fatalf("Constructor failed: %v", err)
	}
	if v.(*fakeRegistryVCS).root != "/some/root" {
		t.Errorf("Constructor did not receive the repo root")
	}
}

// TestRegister_DuplicatePanics verifies double registration panics.
func TestRegister_DuplicatePanics(t *testing.T) {
	typ := Type("fake-duplicate")
	constructor := func(root string) (VCS, error) { return &fakeRegistryVCS{}, nil }

	Register(typ, constructor)

	defer func() {
		if r := recover(); r == nil {
			t.Error("Second Register() for the same type should panic")
		}
	}()
	Register(typ, constructor)
}

// TestRegister_NilConstructorPanics verifies nil constructors are rejected.
func TestRegister_NilConstructorPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Register() with nil constructor should panic")
		}
	}()
	Register(Type("fake-nil"), nil)
}

// TestRegisteredTypes verifies enumeration includes registered types.
func TestRegisteredTypes(t *testing.T) {
	typ := Type("fake-enumerate")
	Register(typ, func(root string) (VCS, error) { return &fakeRegistryVCS{}, nil })

	found := false
	for _, rt := range RegisteredTypes() {
		if rt == typ {
			found = true
		}
	}
	if !found {
		t.Errorf("RegisteredTypes() missing %s", typ)
	}
}
