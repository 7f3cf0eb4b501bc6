package testutil

import (
	"strings"
	"testing"
)

func TestRecoverProvider(t *testing.T) {
	run := func() (err error) {
		defer recoverProvider(&err)
		panic("rootless Docker not found")
	}

	err := run()
	if err == nil {
		t.Fatal("Expected the panic to be returned as an error")
	}
	if !strings.Contains(err.Error(), "rootless Docker not found") {
		t.Errorf("Expected panic value in error, got %q", err)
	}
}

func TestRecoverProviderWithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer recoverProvider(&err)
		return nil
	}

	if err := run(); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
}
