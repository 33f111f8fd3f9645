// util/util_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSelect(t *testing.T) {
	if Select(true, 1, 2) != 1 {
		t.Errorf("Select(true) returned the wrong value")
	}
	if Select(false, "a", "b") != "b" {
		t.Errorf("Select(false) returned the wrong value")
	}
}

func TestReduceMap(t *testing.T) {
	m := map[uint32]int{1: 100, 2: 250, 7: 4}
	total := ReduceMap(m, func(k uint32, v int, r int) int { return r + v }, 0)
	if total != 354 {
		t.Errorf("got %d, expected 354", total)
	}
	if n := ReduceMap(map[string]int{}, func(string, int, int) int { return 1 }, -1); n != -1 {
		t.Errorf("empty map should return initial value, got %d", n)
	}
}

func TestFindIf(t *testing.T) {
	s := []int{3, 8, 8, 1}
	if i := FindIf(s, func(v int) bool { return v == 8 }); i != 1 {
		t.Errorf("got index %d, expected first match at 1", i)
	}
	if i := FindIf(s, func(v int) bool { return v > 10 }); i != -1 {
		t.Errorf("got index %d, expected -1", i)
	}
}

var errMissing = errors.New("missing")

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() || e.Err() != nil {
		t.Fatalf("new ErrorLogger reports errors")
	}

	e.Push("datarefs")
	e.Error(errMissing)
	e.Push("copilot")
	e.ErrorString("bad size %d", 3)
	e.Pop()
	e.Pop()

	if !e.HaveErrors() {
		t.Fatalf("expected errors")
	}
	err := e.Err()
	if !errors.Is(err, errMissing) {
		t.Errorf("Err() does not wrap the recorded error")
	}
	s := e.String()
	if !strings.Contains(s, "datarefs: missing") {
		t.Errorf("missing context in %q", s)
	}
	if !strings.Contains(s, "datarefs / copilot: bad size 3") {
		t.Errorf("missing nested context in %q", s)
	}
}
