// util/error.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmp/rds81/log"
)

// ErrorLogger accumulates errors while resolving a group of related
// resources (for example, all of the datarefs an instrument needs), so
// that every missing item is reported rather than just the first one.
// It tracks context about what is currently being resolved via
// Push()/Pop().
type ErrorLogger struct {
	hierarchy []string
	errors    []error
}

func (e *ErrorLogger) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLogger) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLogger) prefix() string {
	if len(e.hierarchy) == 0 {
		return ""
	}
	return strings.Join(e.hierarchy, " / ") + ": "
}

func (e *ErrorLogger) ErrorString(s string, args ...any) {
	e.errors = append(e.errors, errors.New(e.prefix()+fmt.Sprintf(s, args...)))
}

func (e *ErrorLogger) Error(err error) {
	e.errors = append(e.errors, fmt.Errorf("%s%w", e.prefix(), err))
}

func (e *ErrorLogger) HaveErrors() bool {
	return len(e.errors) > 0
}

func (e *ErrorLogger) PrintErrors(lg *log.Logger) {
	for _, err := range e.errors {
		lg.Errorf("%+v", err)
	}
}

func (e *ErrorLogger) String() string {
	var s []string
	for _, err := range e.errors {
		s = append(s, err.Error())
	}
	return strings.Join(s, "\n")
}

// Err returns nil if no errors were recorded and otherwise a single error
// wrapping all of them, so errors.Is works on the result.
func (e *ErrorLogger) Err() error {
	return errors.Join(e.errors...)
}
