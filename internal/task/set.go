package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrTaskNotFound = errors.New("task not found")

// Set holds tasks by name for quick lookup.
type Set struct {
	tasks map[string]*Task
}

func NewSet(tasks ...*Task) *Set {
	m := make(map[string]*Task, len(tasks))
	for _, t := range tasks {
		m[t.Name()] = t
	}
	return &Set{tasks: m}
}

func (s *Set) Get(name string) (*Task, error) {
	t, ok := s.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q. Available: %s", ErrTaskNotFound, name, strings.Join(s.Names(), ", "))
	}
	return t, nil
}

func (s *Set) Names() []string {
	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Set) Len() int {
	return len(s.tasks)
}
