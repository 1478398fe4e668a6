package services

import (
	"context"
	"sync"
)

// FakeService records inputs and replies with preset values.
type FakeService[Input any, Result any] struct {
	Inputs []Input
	Result Result
	Err    error
	lock   sync.Mutex
}

func NewFakeService[Input any, Result any](result Result, err error) *FakeService[Input, Result] {
	return &FakeService[Input, Result]{Result: result, Err: err}
}

func (s *FakeService[Input, Result]) Run(ctx context.Context, input Input) (Result, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Inputs = append(s.Inputs, input)
	return s.Result, s.Err
}

func (s *FakeService[Input, Result]) RunCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Inputs)
}
