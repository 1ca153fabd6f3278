package ccd

import "github.com/alecjacobson/rigid-ipc/interval"

// candidate is one sub-interval of [0, 1] awaiting classification by the
// root finder, with its bisection depth.
type candidate struct {
	t     interval.Interval
	depth int
}

// candidateStack is a linked-list stack of candidate sub-intervals. Pushing
// the upper half of each bisection before the lower half makes LIFO pop
// order identical to "earliest lower bound first", the traversal the
// earliest-impact search needs.
type candidateStack struct {
	top  *stackElement
	size int
}

type stackElement struct {
	value candidate
	next  *stackElement
}

func (s *candidateStack) Len() int {
	return s.size
}

func (s *candidateStack) Push(value candidate) {
	s.top = &stackElement{value, s.top}
	s.size++
}

func (s *candidateStack) Pop() candidate {
	value := s.top.value
	s.top = s.top.next
	s.size--
	return value
}
