package ledger

import (
	"fmt"
	"math/rand"
	"sync"
)

//Selector picks the ledger client used for the next call.
type Selector interface {
	Next() int
}

//+++++++++++++++++++++++++++++++++++++++
//ROUND ROBIN

//RoundRobinSelector cycles through the clients in order.
type RoundRobinSelector struct {
	sync.Mutex
	size int
	next int
}

//NewRoundRobinSelector ...
func NewRoundRobinSelector(size int) *RoundRobinSelector {
	return &RoundRobinSelector{size: size}
}

//Next returns the index of the next client
func (s *RoundRobinSelector) Next() int {
	s.Lock()
	defer s.Unlock()
	i := s.next
	s.next = (s.next + 1) % s.size
	return i
}

//+++++++++++++++++++++++++++++++++++++++
//RANDOM

//RandomSelector picks a random client, avoiding the last one when there is a
//choice.
type RandomSelector struct {
	sync.Mutex
	size int
	last int
}

//NewRandomSelector ...
func NewRandomSelector(size int) *RandomSelector {
	return &RandomSelector{size: size, last: -1}
}

//Next returns the index of the next client
func (s *RandomSelector) Next() int {
	s.Lock()
	defer s.Unlock()

	if s.size == 1 {
		return 0
	}

	var i int
	if s.last < 0 {
		i = rand.Intn(s.size)
	} else {
		i = rand.Intn(s.size - 1)
		if i >= s.last {
			i++
		}
	}
	s.last = i
	return i
}

//NewSelector returns the selector named by strategy, "round-robin" or
//"random".
func NewSelector(strategy string, size int) (Selector, error) {
	switch strategy {
	case "round-robin", "":
		return NewRoundRobinSelector(size), nil
	case "random":
		return NewRandomSelector(size), nil
	}
	return nil, fmt.Errorf("unknown selection strategy %q", strategy)
}
