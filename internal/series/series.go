package series

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange = errors.New("time step out of range")
	ErrUnsampled  = errors.New("time step not sampled")
)

// Series is a fixed-length sequence of samples indexed by time step. It is
// sized once and never grows; every slot starts unwritten.
type Series struct {
	values  []float64
	written []bool
}

func New(length int) (*Series, error) {
	if length <= 0 {
		return nil, fmt.Errorf("series length must be > 0: %d", length)
	}
	return &Series{
		values:  make([]float64, length),
		written: make([]bool, length),
	}, nil
}

func (s *Series) Len() int {
	return len(s.values)
}

func (s *Series) Set(t int, value float64) error {
	if err := s.check(t); err != nil {
		return err
	}
	s.values[t] = value
	s.written[t] = true
	return nil
}

func (s *Series) At(t int) (float64, error) {
	if err := s.check(t); err != nil {
		return 0, err
	}
	if !s.written[t] {
		return 0, fmt.Errorf("%w: t=%d", ErrUnsampled, t)
	}
	return s.values[t], nil
}

func (s *Series) Written(t int) bool {
	if t < 0 || t >= len(s.values) {
		return false
	}
	return s.written[t]
}

// FirstUnsampled returns the lowest index in [0, n) that was never written,
// or -1 when the prefix is complete.
func (s *Series) FirstUnsampled(n int) int {
	if n > len(s.written) {
		n = len(s.written)
	}
	for t := 0; t < n; t++ {
		if !s.written[t] {
			return t
		}
	}
	return -1
}

// Values returns a copy of the first n samples. Unwritten slots read as zero.
func (s *Series) Values(n int) []float64 {
	if n > len(s.values) {
		n = len(s.values)
	}
	if n < 0 {
		n = 0
	}
	return append([]float64(nil), s.values[:n]...)
}

func (s *Series) check(t int) error {
	if t < 0 || t >= len(s.values) {
		return fmt.Errorf("%w: t=%d len=%d", ErrOutOfRange, t, len(s.values))
	}
	return nil
}
