package protocol

import (
	"bufio"
	"io"
	"strconv"

	"gonum.org/v1/gonum/num/quat"
)

// ComponentCount is the number of values reported per time step (w, x, y, z).
const ComponentCount = 4

// Frames is a read-only view over a quaternion time series.
type Frames interface {
	Len() int
	Frame(t int) quat.Number
}

// Encoder streams sensor reports as single text lines:
//
//	<id> 4 <w_0> <x_0> <y_0> <z_0> ... <z_n-1> \n
//
// Values use fixed six-decimal rendering. Lines have no length limit.
type Encoder struct {
	w   *bufio.Writer
	buf []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

func (e *Encoder) Encode(id int, frames Frames) error {
	e.buf = strconv.AppendInt(e.buf[:0], int64(id), 10)
	e.buf = append(e.buf, ' ')
	e.buf = strconv.AppendInt(e.buf, ComponentCount, 10)
	if _, err := e.w.Write(e.buf); err != nil {
		return err
	}

	for t := 0; t < frames.Len(); t++ {
		q := frames.Frame(t)
		e.buf = e.buf[:0]
		for _, v := range [ComponentCount]float64{q.Real, q.Imag, q.Jmag, q.Kmag} {
			e.buf = append(e.buf, ' ')
			e.buf = strconv.AppendFloat(e.buf, v, 'f', 6, 64)
		}
		if _, err := e.w.Write(e.buf); err != nil {
			return err
		}
	}

	if _, err := e.w.WriteString(" \n"); err != nil {
		return err
	}
	return e.w.Flush()
}
