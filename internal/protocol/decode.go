package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/num/quat"
)

var ErrMalformed = errors.New("malformed sensor report")

// Report is one decoded sensor line. Channels is indexed [component][t] in
// w, x, y, z order.
type Report struct {
	SensorID int
	Channels [ComponentCount][]float64
}

func (r Report) Len() int {
	return len(r.Channels[0])
}

func (r Report) Frame(t int) quat.Number {
	return quat.Number{
		Real: r.Channels[0][t],
		Imag: r.Channels[1][t],
		Jmag: r.Channels[2][t],
		Kmag: r.Channels[3][t],
	}
}

// Channel returns the time series for one sensor value index.
func (r Report) Channel(svi int) ([]float64, error) {
	if svi < 0 || svi >= ComponentCount {
		return nil, fmt.Errorf("sensor value index out of range: %d", svi)
	}
	return r.Channels[svi], nil
}

// Decode parses a single report line by whitespace splitting.
func Decode(line string) (Report, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Report{}, fmt.Errorf("%w: expected id and component count", ErrMalformed)
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return Report{}, fmt.Errorf("%w: sensor id %q", ErrMalformed, fields[0])
	}
	count, err := strconv.Atoi(fields[1])
	if err != nil || count != ComponentCount {
		return Report{}, fmt.Errorf("%w: component count %q", ErrMalformed, fields[1])
	}

	values := fields[2:]
	if len(values)%ComponentCount != 0 {
		return Report{}, fmt.Errorf("%w: %d values is not a multiple of %d", ErrMalformed, len(values), ComponentCount)
	}

	steps := len(values) / ComponentCount
	report := Report{SensorID: id}
	for c := range report.Channels {
		report.Channels[c] = make([]float64, steps)
	}
	for i, raw := range values {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Report{}, fmt.Errorf("%w: value %d: %v", ErrMalformed, i, err)
		}
		report.Channels[i%ComponentCount][i/ComponentCount] = v
	}
	return report, nil
}

// Decoder reads successive report lines. Blank lines are skipped.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next report, or io.EOF once the input is exhausted.
func (d *Decoder) Next() (Report, error) {
	for {
		line, err := d.r.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			return Decode(line)
		}
		if err != nil {
			return Report{}, err
		}
	}
}
