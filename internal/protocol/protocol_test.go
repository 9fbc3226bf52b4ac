package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func twoStepReport() Report {
	return Report{
		SensorID: 7,
		Channels: [ComponentCount][]float64{
			{1, 0},
			{0, 0.7071},
			{0, 0},
			{0, 0.7071},
		},
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(7, twoStepReport()))

	want := "7 4 1.000000 0.000000 0.000000 0.000000 0.000000 0.707100 0.000000 0.707100 \n"
	require.Equal(t, want, buf.String())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	in := twoStepReport()
	require.NoError(t, NewEncoder(&buf).Encode(in.SensorID, in))

	out, err := Decode(buf.String())
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeLongSeries(t *testing.T) {
	const steps = 50000
	in := Report{SensorID: 1}
	for c := range in.Channels {
		in.Channels[c] = make([]float64, steps)
	}
	for i := 0; i < steps; i++ {
		in.Channels[0][i] = 1
	}

	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(1, in))
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))

	out, err := Decode(buf.String())
	require.NoError(t, err)
	require.Equal(t, steps, out.Len())
}

func TestEncodePropagatesWriteError(t *testing.T) {
	err := NewEncoder(failingWriter{}).Encode(7, twoStepReport())
	require.Error(t, err)
	require.Contains(t, err.Error(), "pipe closed")
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"id only":         "7",
		"bad id":          "x 4 1 0 0 0",
		"bad count":       "7 3 1 0 0",
		"partial frame":   "7 4 1 0 0",
		"non-numeric val": "7 4 1 0 nan? 0",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(line)
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestReportChannel(t *testing.T) {
	r := twoStepReport()
	x, err := r.Channel(1)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.7071}, x)

	_, err = r.Channel(4)
	require.Error(t, err)
}

func TestDecoderReadsSuccessiveLines(t *testing.T) {
	input := "0 4 1.000000 0.000000 0.000000 0.000000 \n\n3 4 0.5 0.5 0.5 0.5"
	dec := NewDecoder(strings.NewReader(input))

	first, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, 0, first.SensorID)

	second, err := dec.Next()
	require.NoError(t, err)
	require.Equal(t, 3, second.SensorID)
	require.Equal(t, []float64{0.5}, second.Channels[3])

	_, err = dec.Next()
	require.ErrorIs(t, err, io.EOF)
}
