package main

import (
	"bytes"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTrimExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"water.trexio", "water"},
		{"out/h2o.h5", "out/h2o"},
		{"input", "input"},
		{"water.json.zst", "water.json"},
	}
	for _, test := range tests {
		got := TrimExt(test.in)
		if got != test.want {
			t.Errorf("got %v, wanted %v\n", got, test.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{
			a:    1.0000000000000001,
			b:    1.0,
			want: true,
		},
		{
			a:    1.1,
			b:    1.0,
			want: false,
		},
	}
	for _, test := range tests {
		got := Equal(test.a, test.b, 1e-14)
		if got != test.want {
			t.Errorf("got %v, wanted %v\n", got, test.want)
		}
	}
}

func TestWriteMat(t *testing.T) {
	var buf bytes.Buffer
	WriteMat(&buf, mat.NewDense(2, 2, []float64{1, -0.5, -0.5, 2}))
	got := buf.String()
	want := "    0  1.00000000 -0.50000000\n" +
		"    1 -0.50000000  2.00000000\n\n"
	if got != want {
		t.Errorf("got\n%q, wanted\n%q\n", got, want)
	}
}
