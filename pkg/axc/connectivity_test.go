package axc

import (
	"errors"
	"testing"
)

func TestParseConnectivityRoundTrip(t *testing.T) {
	t.Parallel()

	in := []Connection{
		{ArgIndex: 0, KernelIndex: 0, BankIndex: 1},
		{ArgIndex: 1, KernelIndex: 0, BankIndex: 3},
		{ArgIndex: 0, KernelIndex: 1, BankIndex: 2},
		// Dangling and negative indices must decode verbatim; judging them
		// is the builder's job.
		{ArgIndex: 2, KernelIndex: 9000, BankIndex: -1},
	}
	c, err := ParseConnectivitySection(connectivityPayload(in...))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if c.Count() != len(in) {
		t.Fatalf("count: got %d want %d", c.Count(), len(in))
	}
	for i, w := range in {
		got, err := c.Record(i)
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("record %d mismatch: got %+v want %+v", i, got, w)
		}
	}
	if _, err := c.Record(-1); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("negative record access: got %v", err)
	}
}

func TestParseConnectivityRejects(t *testing.T) {
	t.Parallel()

	valid := connectivityPayload(Connection{ArgIndex: 0, KernelIndex: 0, BankIndex: 0})

	cases := []struct {
		name string
		sec  []byte
		want error
	}{
		{
			name: "shorter than entry count",
			sec:  []byte{},
			want: ErrTruncated,
		},
		{
			name: "record table overruns section",
			sec:  valid[:len(valid)-4],
			want: ErrTruncated,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := ParseConnectivitySection(tc.sec)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got error %v, want %v", err, tc.want)
			}
			if c != nil {
				t.Fatalf("corrupt section produced a result")
			}
		})
	}
}

func TestParseConnectivityEmpty(t *testing.T) {
	t.Parallel()

	c, err := ParseConnectivitySection(connectivityPayload())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Count() != 0 || c.Connections() == nil {
		t.Fatalf("empty section: count=%d conns=%v", c.Count(), c.Connections())
	}
}
