package benchmarks

import (
	"context"
	"testing"

	"github.com/zoobzio/stoplight"
	stoplighttest "github.com/zoobzio/stoplight/testing"
)

func BenchmarkAnonymize_NoMapping(b *testing.B) {
	a := stoplight.New()
	p := stoplighttest.NewPerson()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.Anonymize(context.Background(), p, nil)
	}
}

func BenchmarkAnonymize_PersonMapping(b *testing.B) {
	a := stoplighttest.NewAnonymizer(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		p := stoplighttest.NewPerson()
		b.StartTimer()
		_ = a.Anonymize(context.Background(), p, nil)
	}
}

func BenchmarkPartialSuppress(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = stoplight.PartialSuppress("012 345 6789", "*** *** XXXX")
	}
}

func BenchmarkVary_Int(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = stoplight.Vary(20, 15)
	}
}

func BenchmarkMock_Address(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = stoplight.Mock("1000 Olin Way", stoplight.MockAddress)
	}
}
