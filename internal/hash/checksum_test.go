package hash

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data string
		sum  uint64
	}{
		{"empty input", "", 0xef46db3751d8e999},
		{"short input", "test", 0x4fdcca5ddb678139},
		{"long input", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sum, Checksum([]byte(tt.data)))
		})
	}
}

func BenchmarkChecksum(b *testing.B) {
	data := make([]byte, 4096)
	rnd := rand.New(rand.NewSource(1))
	_, _ = rnd.Read(data)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for b.Loop() {
		Checksum(data)
	}
}
