package shamir

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/Davincible/sss/pkg/crypto/random"
	vaultshamir "github.com/hashicorp/vault/shamir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constReader yields the same byte forever.
type constReader byte

func (c constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

func pick(shares [][]byte, idx ...int) [][]byte {
	out := make([][]byte, len(idx))
	for i, j := range idx {
		out[i] = shares[j]
	}
	return out
}

func TestSplitAndCombine(t *testing.T) {
	tests := []struct {
		name      string
		secret    []byte
		parts     int
		threshold int
	}{
		{
			name:      "Simple secret 3 of 5",
			secret:    []byte("my secret data"),
			parts:     5,
			threshold: 3,
		},
		{
			name:      "256-bit key 2 of 3",
			secret:    bytes.Repeat([]byte{0x42}, 32),
			parts:     3,
			threshold: 2,
		},
		{
			name:      "Large secret 5 of 7",
			secret:    bytes.Repeat([]byte("test"), 256),
			parts:     7,
			threshold: 5,
		},
		{
			name:      "Single byte 2 of 2",
			secret:    []byte{0x00},
			parts:     2,
			threshold: 2,
		},
		{
			name:      "Threshold equals max parts",
			secret:    []byte("all hands"),
			parts:     255,
			threshold: 255,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Split(tt.secret, tt.parts, tt.threshold)
			require.NoError(t, err)
			require.Len(t, shares, tt.parts)

			for _, share := range shares {
				assert.Len(t, share, len(tt.secret)+ShareOverhead)
			}

			reconstructed, err := Combine(shares[:tt.threshold])
			require.NoError(t, err)
			assert.Equal(t, tt.secret, reconstructed)

			reconstructed2, err := Combine(shares[tt.parts-tt.threshold:])
			require.NoError(t, err)
			assert.Equal(t, tt.secret, reconstructed2)

			all, err := Combine(shares)
			require.NoError(t, err)
			assert.Equal(t, tt.secret, all)
		})
	}
}

func TestExampleSecretThreeOfFive(t *testing.T) {
	secret := []byte("example_secret")

	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)
	for _, share := range shares {
		assert.Len(t, share, 15)
	}

	combinations := [][]int{
		{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {0, 2, 3}, {0, 2, 4},
		{0, 3, 4}, {1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4},
	}

	for _, combo := range combinations {
		reconstructed, err := Combine(pick(shares, combo...))
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed, "combination %v", combo)
	}
}

func TestRoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, size := range []int{1, 2, 16, 256} {
		for _, cfg := range []Config{
			{Parts: 2, Threshold: 1},
			{Parts: 2, Threshold: 2},
			{Parts: 10, Threshold: 4},
			{Parts: 255, Threshold: 1},
			{Parts: 255, Threshold: 2},
			{Parts: 255, Threshold: 128},
		} {
			secret := make([]byte, size)
			rng.Read(secret)

			shares, err := Split(secret, cfg.Parts, cfg.Threshold)
			require.NoError(t, err)

			// Combine needs two shares even when one would do.
			take := cfg.Threshold
			if take < 2 {
				take = 2
			}

			perm := rng.Perm(cfg.Parts)[:take]
			reconstructed, err := Combine(pick(shares, perm...))
			require.NoError(t, err)
			assert.Equal(t, secret, reconstructed, "size %d, %d of %d", size, cfg.Threshold, cfg.Parts)
		}
	}
}

func TestSingleShareSplit(t *testing.T) {
	shares, err := Split([]byte("solo"), 1, 1)
	require.NoError(t, err)
	require.Len(t, shares, 1)

	// With threshold 1 every share carries the secret in the clear.
	assert.Equal(t, []byte("solo"), shares[0][:4])
	assert.NotZero(t, shares[0][4])
}

func TestCoordinateInvariants(t *testing.T) {
	for _, parts := range []int{1, 2, 17, 128, 255} {
		for run := 0; run < 5; run++ {
			shares, err := Split([]byte{0x01, 0x02}, parts, 1)
			require.NoError(t, err)

			seen := make(map[byte]bool)
			for _, share := range shares {
				x := share[len(share)-1]
				assert.NotZero(t, x)
				assert.False(t, seen[x], "x=%d repeated", x)
				seen[x] = true
			}
		}
	}
}

func TestCombineOrderIndependence(t *testing.T) {
	secret := []byte("order does not matter")
	shares, err := Split(secret, 6, 4)
	require.NoError(t, err)

	orders := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{5, 1, 4, 2},
		{2, 4, 1, 5},
	}

	for _, order := range orders {
		reconstructed, err := Combine(pick(shares, order...))
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed, "order %v", order)
	}
}

func TestCombineKnownShares(t *testing.T) {
	shares := [][]byte{
		{137, 206, 171, 244, 28, 176, 109, 4, 12, 168, 87, 50},
		{162, 176, 148, 45, 83, 38, 153, 204, 80, 141, 4, 1},
		{35, 165, 19, 114, 53, 31, 70, 25, 74, 248, 145, 132},
	}

	reconstructed, err := Combine(shares)
	require.NoError(t, err)
	assert.Equal(t, []byte("test_secret"), reconstructed)
}

func TestCombineBelowThresholdIsSilent(t *testing.T) {
	secret := bytes.Repeat([]byte{0xC3}, 32)
	shares, err := Split(secret, 5, 3)
	require.NoError(t, err)

	reconstructed, err := Combine(shares[:2])
	require.NoError(t, err)
	assert.Len(t, reconstructed, len(secret))
	assert.NotEqual(t, secret, reconstructed)
}

func TestCombineInvalidShares(t *testing.T) {
	valid, err := Split([]byte("test secret"), 3, 2)
	require.NoError(t, err)

	tests := []struct {
		name    string
		shares  [][]byte
		wantErr error
	}{
		{"No shares", nil, ErrTooFewShares},
		{"One share", valid[:1], ErrTooFewShares},
		{"Too short", [][]byte{{0x01}, {0x02}}, ErrShareTooShort},
		{"Empty share", [][]byte{{}, valid[0]}, ErrShareTooShort},
		{"Length mismatch", [][]byte{{1, 2}, {3, 4, 3}}, ErrShareLengthMismatch},
		{"Zero coordinate", [][]byte{{1, 2, 0}, {3, 4, 5}}, ErrZeroCoordinate},
		{"Duplicate shares", [][]byte{valid[0], valid[1], valid[0]}, ErrDuplicateCoordinate},
		{"Duplicate coordinate", [][]byte{{1, 2, 9}, {3, 4, 9}}, ErrDuplicateCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Combine(tt.shares)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSplitInvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		secret    []byte
		parts     int
		threshold int
		wantErr   error
	}{
		{"Threshold zero", []byte("s"), 5, 0, ErrInvalidThreshold},
		{"Threshold negative", []byte("s"), 5, -1, ErrInvalidThreshold},
		{"Threshold above parts", []byte("s"), 3, 5, ErrInvalidThreshold},
		{"Parts zero", []byte("s"), 0, 0, ErrInvalidPartCount},
		{"Parts above max", []byte("s"), 256, 100, ErrInvalidPartCount},
		{"Empty secret", []byte{}, 5, 3, ErrEmptySecret},
		{"Nil secret", nil, 5, 3, ErrEmptySecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := random.Counting(random.Default())

			shares, err := New(counter).Split(tt.secret, tt.parts, tt.threshold)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, shares)
			assert.Zero(t, counter.Draws(), "no randomness may be consumed on invalid input")
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{"Valid config", Config{Parts: 5, Threshold: 3}, false},
		{"Single share", Config{Parts: 1, Threshold: 1}, false},
		{"Threshold one", Config{Parts: 5, Threshold: 1}, false},
		{"Maximum", Config{Parts: 255, Threshold: 255}, false},
		{"Parts zero", Config{Parts: 0, Threshold: 0}, true},
		{"Threshold zero", Config{Parts: 5, Threshold: 0}, true},
		{"Threshold greater than parts", Config{Parts: 3, Threshold: 5}, true},
		{"Parts exceeds maximum", Config{Parts: 256, Threshold: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplitDrawAccounting(t *testing.T) {
	const parts, threshold = 5, 3
	secret := []byte("draws")

	// Coordinates 1..5 come first so no draw is rejected.
	stream := []byte{1, 2, 3, 4, 5}
	stream = append(stream, bytes.Repeat([]byte{0x5A}, len(secret)*(threshold-1))...)
	counter := random.Counting(random.Reader(bytes.NewReader(stream)))

	shares, err := New(counter).Split(secret, parts, threshold)
	require.NoError(t, err)
	assert.Equal(t, uint64(parts+len(secret)*(threshold-1)), counter.Draws())

	for i, share := range shares {
		assert.Equal(t, byte(i+1), share[len(secret)])
	}

	reconstructed, err := Combine(shares[2:])
	require.NoError(t, err)
	assert.Equal(t, secret, reconstructed)
}

func TestSplitRejectsZeroAndRepeatedCoordinates(t *testing.T) {
	stream := []byte{0, 7, 7, 0, 9}
	stream = append(stream, 0x11, 0x22)
	counter := random.Counting(random.Reader(bytes.NewReader(stream)))

	shares, err := New(counter).Split([]byte{0xAA, 0xBB}, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, byte(7), shares[0][2])
	assert.Equal(t, byte(9), shares[1][2])
	assert.Equal(t, uint64(len(stream)), counter.Draws())
}

func TestSplitCoordinateSamplingExhausted(t *testing.T) {
	_, err := New(random.Reader(constReader(7))).Split([]byte("secret"), 2, 2)
	assert.ErrorIs(t, err, ErrDuplicateCoordinate)

	_, err = New(random.Reader(constReader(0))).Split([]byte("secret"), 1, 1)
	assert.ErrorIs(t, err, ErrDuplicateCoordinate)
}

func TestSplitSourceFailure(t *testing.T) {
	// Enough for the coordinates but not for every coefficient.
	src := random.Reader(bytes.NewReader([]byte{1, 2, 3, 0x10}))

	_, err := New(src).Split([]byte("abc"), 3, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, random.ErrInsufficientRandomness)
	assert.Contains(t, err.Error(), "byte 1")

	_, err = New(random.Reader(bytes.NewReader(nil))).Split([]byte("abc"), 3, 2)
	assert.ErrorIs(t, err, random.ErrInsufficientRandomness)
}

func TestDeterministicSplit(t *testing.T) {
	seeded := func() *Scheme {
		src, err := random.NewDeterministic([]byte("reproducible"))
		require.NoError(t, err)
		return New(src)
	}

	secret := []byte("same seed, same shares")
	a, err := seeded().Split(secret, 5, 3)
	require.NoError(t, err)
	b, err := seeded().Split(secret, 5, 3)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	reconstructed, err := Combine(a[1:4])
	require.NoError(t, err)
	assert.Equal(t, secret, reconstructed)
}

func TestThresholdSecrecy(t *testing.T) {
	// With threshold 2 a single share's y-value must be uniform whatever the
	// secret byte is. Count the first y-value over many splits of two
	// different secrets and compare each to the uniform expectation.
	const rounds = 256 * 100

	for _, secret := range [][]byte{{0x00}, {0xFF}} {
		var counts [256]int
		for i := 0; i < rounds; i++ {
			shares, err := Split(secret, 2, 2)
			require.NoError(t, err)
			counts[shares[0][0]]++
		}

		// Mean 100, standard deviation about 10.
		for value, n := range counts {
			assert.Greater(t, n, 40, "secret %#02x: y=%#02x too rare", secret[0], value)
			assert.Less(t, n, 160, "secret %#02x: y=%#02x too common", secret[0], value)
		}
	}
}

func TestBelowThresholdRevealsNothingAcrossSplits(t *testing.T) {
	secret := bytes.Repeat([]byte{0x5C}, 16)

	matches := 0
	for i := 0; i < 64; i++ {
		shares, err := Split(secret, 4, 3)
		require.NoError(t, err)

		guess, err := Combine(shares[:2])
		require.NoError(t, err)
		if bytes.Equal(guess, secret) {
			matches++
		}
	}
	assert.Zero(t, matches)
}

func TestVaultInterop(t *testing.T) {
	secret := []byte("shared layout with vault")

	t.Run("Vault shares combine here", func(t *testing.T) {
		shares, err := vaultshamir.Split(secret, 5, 3)
		require.NoError(t, err)

		reconstructed, err := Combine(shares[1:4])
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed)
	})

	t.Run("Our shares combine in vault", func(t *testing.T) {
		shares, err := Split(secret, 5, 3)
		require.NoError(t, err)

		reconstructed, err := vaultshamir.Combine(shares[2:])
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed)
	})

	t.Run("Refreshed vault shares combine in vault", func(t *testing.T) {
		shares, err := vaultshamir.Split(secret, 4, 2)
		require.NoError(t, err)

		refreshed, err := Refresh(shares, 2)
		require.NoError(t, err)

		reconstructed, err := vaultshamir.Combine(refreshed[:2])
		require.NoError(t, err)
		assert.Equal(t, secret, reconstructed)
	})
}

func TestVerifyShares(t *testing.T) {
	shares, err := Split([]byte("test secret"), 3, 2)
	require.NoError(t, err)

	assert.NoError(t, VerifyShares(shares))
	assert.ErrorIs(t, VerifyShares(shares[:1]), ErrTooFewShares)
	assert.ErrorIs(t, VerifyShares([][]byte{shares[0], {1, 2}}), ErrShareLengthMismatch)
}

func BenchmarkSplit(b *testing.B) {
	secret := bytes.Repeat([]byte{0x42}, 32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Split(secret, 5, 3); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCombine(b *testing.B) {
	secret := bytes.Repeat([]byte{0x42}, 32)

	shares, err := Split(secret, 5, 3)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Combine(shares[:3]); err != nil {
			b.Fatal(err)
		}
	}
}
