package shamir

import (
	"fmt"

	"github.com/Davincible/sss/pkg/crypto/random"
)

// MaxCoordinateDraws bounds rejection sampling of x-coordinates. Collecting all
// 255 non-zero values takes about 1570 draws on average; missing one after
// 16384 uniform draws has probability below 2^-84.
const MaxCoordinateDraws = 16384

// drawCoordinates returns n distinct non-zero field elements in draw order.
// Coordinates are public, so branching on them is fine.
func drawCoordinates(n int, src random.Source) ([]byte, error) {
	var taken [256]bool
	xs := make([]byte, 0, n)

	for draws := 0; len(xs) < n; draws++ {
		if draws == MaxCoordinateDraws {
			return nil, fmt.Errorf("%w: found %d of %d coordinates in %d draws",
				ErrDuplicateCoordinate, len(xs), n, draws)
		}

		x, err := src.Element()
		if err != nil {
			return nil, fmt.Errorf("failed to draw coordinate: %w", err)
		}

		if x == 0 || taken[x] {
			continue
		}
		taken[x] = true
		xs = append(xs, x)
	}

	return xs, nil
}
