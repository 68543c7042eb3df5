/*
Copyright © 2018 the mgpoisson authors.
This file is part of mgpoisson.

mgpoisson is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

mgpoisson is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with mgpoisson.  If not, see <http://www.gnu.org/licenses/>.
*/

package mgpoisson

import "fmt"

// Blend specifies how a transferred grid is combined with the values
// already in the destination: dst = alpha·dst + beta·transfer(src).
type Blend int

const (
	// Overwrite replaces the destination interior (alpha=0, beta=1).
	Overwrite Blend = iota
	// Accumulate adds into the destination interior (alpha=1, beta=1).
	Accumulate
)

func (b Blend) String() string {
	switch b {
	case Overwrite:
		return "overwrite"
	case Accumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("Blend(%d)", int(b))
	}
}

// BlendOf converts a pair of combination weights into a Blend. Only the
// overwrite (0, 1) and accumulate (1, 1) pairs are supported.
func BlendOf(alpha, beta float64) (Blend, error) {
	switch {
	case alpha == 0 && beta == 1:
		return Overwrite, nil
	case alpha == 1 && beta == 1:
		return Accumulate, nil
	}
	return 0, fmt.Errorf("%w: alpha=%g, beta=%g", ErrBlend, alpha, beta)
}

// checkTransfer validates the coarse/fine size pairing of a transfer.
func checkTransfer(coarse Grid, nc int, fine Grid, nf int, mode Blend) error {
	if mode != Overwrite && mode != Accumulate {
		return fmt.Errorf("%w: %v", ErrBlend, mode)
	}
	if err := checkGrid("coarse grid", coarse, nc); err != nil {
		return err
	}
	if err := checkGrid("fine grid", fine, nf); err != nil {
		return err
	}
	if nf != 2*nc-1 {
		return fmt.Errorf("%w: fine side %d does not refine coarse side %d", ErrSize, nf, nc)
	}
	return nil
}

// Restrict transfers the fine n×n grid src onto the coarse dstN×dstN grid
// dst using full weighting. Only interior points of dst are written and
// only interior points of src are read.
func Restrict(dst Grid, dstN int, src Grid, srcN int, mode Blend) error {
	if err := checkTransfer(dst, dstN, src, srcN, mode); err != nil {
		return err
	}
	restrict(dst, dstN, src, srcN, mode)
	return nil
}

func restrict(dst Grid, nc int, src Grid, nf int, mode Blend) {
	for I := 1; I < nc-1; I++ {
		i := 2 * I
		for J := 1; J < nc-1; J++ {
			j := 2 * J
			c := j + i*nf
			v := (4*src[c] +
				2*(src[c+1]+src[c-1]+src[c+nf]+src[c-nf]) +
				src[c+1+nf] + src[c-1+nf] + src[c+1-nf] + src[c-1-nf]) / 16
			if mode == Accumulate {
				dst[J+I*nc] += v
			} else {
				dst[J+I*nc] = v
			}
		}
	}
}

// Prolongate interpolates the coarse srcN×srcN grid src onto the fine
// dstN×dstN grid dst using bilinear interpolation. Only interior points
// of dst are written; coarse boundary values are read and assumed zero.
func Prolongate(dst Grid, dstN int, src Grid, srcN int, mode Blend) error {
	if err := checkTransfer(src, srcN, dst, dstN, mode); err != nil {
		return err
	}
	prolongate(dst, dstN, src, srcN, mode)
	return nil
}

func prolongate(dst Grid, nf int, src Grid, nc int, mode Blend) {
	for i := 1; i < nf-1; i++ {
		I := i / 2
		for j := 1; j < nf-1; j++ {
			J := j / 2
			c := J + I*nc
			var v float64
			switch {
			case i%2 == 0 && j%2 == 0:
				v = src[c]
			case i%2 == 0:
				v = 0.5 * (src[c] + src[c+1])
			case j%2 == 0:
				v = 0.5 * (src[c] + src[c+nc])
			default:
				v = 0.25 * (src[c] + src[c+1] + src[c+nc] + src[c+1+nc])
			}
			if mode == Accumulate {
				dst[j+i*nf] += v
			} else {
				dst[j+i*nf] = v
			}
		}
	}
}
