package verif

import (
	"math/rand"

	"github.com/wenbo-li-ee/cpaep2526-project/src/simulator/gemm"
)

// Driver owns the randomized stimulus. It picks tile counts, fills dense A/B
// matrices with signed InDataWidth values, packs them into the accelerator
// memories before start, and unpacks C after done. Packing mirrors the
// hardware tile layout exactly.
type Driver struct {
	params gemm.Parameters
	codec  *gemm.TileCodec
	rng    *rand.Rand
}

func NewDriver(params gemm.Parameters, seed int64) *Driver {
	return &Driver{
		params: params,
		codec:  gemm.NewTileCodec(params),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// RandomSizes draws tile counts uniformly from [1, maxTiles], rejecting
// combinations the configured capacity cannot hold.
func (d *Driver) RandomSizes(maxTiles int) (mTiles, kTiles, nTiles int) {
	for {
		mTiles = 1 + d.rng.Intn(maxTiles)
		kTiles = 1 + d.rng.Intn(maxTiles)
		nTiles = 1 + d.rng.Intn(maxTiles)
		if d.params.ValidateProblem(mTiles, kTiles, nTiles) == nil {
			return mTiles, kTiles, nTiles
		}
	}
}

// RandomMatrix fills a rows x cols matrix with uniform values covering the
// full signed InDataWidth range.
func (d *Driver) RandomMatrix(rows, cols int) [][]int64 {
	span := int64(1) << d.params.InDataWidth
	half := span / 2

	m := make([][]int64, rows)
	for i := range m {
		m[i] = make([]int64, cols)
		for j := range m[i] {
			m[i][j] = d.rng.Int63n(span) - half
		}
	}
	return m
}

// LoadA packs the dense M x K matrix into the A memory, one tile per word at
// address m_t*K_t + k_t.
func (d *Driver) LoadA(acc *gemm.Accelerator, a [][]int64, mTiles, kTiles int) {
	p := d.params
	for mt := 0; mt < mTiles; mt++ {
		for kt := 0; kt < kTiles; kt++ {
			tile := make([][]int64, p.NumPEM)
			for r := 0; r < p.NumPEM; r++ {
				tile[r] = a[mt*p.NumPEM+r][kt*p.NumIPK : (kt+1)*p.NumIPK]
			}
			acc.AMemory().Store(mt*kTiles+kt, d.codec.PackA(tile))
		}
	}
}

// LoadB packs the dense K x N matrix into the B memory, one tile per word at
// address k_t*N_t + n_t.
func (d *Driver) LoadB(acc *gemm.Accelerator, b [][]int64, kTiles, nTiles int) {
	p := d.params
	for kt := 0; kt < kTiles; kt++ {
		for nt := 0; nt < nTiles; nt++ {
			tile := make([][]int64, p.NumIPK)
			for k := 0; k < p.NumIPK; k++ {
				tile[k] = b[kt*p.NumIPK+k][nt*p.NumPEN : (nt+1)*p.NumPEN]
			}
			acc.BMemory().Store(kt*nTiles+nt, d.codec.PackB(tile))
		}
	}
}

// ReadC unpacks the C memory into the dense M x N result, one tile per word
// at address m_t*N_t + n_t.
func (d *Driver) ReadC(acc *gemm.Accelerator, mTiles, nTiles int) [][]int64 {
	p := d.params
	c := make([][]int64, mTiles*p.NumPEM)
	for i := range c {
		c[i] = make([]int64, nTiles*p.NumPEN)
	}

	for mt := 0; mt < mTiles; mt++ {
		for nt := 0; nt < nTiles; nt++ {
			tile := d.codec.UnpackC(acc.CMemory().Peek(mt*nTiles + nt))
			for r := 0; r < p.NumPEM; r++ {
				for n := 0; n < p.NumPEN; n++ {
					c[mt*p.NumPEM+r][nt*p.NumPEN+n] = tile[r][n]
				}
			}
		}
	}
	return c
}
