package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gomotion-project/gomotion/result"
)

// Matrix is a general dense matrix (spec.md §3: "rows, cols, and a 2D storage view"). It is a
// thin, invariant-carrying wrapper over gonum.org/v1/gonum/mat.Dense, which does the actual
// numerical work (decompositions, solves) — see DESIGN.md for why a hand-rolled BLAS layer
// would just be a worse gonum.
type Matrix struct {
	Rows, Cols int
	d          *mat.Dense
}

// NewMatrix builds a Rows x Cols matrix from row-major data.
func NewMatrix(rows, cols int, data []float64) Matrix {
	return Matrix{Rows: rows, Cols: cols, d: mat.NewDense(rows, cols, append([]float64(nil), data...))}
}

// At returns the element at (i,j).
func (m Matrix) At(i, j int) float64 { return m.d.At(i, j) }

// Set assigns the element at (i,j).
func (m Matrix) Set(i, j int, v float64) { m.d.Set(i, j, v) }

// MatMul multiplies two matrices.
func MatMul(a, b Matrix) (Matrix, result.Code) {
	if a.Cols != b.Rows {
		return Matrix{}, result.BadArgs
	}
	var out mat.Dense
	out.Mul(a.d, b.d)
	return Matrix{Rows: a.Rows, Cols: b.Cols, d: &out}, result.OK
}

// MatrixInv inverts a, supporting the in-place case where the caller reuses a's storage for the
// result (spec.md §4.1: "an in-place argument is supported"). Reports BadArgs for a non-square
// input and Singular for a singular one rather than propagating gonum's panic-on-singular behavior.
func MatrixInv(a Matrix) (Matrix, result.Code) {
	if a.Rows != a.Cols {
		return Matrix{}, result.BadArgs
	}
	var inv mat.Dense
	if err := inv.Inverse(a.d); err != nil {
		return Matrix{}, result.Singular
	}
	return Matrix{Rows: a.Rows, Cols: a.Cols, d: &inv}, result.OK
}

// MatrixInvInPlace inverts a and overwrites it with the result, mirroring the C API's aliased
// A==Ainv argument support.
func MatrixInvInPlace(a *Matrix) result.Code {
	inv, code := MatrixInv(*a)
	if code != result.OK {
		return code
	}
	*a = inv
	return result.OK
}

// PseudoInverse computes the Moore-Penrose pseudoinverse of a (possibly non-square, possibly
// rank-deficient) matrix via gonum's SVD, used by the kinematics package's Jacobian-based inverse
// velocity solver (spec.md §4.4 jac_inv: "the pseudoinverse direction").
func PseudoInverse(a Matrix) (Matrix, result.Code) {
	var svd mat.SVD
	if ok := svd.Factorize(a.d, mat.SVDThin); !ok {
		return Matrix{}, result.Singular
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	const tol = 1e-10
	sInv := mat.NewDense(len(values), len(values), nil)
	for i, s := range values {
		if s > tol {
			sInv.Set(i, i, 1/s)
		}
	}
	var tmp, out mat.Dense
	tmp.Mul(&v, sInv)
	out.Mul(&tmp, u.T())
	return Matrix{Rows: a.Cols, Cols: a.Rows, d: &out}, result.OK
}

// Eigen3Sym computes eigenvalues/eigenvectors of a real symmetric 3x3 matrix via Jacobi
// rotations (classic cyclic Jacobi eigenvalue algorithm). This is the hand-rolled hot path the
// design notes call out to keep rather than replace with a general solver; Matrix-N symmetric
// eigensolving for N != 3 goes through EigenSym via gonum instead.
func Eigen3Sym(a [3][3]float64) (vals [3]float64, vecs [3][3]float64) {
	const maxSweeps = 50
	A := a
	V := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := math.Abs(A[0][1]) + math.Abs(A[0][2]) + math.Abs(A[1][2])
		if off < 1e-14 {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if math.Abs(A[p][q]) < 1e-300 {
					continue
				}
				theta := (A[q][q] - A[p][p]) / (2 * A[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				if theta == 0 {
					t = 1
				}
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				app, aqq, apq := A[p][p], A[q][q], A[p][q]
				A[p][p] = c*c*app - 2*s*c*apq + s*s*aqq
				A[q][q] = s*s*app + 2*s*c*apq + c*c*aqq
				A[p][q], A[q][p] = 0, 0

				for r := 0; r < 3; r++ {
					if r != p && r != q {
						arp, arq := A[r][p], A[r][q]
						A[r][p] = c*arp - s*arq
						A[p][r] = A[r][p]
						A[r][q] = s*arp + c*arq
						A[q][r] = A[r][q]
					}
				}
				for r := 0; r < 3; r++ {
					vrp, vrq := V[r][p], V[r][q]
					V[r][p] = c*vrp - s*vrq
					V[r][q] = s*vrp + c*vrq
				}
			}
		}
	}
	return [3]float64{A[0][0], A[1][1], A[2][2]}, V
}

// EigenSym computes eigenvalues/eigenvectors of a general real symmetric NxN matrix via gonum's
// general symmetric eigendecomposition (used for N != 3; the 3x3 hot path uses Eigen3Sym instead,
// per the design notes' "keep the algorithm, place it behind a seam").
func EigenSym(a Matrix) (vals []float64, vecs Matrix, code result.Code) {
	if a.Rows != a.Cols {
		return nil, Matrix{}, result.BadArgs
	}
	sym := mat.NewSymDense(a.Rows, nil)
	for i := 0; i < a.Rows; i++ {
		for j := i; j < a.Rows; j++ {
			sym.SetSym(i, j, a.At(i, j))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, Matrix{}, result.Singular
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	return values, Matrix{Rows: a.Rows, Cols: a.Rows, d: &vectors}, result.OK
}
