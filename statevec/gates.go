package statevec

import (
	"math"
	"math/cmplx"
)

// Matrix is a single-qubit operator in row-major order, acting on the
// (|0>, |1>) amplitude pair of the target qubit.
type Matrix [2][2]complex128

var (
	Hadamard = Matrix{{invSqrt2, invSqrt2}, {invSqrt2, -invSqrt2}}
	PauliX   = Matrix{{0, 1}, {1, 0}}
	PauliY   = Matrix{{0, -1i}, {1i, 0}}
	PauliZ   = Matrix{{1, 0}, {0, -1}}
	S        = Matrix{{1, 0}, {0, 1i}}
	Sdg      = S.Dagger()
	T        = Phase(math.Pi / 4)
	Tdg      = T.Dagger()
)

const invSqrt2 = complex(1/math.Sqrt2, 0)

// RX is a rotation by theta about the X axis.
func RX(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return Matrix{{c, js}, {js, c}}
}

// RY is a rotation by theta about the Y axis.
func RY(theta float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{{c, -s}, {s, c}}
}

// RZ is a rotation by theta about the Z axis: diag(e^{-i theta/2}, e^{i theta/2}).
func RZ(theta float64) Matrix {
	return Matrix{{expi(-theta / 2), 0}, {0, expi(theta / 2)}}
}

// Phase is diag(1, e^{i theta}).
func Phase(theta float64) Matrix {
	return Matrix{{1, 0}, {0, expi(theta)}}
}

// U is the general single-qubit rotation
//
//	[ cos(t/2)          -e^{i l} sin(t/2)      ]
//	[ e^{i p} sin(t/2)   e^{i(p+l)} cos(t/2)   ]
func U(theta, phi, lambda float64) Matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix{
		{c, -expi(lambda) * s},
		{expi(phi) * s, expi(phi+lambda) * c},
	}
}

// Dagger returns the conjugate transpose of m.
func (m Matrix) Dagger() Matrix {
	return Matrix{
		{cmplx.Conj(m[0][0]), cmplx.Conj(m[1][0])},
		{cmplx.Conj(m[0][1]), cmplx.Conj(m[1][1])},
	}
}

func expi(theta float64) complex128 {
	return cmplx.Exp(complex(0, theta))
}
