package types

import "testing"

func TestSamplerDeterminism(t *testing.T) {
	s1 := NewSampler(42, 7, 3)
	s2 := NewSampler(42, 7, 3)
	for i := 0; i < 16; i++ {
		v1, v2 := s1.Next1D(), s2.Next1D()
		if v1 != v2 {
			t.Fatalf("[sample %d] expected identical streams; got %f and %f", i, v1, v2)
		}
		if v1 < 0 || v1 >= 1 {
			t.Fatalf("[sample %d] expected value in [0, 1); got %f", i, v1)
		}
	}

	other := NewSampler(42, 8, 3)
	s1 = NewSampler(42, 7, 3)
	same := 0
	for i := 0; i < 16; i++ {
		if s1.Next1D() == other.Next1D() {
			same++
		}
	}
	if same == 16 {
		t.Fatal("expected different pixels to produce different streams")
	}
}

func TestSpectrumOps(t *testing.T) {
	s := Spectrum{0.5, 1, 0.25}
	if s.MaxComponent() != 1 {
		t.Fatalf("expected max component to be 1; got %f", s.MaxComponent())
	}
	if s.IsBlack() {
		t.Fatal("expected spectrum not to be black")
	}
	if !(Spectrum{}).IsBlack() {
		t.Fatal("expected zero spectrum to be black")
	}

	exp := Spectrum{0.25, 1, 0.0625}
	if got := s.Mul(s); got != exp {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestBasis(t *testing.T) {
	normals := []Vec3{
		{0, 0, 1},
		{1, 0, 0},
		XYZ(1, 1, 1).Normalize(),
	}

	for index, n := range normals {
		s, tt := Basis(n)
		if d := s.Dot(n); d > 1e-5 || d < -1e-5 {
			t.Fatalf("[spec %d] expected s to be orthogonal to n; dot = %f", index, d)
		}
		if d := tt.Dot(n); d > 1e-5 || d < -1e-5 {
			t.Fatalf("[spec %d] expected t to be orthogonal to n; dot = %f", index, d)
		}
		if l := s.Len(); l < 0.999 || l > 1.001 {
			t.Fatalf("[spec %d] expected s to be a unit vector; len = %f", index, l)
		}
	}
}
