package workitem

import (
	"sort"
	"sync"
	"testing"

	"github.com/achilleasa/wavefront/backend"
	"github.com/achilleasa/wavefront/types"
)

func TestMaterialWorkItemRoundTrip(t *testing.T) {
	ctx := backend.NewSerial(backend.SerialOptions{})
	s, err := NewMaterialWorkItemSOA(ctx, 8)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Free()

	for i := 0; i < s.Len(); i++ {
		f := float32(i)
		s.Set(i, MaterialWorkItem{
			Pixel:    int32(i),
			Material: types.MaterialRef(100 + i),
			GeomID:   int32(200 + i),
			PrimID:   int32(300 + i),
			UV:       types.XY(f, -f),
			Wo:       types.XYZ(f, f*2, f*3),
		})
	}

	for i := 0; i < s.Len(); i++ {
		f := float32(i)
		exp := MaterialWorkItem{
			Pixel:    int32(i),
			Material: types.MaterialRef(100 + i),
			GeomID:   int32(200 + i),
			PrimID:   int32(300 + i),
			UV:       types.XY(f, -f),
			Wo:       types.XYZ(f, f*2, f*3),
		}
		if got := s.Get(i); got != exp {
			t.Fatalf("[slot %d] expected %+v; got %+v", i, exp, got)
		}
	}
}

func TestViewSettersDoNotAlias(t *testing.T) {
	ctx := backend.NewSerial(backend.SerialOptions{})
	s, err := NewPathStateSOA(ctx, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Free()

	v := s.View(2)
	v.SetL(types.Spectrum{1, 2, 3})
	v.SetBeta(types.Gray(0.5))
	v.SetDepth(3)
	v.SetTerminated(true)
	v.SetSampler(types.NewSampler(1, 2, 0))

	got := s.Get(2)
	if got.L != (types.Spectrum{1, 2, 3}) || got.Beta != types.Gray(0.5) || got.Depth != 3 || !got.Terminated {
		t.Fatalf("unexpected record at slot 2: %+v", got)
	}
	if got.Sampler != types.NewSampler(1, 2, 0) {
		t.Fatal("expected sampler state to be stored")
	}

	for _, slot := range []int{0, 1, 3} {
		if rec := s.Get(slot); rec != (PathState{}) {
			t.Fatalf("[slot %d] expected untouched zero record; got %+v", slot, rec)
		}
	}

	if s.L.R[2] != 1 || s.L.G[2] != 2 || s.L.B[2] != 3 || s.Beta.R[2] != 0.5 {
		t.Fatal("expected spectrum channels to be stored in separate columns")
	}
}

func TestStorageAccounting(t *testing.T) {
	ctx := backend.NewSerial(backend.SerialOptions{})

	s, err := NewRayWorkItemSOA(ctx, 16)
	if err != nil {
		t.Fatal(err)
	}
	if ctx.InUse() == 0 {
		t.Fatal("expected storage to be charged to the context")
	}

	s.Free()
	s.Free()
	if ctx.InUse() != 0 {
		t.Fatalf("expected all storage to be released; got %d bytes in use", ctx.InUse())
	}
	if s.Len() != 0 {
		t.Fatalf("expected freed storage to have no slots; got %d", s.Len())
	}

	budget := backend.NewSerial(backend.SerialOptions{MemoryBudget: 64})
	if _, err = NewPathStateSOA(budget, 16); err == nil {
		t.Fatal("expected allocation to exceed the memory budget")
	}
	if budget.InUse() != 0 {
		t.Fatalf("expected failed allocation to release partial storage; got %d bytes in use", budget.InUse())
	}
}

func TestRayQueueConcurrentPush(t *testing.T) {
	ctx := backend.NewHost(backend.HostOptions{Workers: 4})
	q := NewRayWorkItemQueue(ctx, "rays")
	defer q.Free()

	const n = 256
	if err := q.Reset(n); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var pixels []int
	err := ctx.Dispatch(n, func(lane int) error {
		ray := types.NewRay(types.XYZ(float32(lane), 0, 0), types.XYZ(0, 0, 1))
		_, err := q.Push(RayWorkItem{Pixel: int32(lane), Ray: ray})
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	err = q.Drain(func(slot int, v RayWorkItemView[*backend.Host]) error {
		if v.Ray().Origin[0] != float32(v.Pixel()) {
			t.Errorf("slot %d: ray does not belong to pixel %d", slot, v.Pixel())
		}
		mu.Lock()
		pixels = append(pixels, int(v.Pixel()))
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	sort.Ints(pixels)
	for index, pixel := range pixels {
		if pixel != index {
			t.Fatalf("expected every pixel to be queued once; got %d at %d", pixel, index)
		}
	}
}
