package scene

import (
	"math"
	"time"

	"github.com/achilleasa/wavefront/log"
	"github.com/achilleasa/wavefront/types"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis

	// The BVH builder will not attempt to calculate split candidates
	// if the node bbox along an axis is less than this threshold.
	minSideLength float32 = 1e-3

	// If the split step (calculated as side length / (1024 / (depth+1)))
	// is less than this threshold the BVH builder will not evaluate
	// split candidates.
	minSplitStep float32 = 1e-5
)

// The BoundedVolume interface is implemented by all primitives that can be
// partitioned by the bvh builder.
type BoundedVolume interface {
	BBox() [2]types.Vec3
	Centroid() types.Vec3
}

type bvhNode struct {
	Min types.Vec3
	Max types.Vec3

	// Child node indices for inner nodes.
	left, right uint32

	// The range of the BVH item list covered by a leaf. Inner nodes
	// have a zero count.
	first, count uint32
}

// A bounding volume hierarchy over a list of bounded volumes. Nodes are
// stored as a contiguous list with the root at index 0.
type BVH struct {
	nodes []bvhNode

	// Work list indices referenced by leaf nodes.
	items []int32
}

type workItem struct {
	BoundedVolume
	index int32
}

type splitScore struct {
	axis       Axis
	splitPoint float32

	leftCount, rightCount int
	score                 float32
}

type bvhBuilder struct {
	logger log.Logger
	bvh    *BVH

	// The minimum number of items that are required for creating a leaf.
	minLeafItems int

	// A channel for receiving score results.
	scoreChan chan splitScore

	maxDepth int
	leafs    int
}

// Construct a BVH from a set of bounded volumes using the surface area
// heuristic (SAH) for scoring splits:
// score = num_items * node bbox face area.
//
// The builder automatically generates leafs if the incoming work length is
// <= minLeafItems.
func BuildBVH(volumes []BoundedVolume, minLeafItems int) *BVH {
	b := &bvhBuilder{
		logger:       log.New("bvh builder"),
		bvh:          &BVH{},
		minLeafItems: minLeafItems,
		scoreChan:    make(chan splitScore),
	}
	if len(volumes) == 0 {
		return b.bvh
	}

	workList := make([]workItem, len(volumes))
	for index, vol := range volumes {
		workList[index] = workItem{BoundedVolume: vol, index: int32(index)}
	}

	start := time.Now()
	b.partition(workList, 0)
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6, b.maxDepth, len(b.bvh.nodes), b.leafs,
	)
	return b.bvh
}

// Partition worklist and return node index.
func (b *bvhBuilder) partition(workList []workItem, depth int) uint32 {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	node := bvhNode{}
	node.Min, node.Max = bounds(workList)

	// Do we have enough items for partitioning? If not create a leaf
	if len(workList) <= b.minLeafItems {
		return b.createLeaf(node, workList)
	}

	bestScore := scorePartition(workList)
	var bestSplit *splitScore

	// Run split tests for each axis in parallel
	pendingScores := 0
	side := node.Max.Sub(node.Min)
	for axis := XAxis; axis <= ZAxis; axis++ {
		if side[axis] < minSideLength {
			continue
		}

		// Split steps become more granular the deeper we go
		splitStep := side[axis] / (1024.0 / float32(depth+1))
		if splitStep < minSplitStep {
			continue
		}

		for splitPoint := node.Min[axis]; splitPoint < node.Max[axis]; splitPoint += splitStep {
			pendingScores++
			go func(axis Axis, splitPoint float32) {
				lCount, rCount, score := scoreSplit(workList, axis, splitPoint)
				b.scoreChan <- splitScore{
					axis:       axis,
					splitPoint: splitPoint,
					leftCount:  lCount,
					rightCount: rCount,
					score:      score,
				}
			}(axis, splitPoint)
		}
	}

	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore {
			bestScore = candidate.score
			bestSplit = &candidate
		}
	}

	// If no split improves the current node score create a leaf
	if bestSplit == nil {
		return b.createLeaf(node, workList)
	}

	leftWorkList := make([]workItem, 0, bestSplit.leftCount)
	rightWorkList := make([]workItem, 0, bestSplit.rightCount)
	for _, item := range workList {
		if item.Centroid()[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList = append(leftWorkList, item)
		} else {
			rightWorkList = append(rightWorkList, item)
		}
	}

	nodeIndex := len(b.bvh.nodes)
	b.bvh.nodes = append(b.bvh.nodes, node)

	leftNodeIndex := b.partition(leftWorkList, depth+1)
	rightNodeIndex := b.partition(rightWorkList, depth+1)
	b.bvh.nodes[nodeIndex].left = leftNodeIndex
	b.bvh.nodes[nodeIndex].right = rightNodeIndex

	return uint32(nodeIndex)
}

// Append a leaf node containing all items in the work list and return its
// index.
func (b *bvhBuilder) createLeaf(node bvhNode, workList []workItem) uint32 {
	node.first = uint32(len(b.bvh.items))
	node.count = uint32(len(workList))
	for _, item := range workList {
		b.bvh.items = append(b.bvh.items, item.index)
	}

	nodeIndex := len(b.bvh.nodes)
	b.bvh.nodes = append(b.bvh.nodes, node)
	b.leafs++
	return uint32(nodeIndex)
}

func bounds(workList []workItem) (types.Vec3, types.Vec3) {
	min := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, item := range workList {
		bbox := item.BBox()
		min = types.MinVec3(min, bbox[0])
		max = types.MaxVec3(max, bbox[1])
	}
	return min, max
}

func faceArea(min, max types.Vec3) float32 {
	side := max.Sub(min)
	return side[0]*side[1] + side[1]*side[2] + side[0]*side[2]
}

// Score a BVH split based on the surface area heuristic (lower is better):
//
// left count * left BBOX area + rightCount * right BBOX area.
//
// Splits that generate empty partitions get the worst possible score.
func scoreSplit(workList []workItem, axis Axis, splitPoint float32) (leftCount, rightCount int, score float32) {
	lmin := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	rmin := types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	lmax := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	rmax := types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}

	for _, item := range workList {
		bbox := item.BBox()
		if item.Centroid()[axis] < splitPoint {
			leftCount++
			lmin = types.MinVec3(lmin, bbox[0])
			lmax = types.MaxVec3(lmax, bbox[1])
		} else {
			rightCount++
			rmin = types.MinVec3(rmin, bbox[0])
			rmax = types.MaxVec3(rmax, bbox[1])
		}
	}

	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.MaxFloat32
	}

	score = float32(leftCount)*faceArea(lmin, lmax) + float32(rightCount)*faceArea(rmin, rmax)
	return leftCount, rightCount, score
}

// Score an unsplit work list: count * BBOX area.
func scorePartition(workList []workItem) float32 {
	if len(workList) == 0 {
		return math.MaxFloat32
	}
	min, max := bounds(workList)
	return float32(len(workList)) * faceArea(min, max)
}

// Get the number of nodes.
func (b *BVH) NumNodes() int {
	return len(b.nodes)
}

// Find the closest item along ray. The hit callback is invoked for each item
// in a leaf whose bbox overlaps the ray; it receives the ray clipped to the
// closest hit found so far and returns the hit distance. Returns the index
// of the closest item and its hit distance.
func (b *BVH) Intersect(ray types.Ray, hit func(item int32, ray types.Ray) (float32, bool)) (int32, float32, bool) {
	if len(b.nodes) == 0 {
		return -1, 0, false
	}

	invDir := types.Vec3{1 / ray.Dir[0], 1 / ray.Dir[1], 1 / ray.Dir[2]}
	closestItem := int32(-1)
	clipped := ray

	var stackBuf [64]uint32
	stack := append(stackBuf[:0], 0)
	for len(stack) > 0 {
		node := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.hitBox(ray, invDir, clipped.TMax) {
			continue
		}

		if node.count == 0 {
			stack = append(stack, node.left, node.right)
			continue
		}

		for _, item := range b.items[node.first : node.first+node.count] {
			if t, ok := hit(item, clipped); ok && t < clipped.TMax {
				clipped.TMax = t
				closestItem = item
			}
		}
	}

	return closestItem, clipped.TMax, closestItem != -1
}

// Slab test against the node bbox for the [ray.TMin, tMax] segment.
func (n *bvhNode) hitBox(ray types.Ray, invDir types.Vec3, tMax float32) bool {
	tMin := ray.TMin
	for axis := 0; axis < 3; axis++ {
		if ray.Dir[axis] == 0 {
			if ray.Origin[axis] < n.Min[axis] || ray.Origin[axis] > n.Max[axis] {
				return false
			}
			continue
		}

		t0 := (n.Min[axis] - ray.Origin[axis]) * invDir[axis]
		t1 := (n.Max[axis] - ray.Origin[axis]) * invDir[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return false
		}
	}
	return true
}
