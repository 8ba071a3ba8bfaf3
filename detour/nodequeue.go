package detour

import (
	"log"
	"unsafe"

	"github.com/arl/assertgo"
)

// nodeQueue is the binary-heap open list FindPath's A* search pops from
// on every step, ordered by Node.Total (g + h). It is fixed-capacity,
// sized once from NavMeshQuery's maxNodes at construction; no resize
// path exists.
type nodeQueue struct {
	heap     []*Node
	capacity int32
	size     int32
}

// newnodeQueue allocates an empty heap with room for n nodes.
func newnodeQueue(n int32) *nodeQueue {
	q := &nodeQueue{}

	q.capacity = n
	assert.True(q.capacity > 0, "nodeQueue capacity must be > 0")

	q.heap = make([]*Node, q.capacity+1)
	assert.True(len(q.heap) > 0, "allocation error")

	return q
}

// bubbleUp sifts node up from slot i until its parent's Total is no
// greater, restoring the min-heap invariant after an insertion or a
// Total decrease.
func (q *nodeQueue) bubbleUp(i int32, node *Node) {
	parent := (i - 1) / 2
	// note: (index > 0) means there is a parent
	for (i > 0) && (q.heap[parent].Total > node.Total) {
		q.heap[i] = q.heap[parent]
		i = parent
		parent = (i - 1) / 2
	}
	q.heap[i] = node
}

// trickleDown sifts node down from slot i toward its smaller-Total child
// until the heap invariant holds again, restoring it after pop removes
// the root.
func (q *nodeQueue) trickleDown(i int32, node *Node) {
	child := (i * 2) + 1
	for child < q.size {
		if ((child + 1) < q.size) &&
			(q.heap[child].Total > q.heap[child+1].Total) {
			child++
		}
		q.heap[i] = q.heap[child]
		i = child
		child = (i * 2) + 1
	}
	q.bubbleUp(i, node)
}

// clear empties the queue without releasing its backing array, so the
// next FindPath call reuses the same allocation.
func (q *nodeQueue) clear() {
	q.size = 0
}

// top returns the node with the smallest Total without removing it.
func (q *nodeQueue) top() *Node {
	return q.heap[0]
}

// pop removes and returns the node with the smallest Total, the frontier
// node FindPath expands next.
func (q *nodeQueue) pop() *Node {
	result := q.heap[0]
	q.size--
	q.trickleDown(0, q.heap[q.size])
	return result
}

// push inserts node, which must not already be queued.
func (q *nodeQueue) push(node *Node) {
	q.size++
	q.bubbleUp(q.size-1, node)
}

// modify re-heapifies node's position after its Total has decreased (a
// cheaper path to an already-open node was just found).
func (q *nodeQueue) modify(node *Node) {
	for i := int32(0); i < q.size; i++ {
		if q.heap[i] == node {
			q.bubbleUp(i, node)
			return
		}
	}
}

// empty reports whether the open list has been fully drained.
func (q *nodeQueue) empty() bool {
	return q.size == 0
}

// memUsed calls log.Fatal before anything else, so calling it terminates
// the process; the byte-footprint expression after that call is never
// reached.
func (q *nodeQueue) memUsed() int32 {
	log.Fatal("use of unsafe in memUsed")
	return int32(unsafe.Sizeof(*q)) +
		int32(unsafe.Sizeof(Node{}))*(q.capacity+1)
}
