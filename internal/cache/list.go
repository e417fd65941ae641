package cache

// nilSlot terminates the recency list.
const nilSlot = -1

// node is one arena slot. prev/next are slot indices, not pointers, so the
// arena can be a single flat slice with no reference cycles.
type node[K comparable, V any] struct {
	key   K
	value V
	prev  int
	next  int
}

// recency is a doubly linked list threaded through an arena of nodes.
// Front (head) = most recently used, Back (tail) = least recently used.
type recency[K comparable, V any] struct {
	nodes []node[K, V]
	head  int
	tail  int
	free  []int // slots released by Delete, reused before growing nodes
}

func newRecency[K comparable, V any](capacity int) recency[K, V] {
	return recency[K, V]{
		nodes: make([]node[K, V], 0, capacity),
		head:  nilSlot,
		tail:  nilSlot,
	}
}

// alloc returns a detached slot holding key/value.
func (r *recency[K, V]) alloc(key K, value V) int {
	n := node[K, V]{key: key, value: value, prev: nilSlot, next: nilSlot}
	if last := len(r.free) - 1; last >= 0 {
		i := r.free[last]
		r.free = r.free[:last]
		r.nodes[i] = n
		return i
	}
	r.nodes = append(r.nodes, n)
	return len(r.nodes) - 1
}

// release clears slot i and makes it available to alloc. i must be unlinked.
func (r *recency[K, V]) release(i int) {
	r.nodes[i] = node[K, V]{prev: nilSlot, next: nilSlot}
	r.free = append(r.free, i)
}

func (r *recency[K, V]) pushFront(i int) {
	n := &r.nodes[i]
	n.prev = nilSlot
	n.next = r.head
	if r.head != nilSlot {
		r.nodes[r.head].prev = i
	} else {
		r.tail = i
	}
	r.head = i
}

func (r *recency[K, V]) unlink(i int) {
	n := &r.nodes[i]
	if n.prev != nilSlot {
		r.nodes[n.prev].next = n.next
	} else {
		r.head = n.next
	}
	if n.next != nilSlot {
		r.nodes[n.next].prev = n.prev
	} else {
		r.tail = n.prev
	}
	n.prev, n.next = nilSlot, nilSlot
}

func (r *recency[K, V]) moveToFront(i int) {
	if r.head == i {
		return
	}
	r.unlink(i)
	r.pushFront(i)
}

// reset drops every node but keeps the arena's backing array.
func (r *recency[K, V]) reset() {
	clear(r.nodes)
	r.nodes = r.nodes[:0]
	r.free = r.free[:0]
	r.head, r.tail = nilSlot, nilSlot
}
