package bpe

type lruNode[V any] struct {
	key   string
	value V
	next  *lruNode[V]
	prev  *lruNode[V]
}

// LRUCache is a simple O(1) LRU cache keyed by input text. It is not safe for
// concurrent use.
type LRUCache[V any] struct {
	size  int
	nodes map[string]*lruNode[V]
	head  *lruNode[V]
	tail  *lruNode[V]
}

func NewLRUCache[V any](size int) *LRUCache[V] {
	return &LRUCache[V]{
		size:  size,
		nodes: map[string]*lruNode[V]{},
	}
}

func (c *LRUCache[V]) Get(key string) (V, bool) {
	node, ok := c.nodes[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToHead(node)
	return node.value, true
}

func (c *LRUCache[V]) Set(key string, value V) {
	if c.size <= 0 {
		return
	}
	if node, ok := c.nodes[key]; ok {
		node.value = value
		c.moveToHead(node)
		return
	}

	node := &lruNode[V]{
		key:   key,
		value: value,
	}
	c.nodes[key] = node
	c.addNode(node)
	if len(c.nodes) > c.size {
		evicted := c.tail
		delete(c.nodes, evicted.key)
		c.removeNode(evicted)
	}
}

func (c *LRUCache[V]) Len() int {
	return len(c.nodes)
}

// Reset drops every entry.
func (c *LRUCache[V]) Reset() {
	c.nodes = map[string]*lruNode[V]{}
	c.head = nil
	c.tail = nil
}

func (c *LRUCache[V]) moveToHead(node *lruNode[V]) {
	c.removeNode(node)
	node.prev = nil
	node.next = nil
	c.addNode(node)
}

func (c *LRUCache[V]) addNode(node *lruNode[V]) {
	if c.head != nil {
		c.head.prev = node
		node.next = c.head
	}
	if c.tail == nil {
		c.tail = node
	}
	c.head = node
}

func (c *LRUCache[V]) removeNode(node *lruNode[V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
}
