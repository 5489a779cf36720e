package cache

// lruNode is a node in a doubly-linked LRU list. It stores the key so the
// oldest entry can be deleted from the map.
type lruNode[K comparable, V any] struct {
	key        K
	prev, next *lruNode[K, V]
}

// lruList orders keys by recency: head is the most recently used, tail the
// least. It is not thread-safe.
type lruList[K comparable, V any] struct {
	head, tail *lruNode[K, V]
}

// PushFront inserts key as the most recently used node.
func (l *lruList[K, V]) PushFront(key K) *lruNode[K, V] {
	node := &lruNode[K, V]{key: key}
	l.link(node)
	return node
}

// MoveToFront marks node as the most recently used.
func (l *lruList[K, V]) MoveToFront(node *lruNode[K, V]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.link(node)
}

// RemoveOldest unlinks the least recently used node and returns its key.
func (l *lruList[K, V]) RemoveOldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

// Clear drops every node.
func (l *lruList[K, V]) Clear() {
	l.head, l.tail = nil, nil
}

func (l *lruList[K, V]) link(node *lruNode[K, V]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

func (l *lruList[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev, node.next = nil, nil
}
