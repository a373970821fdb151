package typesystem

import (
	"hash/fnv"
	"sync"
)

const cacheShards = 16

type cacheOp byte

const (
	opLub cacheOp = iota
	opGlb
	opSub
)

type cacheKey struct {
	op   cacheOp
	a, b string
}

type cacheShard struct {
	mu    sync.RWMutex
	types map[cacheKey]Type
	bools map[cacheKey]bool
}

// LatticeCache memoizes lattice operations for one frozen Context. Entries
// are striped across independently locked shards so concurrent checkers
// rarely contend. Results are identical to the uncached functions.
type LatticeCache struct {
	ctx    Context
	shards [cacheShards]cacheShard
}

func NewLatticeCache(ctx Context) *LatticeCache {
	c := &LatticeCache{ctx: ctx}
	for i := range c.shards {
		c.shards[i].types = make(map[cacheKey]Type)
		c.shards[i].bools = make(map[cacheKey]bool)
	}
	return c
}

func (c *LatticeCache) Context() Context { return c.ctx }

func (c *LatticeCache) shard(k cacheKey) *cacheShard {
	h := fnv.New32a()
	h.Write([]byte{byte(k.op)})
	h.Write([]byte(k.a))
	h.Write([]byte{0})
	h.Write([]byte(k.b))
	return &c.shards[h.Sum32()%cacheShards]
}

func (c *LatticeCache) Lub(t1, t2 Type) Type {
	return c.memoType(opLub, t1, t2, Lub)
}

func (c *LatticeCache) Glb(t1, t2 Type) Type {
	return c.memoType(opGlb, t1, t2, Glb)
}

func (c *LatticeCache) IsSubType(t1, t2 Type) bool {
	mustBeType(t1, "subtype operand")
	mustBeType(t2, "supertype operand")
	k := cacheKey{op: opSub, a: t1.key(), b: t2.key()}
	s := c.shard(k)
	s.mu.RLock()
	v, ok := s.bools[k]
	s.mu.RUnlock()
	if ok {
		return v
	}
	v = IsSubType(c.ctx, t1, t2)
	s.mu.Lock()
	s.bools[k] = v
	s.mu.Unlock()
	return v
}

func (c *LatticeCache) Equiv(t1, t2 Type) bool {
	return c.IsSubType(t1, t2) && c.IsSubType(t2, t1)
}

func (c *LatticeCache) memoType(op cacheOp, t1, t2 Type, compute func(Context, Type, Type) Type) Type {
	mustBeType(t1, "lattice operand")
	mustBeType(t2, "lattice operand")
	k := cacheKey{op: op, a: t1.key(), b: t2.key()}
	s := c.shard(k)
	s.mu.RLock()
	v, ok := s.types[k]
	s.mu.RUnlock()
	if ok {
		return v
	}
	v = compute(c.ctx, t1, t2)
	s.mu.Lock()
	if prev, ok := s.types[k]; ok {
		v = prev
	} else {
		s.types[k] = v
	}
	s.mu.Unlock()
	return v
}

// Len returns the number of memoized entries.
func (c *LatticeCache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.types) + len(s.bools)
		s.mu.RUnlock()
	}
	return n
}
