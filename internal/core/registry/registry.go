// Package registry 维护在线连接表
//
// 表以客户端地址为键，按 murmur3 哈希分片，每个分片一把互斥锁。
// 任何 I/O（关闭连接）都在释放锁之后进行。
package registry

import (
	"net/netip"
	"slices"
	"sync"

	"github.com/spaolacci/murmur3"
	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-gamenet/pkg/interfaces"
	"github.com/dep2p/go-gamenet/pkg/lib/log"
)

var logger = log.Logger("core/registry")

// shardCount 分片数，必须是 2 的幂
const shardCount = 32

type shard struct {
	mu    sync.RWMutex
	conns map[netip.AddrPort]pkgif.Conn
}

// Registry 连接表
type Registry struct {
	shards [shardCount]*shard
}

// New 创建连接表
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{conns: make(map[netip.AddrPort]pkgif.Conn)}
	}
	return r
}

func (r *Registry) shardFor(addr netip.AddrPort) *shard {
	key, _ := addr.MarshalBinary()
	return r.shards[murmur3.Sum32(key)&(shardCount-1)]
}

// Insert 注册连接
//
// 同一地址已有连接时替换并返回旧连接，旧连接由调用方处理。
func (r *Registry) Insert(addr netip.AddrPort, conn pkgif.Conn) (replaced pkgif.Conn) {
	s := r.shardFor(addr)
	s.mu.Lock()
	replaced = s.conns[addr]
	s.conns[addr] = conn
	s.mu.Unlock()

	if replaced != nil {
		logger.Warn("地址已有连接，已替换", "addr", addr)
	}
	return replaced
}

// Remove 移除连接，不关闭
//
// 地址不存在时返回 false，可重复调用。
func (r *Registry) Remove(addr netip.AddrPort) (pkgif.Conn, bool) {
	s := r.shardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.conns[addr]
	if ok {
		delete(s.conns, addr)
	}
	return conn, ok
}

// RemoveIf 仅当地址对应的仍是 conn 时移除
func (r *Registry) RemoveIf(addr netip.AddrPort, conn pkgif.Conn) bool {
	s := r.shardFor(addr)
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.conns[addr]; ok && cur == conn {
		delete(s.conns, addr)
		return true
	}
	return false
}

// Get 查找连接
func (r *Registry) Get(addr netip.AddrPort) (pkgif.Conn, bool) {
	s := r.shardFor(addr)
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, ok := s.conns[addr]
	return conn, ok
}

// Len 返回连接数
func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.RLock()
		n += len(s.conns)
		s.mu.RUnlock()
	}
	return n
}

// Snapshot 返回当前所有地址，按地址排序
//
// 逐分片加锁，结果不是全表的原子快照。
func (r *Registry) Snapshot() []netip.AddrPort {
	addrs := make([]netip.AddrPort, 0, r.Len())
	for _, s := range r.shards {
		s.mu.RLock()
		for addr := range s.conns {
			addrs = append(addrs, addr)
		}
		s.mu.RUnlock()
	}
	slices.SortFunc(addrs, func(a, b netip.AddrPort) int { return a.Compare(b) })
	return addrs
}

// CloseAll 移除并关闭所有连接
//
// 不等待连接上的读写任务退出。返回被关闭的连接数。
func (r *Registry) CloseAll(code pkgif.CloseCode, reason string) (int, error) {
	// 先摘除，后关闭，避免持锁 I/O
	var detached []pkgif.Conn
	for _, s := range r.shards {
		s.mu.Lock()
		for addr, conn := range s.conns {
			detached = append(detached, conn)
			delete(s.conns, addr)
		}
		s.mu.Unlock()
	}

	var err error
	for _, conn := range detached {
		err = multierr.Append(err, conn.CloseWithError(code, reason))
	}

	if len(detached) > 0 {
		logger.Debug("已关闭所有连接", "count", len(detached), "code", code)
	}
	return len(detached), err
}
