package limbo

import (
	"log"
	"sync"

	"github.com/realDragonium/limbo/core"
)

// QueueStage is one limbo every player has to pass through before reaching
// a backend. Handler is called once per player.
type QueueStage struct {
	Limbo   *Limbo
	Handler func() Handler
}

type queueEntry struct {
	stage int
	next  core.Server
}

// LoginQueue walks players through its stages in order and sends them to
// their post queue server afterwards. That is target unless something chose
// another server on the way.
type LoginQueue struct {
	target core.Server
	stages []QueueStage

	mu      sync.Mutex
	players map[core.Player]*queueEntry
}

func NewLoginQueue(target core.Server, stages ...QueueStage) *LoginQueue {
	return &LoginQueue{
		target:  target,
		stages:  stages,
		players: make(map[core.Player]*queueEntry),
	}
}

func (q *LoginQueue) Stages() int {
	return len(q.stages)
}

// Join puts the player in front of the first stage
func (q *LoginQueue) Join(p *ProxyPlayer) {
	q.mu.Lock()
	q.players[p] = &queueEntry{stage: -1}
	q.mu.Unlock()

	p.setLoginQueue(q)
	p.conn.OnClose(func() {
		q.Leave(p)
	})
	q.Next(p)
}

func (q *LoginQueue) Queued(p core.Player) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.players[p]
	return ok
}

func (q *LoginQueue) SetNextServer(p core.Player, server core.Server) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if entry, ok := q.players[p]; ok {
		entry.next = server
	}
}

func (q *LoginQueue) Leave(p core.Player) {
	q.mu.Lock()
	delete(q.players, p)
	q.mu.Unlock()
}

// Next moves the player to the next stage, or out of the queue after the
// last one.
func (q *LoginQueue) Next(p core.Player) {
	q.mu.Lock()
	entry, ok := q.players[p]
	if !ok {
		q.mu.Unlock()
		return
	}
	entry.stage++
	if entry.stage >= len(q.stages) {
		delete(q.players, p)
		target := entry.next
		q.mu.Unlock()
		q.finish(p, target)
		return
	}
	stage := q.stages[entry.stage]
	q.mu.Unlock()

	proxy, ok := p.(*ProxyPlayer)
	if !ok {
		log.Printf("%s can not enter limbo %s, it has no proxy connection", p.Name(), stage.Limbo.Name())
		q.Leave(p)
		return
	}
	var handler Handler
	if stage.Handler != nil {
		handler = stage.Handler()
	}
	if _, err := stage.Limbo.Spawn(proxy, handler, nil); err != nil {
		log.Printf("%s could not enter limbo %s: %v", p.Name(), stage.Limbo.Name(), err)
		q.Leave(p)
	}
}

func (q *LoginQueue) finish(p core.Player, target core.Server) {
	if target == nil {
		target = q.target
	}
	if target == nil {
		closeWithoutTarget(p)
		return
	}
	handOff(p, target)
}
