package limbo

import (
	"bufio"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/realDragonium/limbo/core"
	"github.com/realDragonium/limbo/mc"
)

// mcConn is the play state side of a client connection. Every write and state
// change runs as a task on the connection's own goroutine, in the order the
// tasks were submitted.
type mcConn struct {
	netConn  net.Conn
	reader   *bufio.Reader
	writer   *bufio.Writer
	protocol mc.ProtocolVersion
	state    int32

	mu      sync.Mutex
	tasks   *queue.Queue
	session *sessionHandler
	backend net.Conn
	onClose []func()

	wake      chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newMcConn(conn net.Conn, reader *bufio.Reader, protocol mc.ProtocolVersion, state core.ConnState) *mcConn {
	if reader == nil {
		reader = bufio.NewReader(conn)
	}
	return &mcConn{
		netConn:  conn,
		reader:   reader,
		writer:   bufio.NewWriter(conn),
		protocol: protocol,
		state:    int32(state),
		tasks:    queue.New(),
		wake:     make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
}

func (c *mcConn) start() {
	go c.loop()
	go c.readLoop()
}

func (c *mcConn) Execute(task func()) {
	c.mu.Lock()
	select {
	case <-c.closeCh:
		c.mu.Unlock()
		return
	default:
	}
	c.tasks.Add(task)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *mcConn) loop() {
	for {
		select {
		case <-c.wake:
			c.drain()
		case <-c.closeCh:
			return
		}
	}
}

func (c *mcConn) drain() {
	for {
		c.mu.Lock()
		if c.tasks.Length() == 0 {
			c.mu.Unlock()
			return
		}
		task := c.tasks.Remove().(func())
		c.mu.Unlock()
		task()
	}
}

func (c *mcConn) isClosed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

// writeNow must only be called from the connection's own goroutine
func (c *mcConn) writeNow(pk mc.Packet) {
	if _, err := c.writer.Write(pk.Marshal()); err != nil {
		c.close()
	}
}

func (c *mcConn) flushNow() {
	if err := c.writer.Flush(); err != nil {
		c.close()
	}
}

func (c *mcConn) WritePacket(pk mc.Packet) error {
	if c.isClosed() {
		return core.ErrConnClosed
	}
	c.Execute(func() {
		c.writeNow(pk)
	})
	return nil
}

func (c *mcConn) WritePacketAndFlush(pk mc.Packet) error {
	if c.isClosed() {
		return core.ErrConnClosed
	}
	c.Execute(func() {
		c.writeNow(pk)
		c.flushNow()
	})
	return nil
}

func (c *mcConn) Flush() error {
	if c.isClosed() {
		return core.ErrConnClosed
	}
	c.Execute(c.flushNow)
	return nil
}

func (c *mcConn) CloseWith(pk mc.Packet) error {
	if c.isClosed() {
		return core.ErrConnClosed
	}
	c.Execute(func() {
		c.writeNow(pk)
		c.flushNow()
		c.close()
	})
	return nil
}

func (c *mcConn) Protocol() mc.ProtocolVersion {
	return c.protocol
}

func (c *mcConn) State() core.ConnState {
	return core.ConnState(atomic.LoadInt32(&c.state))
}

// SetState changes the protocol state, leaving the limbo state drops the
// session handler.
func (c *mcConn) SetState(state core.ConnState) {
	atomic.StoreInt32(&c.state, int32(state))
	if state != core.LimboState {
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
	}
}

func (c *mcConn) SessionHandler() core.SessionHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session
}

// installSession returns false when the connection is already gone
func (c *mcConn) installSession(session *sessionHandler) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed() {
		return false
	}
	c.session = session
	return true
}

// OnClose registers fn to run once the connection is gone
func (c *mcConn) OnClose(fn func()) {
	c.mu.Lock()
	if !c.isClosed() {
		c.onClose = append(c.onClose, fn)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	fn()
}

// attach hands the connection over to a backend. Bytes from the backend are
// copied to the client as they are, client packets are forwarded by readLoop.
func (c *mcConn) attach(backend net.Conn, backendReader io.Reader) {
	c.flushNow()
	c.mu.Lock()
	c.backend = backend
	c.mu.Unlock()
	go func() {
		pipe(backendReader, c.netConn)
		c.close()
	}()
}

func (c *mcConn) readLoop() {
	defer c.close()
	for {
		pk, err := mc.ReadPacket(c.reader)
		if err != nil {
			return
		}

		c.mu.Lock()
		backend := c.backend
		session := c.session
		c.mu.Unlock()

		if backend != nil {
			if _, err := backend.Write(pk.Marshal()); err != nil {
				return
			}
			pipe(c.reader, backend)
			return
		}
		if session != nil {
			c.Execute(func() {
				session.HandlePacket(pk)
			})
		}
	}
}

func (c *mcConn) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		close(c.closeCh)
		session := c.session
		backend := c.backend
		callbacks := c.onClose
		c.onClose = nil
		c.mu.Unlock()

		if err := c.netConn.Close(); err != nil {
			log.Printf("closing connection of %v: %v", c.netConn.RemoteAddr(), err)
		}
		if backend != nil {
			backend.Close()
		}
		if session != nil {
			session.connectionLost()
		}
		for _, fn := range callbacks {
			fn()
		}
	})
}

func pipe(src io.Reader, dst io.Writer) {
	buffer := make([]byte, 0xffff)
	for {
		n, err := src.Read(buffer)
		if n > 0 {
			if _, werr := dst.Write(buffer[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}
