package module

import (
	"net"
	"sync"
	"time"

	"github.com/realDragonium/limbo/core"
)

func FilterIpFromAddr(addr net.Addr) string {
	s := addr.String()
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return s
	}
	return host
}

// ConnectionLimiter decides whether a login attempt may continue
type ConnectionLimiter interface {
	Allow(req core.RequestData) bool
}

type AlwaysAllowConnection struct{}

func (limiter AlwaysAllowConnection) Allow(req core.RequestData) bool {
	return true
}

// NewBotFilterConnLimiter starts verifying players once more than ratelimit
// logins arrive within cooldown. While verifying, an ip has to log in twice
// with the same name. Using a different name the second time puts the ip on
// the blacklist for clearTime.
func NewBotFilterConnLimiter(ratelimit int, cooldown, clearTime, unverify time.Duration) ConnectionLimiter {
	return &botFilterConnLimiter{
		lastTimeAboveLimit: time.Now(),
		unverifyCooldown:   unverify,
		rateLimit:          ratelimit,
		rateCooldown:       cooldown,
		listClearTime:      clearTime,

		namesList: make(map[string]string),
		blackList: make(map[string]time.Time),
	}
}

type botFilterConnLimiter struct {
	mu sync.Mutex

	limiting         bool
	unverifyCooldown time.Duration

	rateCounter        int
	rateStartTime      time.Time
	lastTimeAboveLimit time.Time
	rateLimit          int
	rateCooldown       time.Duration
	listClearTime      time.Duration

	blackList map[string]time.Time
	namesList map[string]string
}

func (l *botFilterConnLimiter) Allow(req core.RequestData) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Since(l.rateStartTime) >= l.rateCooldown {
		if l.rateCounter > l.rateLimit {
			l.lastTimeAboveLimit = l.rateStartTime
		}
		if l.limiting && time.Since(l.lastTimeAboveLimit) >= l.unverifyCooldown {
			l.limiting = false
		}
		l.rateCounter = 0
		l.rateStartTime = time.Now()
	}

	l.rateCounter++
	ip := FilterIpFromAddr(req.Addr)
	if blockTime, ok := l.blackList[ip]; ok {
		if time.Since(blockTime) < l.listClearTime {
			return false
		}
		delete(l.blackList, ip)
	}

	l.limiting = l.limiting || l.rateCounter > l.rateLimit
	if !l.limiting {
		return true
	}
	username, ok := l.namesList[ip]
	if !ok {
		l.namesList[ip] = req.Username
		return false
	}
	if username != req.Username {
		l.blackList[ip] = time.Now()
		return false
	}
	return true
}
