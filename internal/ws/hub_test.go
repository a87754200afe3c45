package ws

import (
	"sync"
	"testing"

	"medicore/internal/domain"

	"github.com/stretchr/testify/assert"
)

func newTestClient(userID uint, role string) *Client {
	return &Client{UserID: userID, Role: role, Send: make(chan []byte, 4)}
}

func drain(c *Client) int {
	n := 0
	for {
		select {
		case <-c.Send:
			n++
		default:
			return n
		}
	}
}

func TestHubPublishUserAudience(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(1, domain.RolePatient)
	bob := newTestClient(2, domain.RoleDoctor)
	hub.Register(alice)
	hub.Register(bob)

	hub.Publish(domain.UserAudience(1), map[string]string{"hello": "alice"})

	assert.Equal(t, 1, drain(alice))
	assert.Equal(t, 0, drain(bob))
}

func TestHubPublishRoleAudience(t *testing.T) {
	hub := NewHub()
	doc1 := newTestClient(1, domain.RoleDoctor)
	doc2 := newTestClient(2, domain.RoleDoctor)
	mgr := newTestClient(3, domain.RoleManager)
	hub.Register(doc1)
	hub.Register(doc2)
	hub.Register(mgr)

	hub.Publish(domain.RoleAudience(domain.RoleDoctor), map[string]string{"type": "notification"})

	assert.Equal(t, 1, drain(doc1))
	assert.Equal(t, 1, drain(doc2))
	assert.Equal(t, 0, drain(mgr))
}

func TestHubPublishAllAudience(t *testing.T) {
	hub := NewHub()
	clients := []*Client{
		newTestClient(1, domain.RolePatient),
		newTestClient(2, domain.RoleDoctor),
		newTestClient(3, domain.RoleAdmin),
	}
	for _, c := range clients {
		hub.Register(c)
	}

	hub.Publish(domain.AllAudience(), map[string]string{"type": "notification"})

	for _, c := range clients {
		assert.Equal(t, 1, drain(c))
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := newTestClient(9, domain.RoleManager)
	hub.Register(c)
	hub.Unregister(c)

	hub.Publish(domain.UserAudience(9), map[string]string{"x": "y"})
	assert.Equal(t, 0, drain(c))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubSlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	slow := &Client{UserID: 1, Role: domain.RoleDoctor, Send: make(chan []byte)} // unbuffered, never read
	fast := newTestClient(2, domain.RoleDoctor)
	hub.Register(slow)
	hub.Register(fast)

	done := make(chan struct{})
	go func() {
		hub.Publish(domain.RoleAudience(domain.RoleDoctor), map[string]string{"x": "y"})
		close(done)
	}()
	<-done

	assert.Equal(t, 1, drain(fast))
}

func TestHubPublishConcurrentWithClose(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					hub.Publish(domain.UserAudience(1), map[string]string{"x": "y"})
				}
			}
		}()
	}
	for i := 0; i < 500; i++ {
		c := newTestClient(1, domain.RolePatient)
		hub.Register(c)
		c.Close()
	}
	close(done)
	wg.Wait()
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubMultipleConnectionsSameUser(t *testing.T) {
	hub := NewHub()
	phone := newTestClient(5, domain.RolePatient)
	laptop := newTestClient(5, domain.RolePatient)
	hub.Register(phone)
	hub.Register(laptop)

	hub.Publish(domain.UserAudience(5), map[string]string{"x": "y"})

	assert.Equal(t, 1, drain(phone))
	assert.Equal(t, 1, drain(laptop))
}
