// Package discovery resolves logical service names to live peer instances
// for the framework transport. The production deployment plugs in whatever
// discovery source the cluster provides; a static, environment-seeded
// resolver ships here for standalone setups and tests.
package discovery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"strings"
	"sync"
)

// Instance is one addressable replica of a logical service.
type Instance struct {
	Host    string
	Port    int
	Healthy bool
}

// Addr returns the host:port form of the instance.
func (i Instance) Addr() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

// Resolver looks up the live instances of a logical service name.
type Resolver interface {
	Resolve(ctx context.Context, service string) ([]Instance, error)
}

// Pick selects one healthy instance at random. Random selection among
// healthy replicas is the load-balancing strategy the framework transport
// uses; it reports false when no healthy instance exists.
func Pick(instances []Instance) (Instance, bool) {
	healthy := make([]Instance, 0, len(instances))
	for _, in := range instances {
		if in.Healthy {
			healthy = append(healthy, in)
		}
	}
	if len(healthy) == 0 {
		return Instance{}, false
	}
	return healthy[rand.IntN(len(healthy))], true
}

// Static is a fixed in-memory resolver. It is safe for concurrent use.
type Static struct {
	mu       sync.RWMutex
	services map[string][]Instance
}

// NewStatic creates an empty static resolver.
func NewStatic() *Static {
	return &Static{services: make(map[string][]Instance)}
}

// Add appends instances to a service entry.
func (s *Static) Add(service string, instances ...Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[service] = append(s.services[service], instances...)
}

// Resolve returns the registered instances for service. An unknown service
// resolves to an empty list, not an error; callers treat "no instance" as
// a transport failure at dispatch time.
func (s *Static) Resolve(_ context.Context, service string) ([]Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instances := s.services[service]
	out := make([]Instance, len(instances))
	copy(out, instances)
	return out, nil
}

// ParseEndpoints builds a static resolver from a spec string of the form
//
//	service=host:port,host:port;service2=host:port
//
// as carried by the FRAMEWORK_ENDPOINTS environment variable. All parsed
// instances are marked healthy.
func ParseEndpoints(spec string) (*Static, error) {
	s := NewStatic()
	if strings.TrimSpace(spec) == "" {
		return s, nil
	}
	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, addrs, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("discovery: malformed endpoint entry %q", entry)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("discovery: empty service name in %q", entry)
		}
		for _, addr := range strings.Split(addrs, ",") {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			host, portStr, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, fmt.Errorf("discovery: bad address %q for service %q: %w", addr, name, err)
			}
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("discovery: bad port in %q: %w", addr, err)
			}
			s.Add(name, Instance{Host: host, Port: port, Healthy: true})
		}
	}
	return s, nil
}
