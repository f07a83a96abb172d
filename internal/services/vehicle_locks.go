package services

import (
	"context"
	"sync"
)

// VehicleLocks hands out one exclusive section per vehicle id.
// Operations on different vehicles never contend; entries are dropped once
// no holder or waiter remains.
type VehicleLocks struct {
	mu      sync.Mutex
	entries map[string]*vehicleLock
}

type vehicleLock struct {
	sem  chan struct{}
	refs int
}

func NewVehicleLocks() *VehicleLocks {
	return &VehicleLocks{entries: make(map[string]*vehicleLock)}
}

// Lock blocks until the section for vehicleID is free or ctx is done.
// On success the returned func releases the section.
func (l *VehicleLocks) Lock(ctx context.Context, vehicleID string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[vehicleID]
	if !ok {
		e = &vehicleLock{sem: make(chan struct{}, 1)}
		l.entries[vehicleID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(vehicleID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(vehicleID, e)
		})
	}, nil
}

func (l *VehicleLocks) release(vehicleID string, e *vehicleLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, vehicleID)
	}
}

// size reports the number of tracked vehicles.
func (l *VehicleLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
