package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInflightGateSingleHolder(t *testing.T) {
	gate := newInflightGate()

	release, leader := gate.acquire(context.Background(), "https://www.example.com")
	require.NotNil(t, release)
	assert.True(t, leader)

	// A different URL is independent.
	otherRelease, otherLeader := gate.acquire(context.Background(), "https://www.other.com")
	require.NotNil(t, otherRelease)
	assert.True(t, otherLeader)
	otherRelease()

	release()

	// After release the slot is free again and leadership returns.
	release2, leader2 := gate.acquire(context.Background(), "https://www.example.com")
	require.NotNil(t, release2)
	assert.True(t, leader2)
	release2()
}

func TestInflightGateFollowersWait(t *testing.T) {
	gate := newInflightGate()

	release, leader := gate.acquire(context.Background(), "https://www.example.com")
	require.NotNil(t, release)
	require.True(t, leader)

	var wg sync.WaitGroup
	followers := make([]bool, 3)
	for i := range followers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			followerRelease, followerLeader := gate.acquire(context.Background(), "https://www.example.com")
			require.NotNil(t, followerRelease)
			followers[i] = followerLeader
			followerRelease()
		}(i)
	}

	// Give followers time to block, then let them through.
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	for i, wasLeader := range followers {
		assert.False(t, wasLeader, "follower %d must not be leader", i)
	}
}

func TestInflightGateCanceledWaiter(t *testing.T) {
	gate := newInflightGate()

	release, _ := gate.acquire(context.Background(), "https://www.example.com")
	require.NotNil(t, release)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	waiterRelease, _ := gate.acquire(ctx, "https://www.example.com")
	assert.Nil(t, waiterRelease)
}
