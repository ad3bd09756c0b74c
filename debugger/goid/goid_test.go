package goid

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID_NonZeroAndStable(t *testing.T) {
	id := ID()
	assert.NotZero(t, id)
	assert.Equal(t, id, ID())
}

func TestID_DiffersAcrossGoroutines(t *testing.T) {
	mine := ID()
	ch := make(chan uint64)
	go func() { ch <- ID() }()
	other := <-ch
	assert.NotEqual(t, mine, other)
}

func TestName_DefaultsToGoroutineID(t *testing.T) {
	ch := make(chan [2]string)
	go func() {
		ch <- [2]string{Name(), strconv.FormatUint(ID(), 10)}
	}()
	got := <-ch
	assert.Equal(t, "Goroutine-"+got[1], got[0])
}

func TestNameOf_MainGoroutine(t *testing.T) {
	assert.Equal(t, "MainGoroutine", NameOf(1))
}

func TestSetName_ScopedToGoroutine(t *testing.T) {
	// GIVEN a named goroutine
	var wg sync.WaitGroup
	wg.Add(1)
	var inside, id string
	go func() {
		defer wg.Done()
		SetName("worker-1")
		defer ClearName()
		inside = Name()
		id = strconv.FormatUint(ID(), 10)
	}()
	wg.Wait()

	// THEN the name was visible inside and is gone afterwards
	assert.Equal(t, "worker-1", inside)
	n, _ := strconv.ParseUint(id, 10, 64)
	assert.Equal(t, "Goroutine-"+id, NameOf(n))
}

func TestGo_NamesAndClears(t *testing.T) {
	done := make(chan string)
	Go("named", func() {
		done <- Name()
	})
	assert.Equal(t, "named", <-done)
}
