package backend

import (
	"errors"
	"sync"
	"testing"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/access"
	"github.com/quizhub/quizhub/pkg/membership"
	"github.com/quizhub/quizhub/pkg/proto"
)

func TestConcurrentAcceptInvite(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	a, err := f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	is.NoErr(err)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.be.AcceptInvite(f.ctx, f.u.ID, a.ID)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		is.True(errors.Is(err, proto.ErrConflict)) // losers get a conflict
	}
	is.Equal(ok, 1)

	ms := f.members(t)
	is.Equal(len(ms), 2)
	is.Equal(ms[f.u.ID], access.UserRole)
	is.Equal(f.action(t, f.u.ID).Status, membership.StatusAccepted)
}

func TestConcurrentInviteAndRequest(t *testing.T) {
	is := is.New(t)
	f := newFixture(t)

	var invErr, reqErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, invErr = f.be.CreateInvite(f.ctx, f.owner.ID, f.company.ID, f.u.ID)
	}()
	go func() {
		defer wg.Done()
		_, reqErr = f.be.CreateRequest(f.ctx, f.u.ID, f.company.ID)
	}()
	wg.Wait()

	for _, err := range []error{invErr, reqErr} {
		if err != nil {
			is.True(errors.Is(err, proto.ErrConflict))
		}
	}
	is.True(invErr == nil || reqErr == nil) // one side always lands

	// A single action row exists and the member set agrees with it.
	a := f.action(t, f.u.ID)
	ms := f.members(t)
	if invErr == nil && reqErr == nil {
		is.Equal(a.Status, membership.StatusAccepted)
		is.Equal(len(ms), 2)
		is.Equal(ms[f.u.ID], access.UserRole)
	} else {
		is.True(a.Status == membership.StatusInvited || a.Status == membership.StatusRequested)
		is.Equal(len(ms), 1)
	}

	invites, err := f.be.MyInvites(f.ctx, f.u.ID)
	is.NoErr(err)
	requests, err := f.be.MyRequests(f.ctx, f.u.ID)
	is.NoErr(err)
	is.True(len(invites)+len(requests) <= 1)
}
