package mcmc

import (
	"fmt"
	"sync"
)

// RunChains runs n independent chains concurrently. Chain i uses its
// own generator seeded with seed+i, so the result only depends on
// settings and seed. Chains are returned in index order.
func RunChains(settings *Settings, n int, seed int64) ([]*Chain, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: number of chains should be >= 1, got %d", ErrConfig, n)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	chains := make([]*Chain, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// copy, the caller's settings stay untouched
			s := *settings
			if n > 1 {
				s.AccPeriod = 0
			}
			c, err := Sample(&s, seed+int64(i))
			if err != nil {
				errs[i] = err
				return
			}
			c.Index = i
			chains[i] = c
			log.Debugf("Chain %d finished, acceptance rate %.2f%%", i, 100*c.AcceptanceRate())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return chains, nil
}
