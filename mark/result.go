package mark

import (
	"sort"
	"sync"

	"github.com/focusgc/focusgc/gkey"
	"github.com/focusgc/focusgc/gset"
)

// Result holds the three kept sets the mark phase and verification collector
// populate. It is owned by one Run call; sweep reads it afterward but never
// mutates it, so no further synchronization is needed once Run returns.
type Result struct {
	KeptRdeps       *gset.Set
	KeptDeps        *gset.Set
	VerificationSet *gset.Set

	skippedMu     sync.Mutex
	skippedLeaves []gkey.Key
}

func newResult() *Result {
	return &Result{
		KeptRdeps:       gset.New(),
		KeptDeps:        gset.New(),
		VerificationSet: gset.New(),
	}
}

// recordSkippedLeaf appends k to the skipped-leaf list. Called only when a
// caller has relaxed strictness via Config.StrictMissingNode == false and a
// seeded leaf turned out missing or not-done.
func (r *Result) recordSkippedLeaf(k gkey.Key) {
	r.skippedMu.Lock()
	r.skippedLeaves = append(r.skippedLeaves, k)
	r.skippedMu.Unlock()
}

// SkippedLeaves returns a sorted snapshot of every seeded leaf that was
// recorded as a skip rather than causing a fatal error.
func (r *Result) SkippedLeaves() []gkey.Key {
	r.skippedMu.Lock()
	out := make([]gkey.Key, len(r.skippedLeaves))
	copy(out, r.skippedLeaves)
	r.skippedMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
