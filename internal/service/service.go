// Package service implements C6: thin wrappers over internal/store that
// apply the §6 configuration limits and translate repository errors into
// the policy spec §4.6 describes ("errors from lock acquisition surface as
// Configuration(\"Storage lock poisoned\")"). Go's sync.Mutex cannot be
// poisoned the way Rust's can, so that clause has no code path here; it is
// recorded as a deliberate no-op rather than simulated.
//
// Grounded on the teacher's pattern of thin per-entity manager wrappers
// (internal/user.UserMgr, before its deletion, called straight into its own
// mutex-guarded cache the same way); here the repository already owns its
// lock, so each service method is a single delegating call plus config
// plumbing — no caching, no cross-entity transactions, per §4.6.
package service

import "github.com/sdsalyer/moonbase/internal/config"

// limitsFromFeatures returns the maximum username and message lengths the
// repositories validate against, taken from the loaded features config.
func limitsFromFeatures(f config.FeaturesConfig) (maxUsername, maxMessage int) {
	return f.MaxUsernameLength, f.MaxMessageLength
}
