package stripe

import "strings"

// Reference classification for our payment records. A checkout session id
// ("cs_...") is only a stable key until the session resolves into a payment
// intent ("pi_..."); rows keyed by a session id get re-keyed to the intent id
// the first time a charge or webhook carries one.

func IsSessionReference(ref string) bool {
	return strings.HasPrefix(ref, "cs_")
}

func IsIntentReference(ref string) bool {
	return strings.HasPrefix(ref, "pi_")
}
