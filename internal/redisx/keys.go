package redisx

import "time"

const (
	// Positive customer-existence lookups (split-mode guard):
	// crm:customer:exists:{customer_id} -> "1"
	KeyCustomerExists = "crm:customer:exists:%s"

	// Dedup event processing: dedup:{consumer}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	// Short on purpose: the cache widens the check-then-insert window, so
	// keep it close to the uncached race.
	TTLCustomerExists = 30 * time.Second
	TTLDedup          = 48 * time.Hour
)
