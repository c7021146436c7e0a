package patterns

import "time"

// DefaultTimeout is the default timeout for provider HTTP requests
const DefaultTimeout = 30 * time.Second

// BulkheadWait is how long a call waits for a free bulkhead slot
const BulkheadWait = 1 * time.Second
