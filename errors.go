package hugego

import "github.com/hupe1980/hugego/resource"

// ErrMemoryLimitExceeded is returned when creating or growing an array
// would overrun the configured memory budget. It is the resource
// package's sentinel re-exported, so errors.Is checks work against
// either package.
var ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
