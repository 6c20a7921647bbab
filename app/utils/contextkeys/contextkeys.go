package contextkeys

// RequestId keys the per-request correlation id in a request context.
type RequestId struct{}
